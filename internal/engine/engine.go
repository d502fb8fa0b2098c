// Package engine runs one stateless elicitation turn: it rebuilds the
// preference record from the answer history, scores it, and either asks the
// next question or hands the record off for recommendation.
package engine

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/elicit/internal/budget"
	"github.com/sells-group/elicit/internal/catalog"
	"github.com/sells-group/elicit/internal/config"
	"github.com/sells-group/elicit/internal/extract"
	"github.com/sells-group/elicit/internal/followup"
	"github.com/sells-group/elicit/internal/model"
	"github.com/sells-group/elicit/internal/question"
	"github.com/sells-group/elicit/internal/scoring"
)

// ErrUnsupportedLocale is returned for a locale other than en or tr.
var ErrUnsupportedLocale = eris.New("engine: unsupported locale")

// Request is one turn's input. The session's full answer history is sent
// every turn; nothing is kept between calls.
type Request struct {
	Category          string         `json:"category"`
	Answers           []string       `json:"answers"`
	AskedAttributeIDs []string       `json:"asked_attribute_ids,omitempty"`
	ExtraPreferences  map[string]any `json:"extra_preferences,omitempty"`
	Locale            string         `json:"locale,omitempty"`
}

// Response is one turn's output. Question is set while asking; Search is
// set once done.
type Response struct {
	Done            bool                `json:"done"`
	Category        string              `json:"category"`
	Locale          model.Locale        `json:"locale"`
	Question        *model.Question     `json:"question,omitempty"`
	Preferences     model.Record        `json:"preferences"`
	Score           model.ScoreSnapshot `json:"score"`
	Search          *SearchCriteria     `json:"search,omitempty"`
	Recommendations []Recommendation    `json:"recommendations,omitempty"`
}

// Recommendation is one product suggestion from a Recommender.
type Recommendation struct {
	Title  string `json:"title"`
	URL    string `json:"url,omitempty"`
	Price  string `json:"price,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Recommender turns a finished preference record into suggestions.
type Recommender interface {
	Generate(ctx context.Context, criteria SearchCriteria, rec model.Record) ([]Recommendation, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecommender attaches a Recommender invoked when elicitation is done.
func WithRecommender(r Recommender) Option {
	return func(e *Engine) { e.recommender = r }
}

// WithConflictDetector plugs a conflict check into the follow-up selector.
func WithConflictDetector(d followup.ConflictDetector) Option {
	return func(e *Engine) { e.conflicts = d }
}

// Engine evaluates turns against categories from a catalog.Store. It holds
// no per-session state and is safe for concurrent use.
type Engine struct {
	store         catalog.Store
	extractor     *extract.Extractor
	selector      *followup.Selector
	parser        *budget.Parser
	defaultLocale model.Locale
	recommender   Recommender
	conflicts     followup.ConflictDetector
}

// New creates an Engine. Zero-valued policy fields in cfg take the
// standard defaults.
func New(store catalog.Store, cfg config.EngineConfig, opts ...Option) *Engine {
	e := &Engine{store: store}
	for _, opt := range opts {
		opt(e)
	}

	policy := followup.DefaultPolicy()
	if cfg.MandatoryWeight > 0 {
		policy.MandatoryWeight = cfg.MandatoryWeight
	}
	if cfg.ImportanceTiers != nil {
		policy.ImportanceTiers = cfg.ImportanceTiers
	}
	policy.SkipUntieredSweep = cfg.SkipUntieredSweep

	var markers budget.Markers
	if cfg.CurrencyMarkers != nil {
		markers = budget.Markers(cfg.CurrencyMarkers)
	}

	e.extractor = extract.New(extract.Options{
		Positional:      cfg.PositionalFallback,
		CurrencyMarkers: markers,
	})
	e.selector = followup.NewSelector(policy, followup.WithConflictDetector(e.conflicts))
	e.parser = budget.NewParser(cfg.OpenEndedMultiplier)

	e.defaultLocale = model.LocaleEN
	if l, ok := model.ParseLocale(cfg.DefaultLocale); ok {
		e.defaultLocale = l
	}
	return e
}

// Turn resolves req.Category through the store and evaluates the turn.
func (e *Engine) Turn(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	locale, err := e.locale(req.Locale)
	if err != nil {
		return nil, err
	}

	cat, err := e.store.Get(ctx, req.Category)
	if err != nil {
		return nil, eris.Wrapf(err, "engine: lookup category %q", req.Category)
	}

	resp, err := e.evaluate(cat, req, locale)
	if err != nil {
		return nil, err
	}

	if resp.Done && e.recommender != nil {
		recs, err := e.recommender.Generate(ctx, *resp.Search, resp.Preferences)
		if err != nil {
			zap.L().Warn("engine: recommendation failed",
				zap.String("category", cat.Name),
				zap.Error(err),
			)
		} else {
			resp.Recommendations = recs
		}
	}

	zap.L().Info("engine: turn evaluated",
		zap.String("category", cat.Name),
		zap.String("locale", string(locale)),
		zap.Int("answers", len(req.Answers)),
		zap.Bool("done", resp.Done),
		zap.Float64("confidence", resp.Score.Confidence),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

// Evaluate runs a turn against an already-resolved category. It performs no
// I/O.
func (e *Engine) Evaluate(cat *model.Category, req Request) (*Response, error) {
	locale, err := e.locale(req.Locale)
	if err != nil {
		return nil, err
	}
	return e.evaluate(cat, req, locale)
}

func (e *Engine) evaluate(cat *model.Category, req Request, locale model.Locale) (*Response, error) {
	schema := cat.Schema()

	rec, err := e.extractor.Extract(schema, extract.Input{
		Answers:          req.Answers,
		AttributeIDs:     req.AskedAttributeIDs,
		ExtraPreferences: req.ExtraPreferences,
	})
	if err != nil {
		return nil, eris.Wrap(err, "engine: extract preferences")
	}

	resp := &Response{
		Category:    cat.Name,
		Locale:      locale,
		Preferences: rec,
		Score:       scoring.Snapshot(schema, rec),
	}

	d := e.selector.Next(schema, rec)
	switch {
	case d.Done:
		resp.Done = true
		criteria := BuildSearchCriteria(cat, rec, locale, e.parser)
		resp.Search = &criteria
	case d.Budget:
		q := question.FormatBudget(question.BudgetBands(cat, locale), locale)
		q.Progress = resp.Score.ProgressPercent
		resp.Question = &q
	default:
		q := question.Format(d.Attribute, locale, d.Reason)
		q.Progress = resp.Score.ProgressPercent
		resp.Question = &q
	}
	return resp, nil
}

func (e *Engine) locale(raw string) (model.Locale, error) {
	if raw == "" {
		return e.defaultLocale, nil
	}
	l, ok := model.ParseLocale(raw)
	if !ok {
		return "", eris.Wrapf(ErrUnsupportedLocale, "engine: locale %q", raw)
	}
	return l, nil
}
