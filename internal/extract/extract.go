// Package extract rebuilds a preference record from a session's full answer
// history.
package extract

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/elicit/internal/budget"
	"github.com/sells-group/elicit/internal/model"
	"github.com/sells-group/elicit/internal/normalize"
)

// ErrAttributeIDsRequired is returned when answers arrive without one
// explicit attribute id each and positional pairing is disabled.
var ErrAttributeIDsRequired = eris.New("extract: explicit attribute ids required")

// Options configures an Extractor.
type Options struct {
	// Positional pairs answer i with schema attribute i when explicit ids
	// are missing or their count differs from the answer count.
	Positional bool
	// CurrencyMarkers flag answers that are budgets. Nil selects
	// budget.DefaultCurrencyMarkers.
	CurrencyMarkers budget.Markers
}

// Input is one turn's raw answer history.
type Input struct {
	Answers          []string
	AttributeIDs     []string
	ExtraPreferences map[string]any
}

// Extractor converts answer histories into preference records. It holds no
// per-session state and is safe for concurrent use.
type Extractor struct {
	positional bool
	markers    budget.Markers
}

// New creates an Extractor.
func New(opts Options) *Extractor {
	markers := opts.CurrencyMarkers
	if markers == nil {
		markers = budget.DefaultCurrencyMarkers
	}
	return &Extractor{positional: opts.Positional, markers: markers}
}

// Extract builds the record for in against schema. Rejected answers are
// dropped without error; the only errors are caller contract violations.
func (e *Extractor) Extract(schema *model.Schema, in Input) (model.Record, error) {
	rec := make(model.Record)
	// paired[i] is the attribute id answer i was elicited for, "" if none.
	paired := make([]string, len(in.Answers))
	// origin tracks which answer wrote each attribute's current value.
	origin := make(map[string]int)

	switch {
	case len(in.AttributeIDs) == len(in.Answers):
		for i, answer := range in.Answers {
			id := in.AttributeIDs[i]
			paired[i] = id
			if id == model.BudgetKey {
				rec[model.BudgetKey] = answer
				continue
			}
			attr := schema.ByID(id)
			if attr == nil {
				zap.L().Debug("extract: answer for unknown attribute",
					zap.String("attribute", id),
					zap.Int("index", i),
				)
				continue
			}
			e.apply(rec, origin, i, answer, attr)
		}
	case e.positional:
		zap.L().Debug("extract: positional pairing",
			zap.Int("answers", len(in.Answers)),
			zap.Int("attribute_ids", len(in.AttributeIDs)),
		)
		for i, answer := range in.Answers {
			if i >= schema.Len() {
				break
			}
			attr := &schema.Attributes[i]
			paired[i] = attr.ID
			e.apply(rec, origin, i, answer, attr)
		}
	default:
		return nil, eris.Wrapf(ErrAttributeIDsRequired, "extract: %d ids for %d answers",
			len(in.AttributeIDs), len(in.Answers))
	}

	e.overrideCurrency(rec, origin, paired, in.Answers)
	e.mergeExtra(rec, schema, in.ExtraPreferences)

	return rec, nil
}

func (e *Extractor) apply(rec model.Record, origin map[string]int, i int, answer string, attr *model.AttributeSpec) {
	v, ok := normalize.Normalize(answer, attr)
	if !ok {
		zap.L().Debug("extract: answer rejected",
			zap.String("attribute", attr.ID),
			zap.String("type", string(attr.Type)),
			zap.String("answer", answer),
		)
		return
	}
	rec[attr.ID] = v
	origin[attr.ID] = i
}

// overrideCurrency records any currency-marked answer as the budget and
// un-answers the attribute it was mapped onto, provided that attribute still
// holds the value this same answer produced.
func (e *Extractor) overrideCurrency(rec model.Record, origin map[string]int, paired []string, answers []string) {
	for i, answer := range answers {
		if !e.markers.Match(answer) {
			continue
		}
		rec[model.BudgetKey] = answer

		id := paired[i]
		if id == "" || id == model.BudgetKey {
			continue
		}
		if o, ok := origin[id]; ok && o == i {
			delete(rec, id)
			delete(origin, id)
			zap.L().Debug("extract: budget answer cleared attribute",
				zap.String("attribute", id),
				zap.String("answer", answer),
			)
		}
	}
}

// mergeExtra copies caller-supplied preferences for the budget key and known
// attributes over the extracted record. Values for attributes are brought
// to canonical form first; a value that cannot be is dropped.
func (e *Extractor) mergeExtra(rec model.Record, schema *model.Schema, extra map[string]any) {
	if len(extra) == 0 {
		return
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if k == model.BudgetKey {
			rec[k] = extra[k]
			continue
		}
		attr := schema.ByID(k)
		if attr == nil {
			zap.L().Debug("extract: ignoring unknown extra preference", zap.String("key", k))
			continue
		}
		v, ok := canonicalExtra(attr, extra[k])
		if !ok {
			zap.L().Debug("extract: extra preference rejected",
				zap.String("attribute", k),
				zap.Any("value", extra[k]),
			)
			continue
		}
		rec[k] = v
	}
}

// canonicalExtra keeps the no-preference sentinel and single_choice option
// ids as they are, runs other strings through the answer normalizer, and narrows whole JSON numbers to
// int. Other values pass through unchanged.
func canonicalExtra(attr *model.AttributeSpec, v any) (any, bool) {
	switch val := v.(type) {
	case string:
		if val == model.NoPreference {
			return val, true
		}
		if attr.Type == model.TypeSingleChoice {
			for _, opt := range attr.Options {
				if opt.ID == val {
					return val, true
				}
			}
		}
		return normalize.Normalize(val, attr)
	case float64:
		if attr.Type == model.TypeNumber && val == math.Trunc(val) && math.Abs(val) <= math.MaxInt32 {
			return int(val), true
		}
	}
	return v, true
}
