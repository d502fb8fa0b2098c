// Package followup picks the next attribute to ask, or signals that
// elicitation is complete.
package followup

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/elicit/internal/depend"
	"github.com/sells-group/elicit/internal/model"
)

// Policy holds the selector's weight thresholds.
type Policy struct {
	// MandatoryWeight qualifies an attribute for the mandatory rule even
	// when it is not declared mandatory.
	MandatoryWeight float64
	// ImportanceTiers are tried in order; the first tier with candidates wins.
	ImportanceTiers []float64
	// SkipUntieredSweep drops the final no-threshold importance pass, which
	// lets the numeric and budget rules see attributes below every tier.
	SkipUntieredSweep bool
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{
		MandatoryWeight: 0.9,
		ImportanceTiers: []float64{0.6, 0.5},
	}
}

// ConflictDetector finds an attribute whose recorded value contradicts the
// rest of the record and should be asked again.
type ConflictDetector interface {
	Conflict(schema *model.Schema, rec model.Record) (*model.AttributeSpec, bool)
}

type noConflicts struct{}

func (noConflicts) Conflict(*model.Schema, model.Record) (*model.AttributeSpec, bool) {
	return nil, false
}

// Decision is the selector's output. Exactly one of Done, Budget, or a
// non-nil Attribute holds.
type Decision struct {
	Done      bool
	Attribute *model.AttributeSpec
	Budget    bool
	Reason    model.Reason
}

// Option configures a Selector.
type Option func(*Selector)

// WithConflictDetector plugs in a conflict check ahead of every other rule.
func WithConflictDetector(d ConflictDetector) Option {
	return func(s *Selector) {
		if d != nil {
			s.conflicts = d
		}
	}
}

// Selector applies the follow-up rules in strict priority order.
type Selector struct {
	policy    Policy
	conflicts ConflictDetector
}

// NewSelector creates a Selector.
func NewSelector(policy Policy, opts ...Option) *Selector {
	s := &Selector{policy: policy, conflicts: noConflicts{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next returns the next decision for rec. The first rule that yields a
// candidate wins; confidence plays no part.
func (s *Selector) Next(schema *model.Schema, rec model.Record) Decision {
	log := zap.L().With(zap.Int("answered", len(rec)), zap.Int("attributes", schema.Len()))
	resolver := depend.NewResolver(schema)

	if attr, ok := s.conflicts.Conflict(schema, rec); ok && attr != nil {
		log.Debug("followup: conflict", zap.String("attribute", attr.ID))
		return Decision{Attribute: attr, Reason: model.ReasonConflict}
	}

	// askable holds missing, dependency-satisfied attributes in schema order.
	var askable []*model.AttributeSpec
	for i := range schema.Attributes {
		a := &schema.Attributes[i]
		if rec.Has(a.ID) || resolver.Unsatisfied(a, rec) {
			continue
		}
		askable = append(askable, a)
	}

	if attr := s.mandatory(askable); attr != nil {
		log.Debug("followup: mandatory missing", zap.String("attribute", attr.ID))
		return Decision{Attribute: attr, Reason: model.ReasonMandatory}
	}

	for _, a := range askable {
		if a.HasDependencies() {
			log.Debug("followup: dependency triggered", zap.String("attribute", a.ID))
			return Decision{Attribute: a, Reason: model.ReasonDependency}
		}
	}

	if attr := s.important(askable); attr != nil {
		log.Debug("followup: importance",
			zap.String("attribute", attr.ID),
			zap.Float64("weight", attr.EffectiveWeight()),
		)
		return Decision{Attribute: attr, Reason: model.ReasonImportance}
	}

	if rec.HasBudget() {
		log.Debug("followup: done")
		return Decision{Done: true}
	}

	for _, a := range askable {
		if a.Type == model.TypeNumber {
			log.Debug("followup: quantification", zap.String("attribute", a.ID))
			return Decision{Attribute: a, Reason: model.ReasonQuantification}
		}
	}

	log.Debug("followup: budget missing")
	return Decision{Budget: true, Reason: model.ReasonBudget}
}

// mandatory returns the first declared-mandatory candidate, else the first
// candidate at or above the mandatory weight.
func (s *Selector) mandatory(askable []*model.AttributeSpec) *model.AttributeSpec {
	var weighted *model.AttributeSpec
	for _, a := range askable {
		if a.Mandatory {
			return a
		}
		if weighted == nil && a.EffectiveWeight() >= s.policy.MandatoryWeight {
			weighted = a
		}
	}
	return weighted
}

// important returns the highest-weight candidate of the first non-empty
// tier. Ties keep schema order.
func (s *Selector) important(askable []*model.AttributeSpec) *model.AttributeSpec {
	tiers := s.policy.ImportanceTiers
	for _, threshold := range tiers {
		if attr := heaviest(askable, threshold); attr != nil {
			return attr
		}
	}
	if s.policy.SkipUntieredSweep {
		return nil
	}
	return heaviest(askable, 0)
}

func heaviest(askable []*model.AttributeSpec, threshold float64) *model.AttributeSpec {
	var tier []*model.AttributeSpec
	for _, a := range askable {
		if threshold <= 0 || a.EffectiveWeight() >= threshold {
			tier = append(tier, a)
		}
	}
	if len(tier) == 0 {
		return nil
	}
	sort.SliceStable(tier, func(i, j int) bool {
		return tier[i].EffectiveWeight() > tier[j].EffectiveWeight()
	})
	return tier[0]
}
