// Package depend decides whether an attribute's prerequisites hold and
// validates attribute dependency graphs.
package depend

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/sells-group/elicit/internal/model"
	"github.com/sells-group/elicit/internal/normalize"
)

// Resolver answers dependency questions for one schema. It is read-only
// after construction and safe for concurrent use.
type Resolver struct {
	cyclic map[string]bool
}

// NewResolver precomputes which attributes sit on a dependency cycle. Those
// attributes are never satisfiable.
func NewResolver(schema *model.Schema) *Resolver {
	return &Resolver{cyclic: findCycles(schema.Attributes)}
}

// Cyclic reports whether id sits on a dependency cycle.
func (r *Resolver) Cyclic(id string) bool {
	return r.cyclic[id]
}

// Satisfied is the negation of Unsatisfied.
func (r *Resolver) Satisfied(attr *model.AttributeSpec, rec model.Record) bool {
	return !r.Unsatisfied(attr, rec)
}

// Unsatisfied reports whether any of attr's prerequisites fails against rec.
// A prerequisite fails when its attribute is absent, nil, the no-preference
// sentinel, or unequal to the expected value.
func (r *Resolver) Unsatisfied(attr *model.AttributeSpec, rec model.Record) bool {
	if !attr.HasDependencies() {
		return false
	}
	if r.cyclic[attr.ID] {
		zap.L().Debug("depend: attribute on dependency cycle", zap.String("attribute", attr.ID))
		return true
	}

	for _, dep := range attr.DependsOn {
		actual, ok := rec[dep.ID]
		if !ok {
			return true
		}
		if actual == nil || actual == model.NoPreference {
			return true
		}
		if !Matches(dep.Eq, actual) {
			return true
		}
	}
	return false
}

// Matches compares a recorded value with a dependency's expected value.
// A string recorded against a boolean expectation is coerced through the
// affirmative and negative token classes; numbers compare by value so that
// decoded JSON floats match integer answers.
func Matches(expected, actual any) bool {
	if eb, ok := expected.(bool); ok {
		if s, ok := actual.(string); ok {
			switch normalize.Classify(s) {
			case normalize.ClassAffirmative:
				actual = true
			case normalize.ClassNegative:
				actual = false
			}
		}
		ab, ok := actual.(bool)
		return ok && ab == eb
	}
	if ef, ok := toFloat(expected); ok {
		af, ok := toFloat(actual)
		return ok && af == ef
	}
	return reflect.DeepEqual(expected, actual)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
