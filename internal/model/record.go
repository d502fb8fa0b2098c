package model

// BudgetKey is the reserved record key holding the raw budget expression.
const BudgetKey = "budget_band"

// NoPreference is the sentinel string some callers record for an
// indifferent answer. It never satisfies a dependency.
const NoPreference = "no_preference"

// Record maps attribute ids (and BudgetKey) to normalized answer values:
// bool, string option id, int, or nil. A present key with a nil value means
// the attribute was asked and answered without preference; an absent key
// means it was never answered.
type Record map[string]any

// Has reports whether id is present, regardless of its value.
func (r Record) Has(id string) bool {
	_, ok := r[id]
	return ok
}

// HasBudget reports whether a budget expression has been recorded.
func (r Record) HasBudget() bool {
	return r.Has(BudgetKey)
}

// Budget returns the recorded budget expression, or "" if absent or not a
// string.
func (r Record) Budget() string {
	s, _ := r[BudgetKey].(string)
	return s
}

// Clone returns a shallow copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ScoreSnapshot is the derived confidence and progress for one turn.
type ScoreSnapshot struct {
	Confidence      float64 `json:"confidence"`
	ProgressPercent int     `json:"progress_percent"`
}
