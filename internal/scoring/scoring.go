// Package scoring derives confidence and progress from a preference record.
package scoring

import "github.com/sells-group/elicit/internal/model"

// Confidence is the weighted share of attributes present in rec. A present
// key counts even when its value is nil or false. It returns 0 when the
// schema's total weight is 0.
func Confidence(schema *model.Schema, rec model.Record) float64 {
	total := schema.TotalWeight()
	if total <= 0 {
		return 0
	}
	var answered float64
	for i := range schema.Attributes {
		a := &schema.Attributes[i]
		if rec.Has(a.ID) {
			answered += a.EffectiveWeight()
		}
	}
	return answered / total
}

// Progress is the floor of the percentage of attributes present in rec.
func Progress(schema *model.Schema, rec model.Record) int {
	total := schema.Len()
	if total == 0 {
		return 0
	}
	answered := 0
	for i := range schema.Attributes {
		if rec.Has(schema.Attributes[i].ID) {
			answered++
		}
	}
	return 100 * answered / total
}

// Snapshot bundles Confidence and Progress.
func Snapshot(schema *model.Schema, rec model.Record) model.ScoreSnapshot {
	return model.ScoreSnapshot{
		Confidence:      Confidence(schema, rec),
		ProgressPercent: Progress(schema, rec),
	}
}
