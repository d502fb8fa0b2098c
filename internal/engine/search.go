package engine

import (
	"strings"

	"github.com/sells-group/elicit/internal/budget"
	"github.com/sells-group/elicit/internal/model"
	"github.com/sells-group/elicit/internal/normalize"
)

// SearchCriteria is the recommendation query derived from a finished record.
type SearchCriteria struct {
	Category   string         `json:"category"`
	Locale     model.Locale   `json:"locale"`
	BudgetMin  *int           `json:"budget_min,omitempty"`
	BudgetMax  *int           `json:"budget_max,omitempty"`
	Features   []string       `json:"features"`
	Quantities map[string]int `json:"quantities,omitempty"`
}

// BuildSearchCriteria converts rec into search terms. Attributes recorded
// true contribute their id with underscores as spaces; selected options
// contribute their id; numbers become quantities. Nil values and indifferent
// answers are skipped. Features follow schema order.
func BuildSearchCriteria(cat *model.Category, rec model.Record, l model.Locale, parser *budget.Parser) SearchCriteria {
	if parser == nil {
		parser = budget.NewParser(0)
	}
	sc := SearchCriteria{
		Category: cat.Name,
		Locale:   l,
		Features: []string{},
	}

	if rng := parser.Parse(rec.Budget()); !rng.IsZero() {
		sc.BudgetMin, sc.BudgetMax = rng.Min, rng.Max
	}

	for i := range cat.Attributes {
		a := &cat.Attributes[i]
		v, ok := rec[a.ID]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case bool:
			if val {
				sc.Features = append(sc.Features, strings.ReplaceAll(a.ID, "_", " "))
			}
		case string:
			if val == "" || val == model.NoPreference || normalize.IsIndifferent(val) {
				continue
			}
			sc.Features = append(sc.Features, val)
		default:
			if n, ok := asInt(val); ok {
				if sc.Quantities == nil {
					sc.Quantities = make(map[string]int)
				}
				sc.Quantities[a.ID] = n
			}
		}
	}
	return sc
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
