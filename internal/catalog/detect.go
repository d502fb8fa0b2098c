package catalog

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/elicit/internal/model"
)

// Detect resolves a free-text query to a category: an exact name match,
// then an exact alias match, then the longest name or alias contained in
// the query.
func Detect(cats []model.Category, query string) (*model.Category, error) {
	q := Key(query)
	if q == "" {
		return nil, eris.Wrap(ErrCategoryNotFound, "catalog: empty query")
	}

	for i := range cats {
		if Key(cats[i].Name) == q {
			return &cats[i], nil
		}
	}
	for i := range cats {
		for _, alias := range cats[i].Aliases {
			if Key(alias) == q {
				return &cats[i], nil
			}
		}
	}

	var (
		best    *model.Category
		bestLen int
	)
	for i := range cats {
		terms := append([]string{cats[i].Name}, cats[i].Aliases...)
		for _, term := range terms {
			k := Key(term)
			if k == "" || len(k) <= bestLen {
				continue
			}
			if strings.Contains(q, k) {
				best, bestLen = &cats[i], len(k)
			}
		}
	}
	if best == nil {
		return nil, eris.Wrapf(ErrCategoryNotFound, "catalog: detect %q", query)
	}
	zap.L().Debug("catalog: detected category",
		zap.String("query", query),
		zap.String("category", best.Name),
	)
	return best, nil
}

// DetectIn runs Detect over every category in store.
func DetectIn(ctx context.Context, store Store, query string) (*model.Category, error) {
	cats, err := store.List(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: list for detect")
	}
	return Detect(cats, query)
}
