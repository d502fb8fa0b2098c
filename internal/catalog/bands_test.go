package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/elicit/internal/budget"
	"github.com/sells-group/elicit/internal/model"
	"github.com/sells-group/elicit/internal/question"
)

func TestValidateCategory_InvertedBand(t *testing.T) {
	t.Parallel()

	err := ValidateCategory(&model.Category{
		Name: "Headphones",
		BudgetBands: map[model.Locale][]string{
			model.LocaleTR: {"500-1k₺", "1-3k₺"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `tr band "500-1k₺" parses to min 500000 above max 1000`)

	assert.NoError(t, ValidateCategory(&model.Category{
		Name:        "Headphones",
		BudgetBands: map[model.Locale][]string{model.LocaleTR: {"0.5-1k₺", "12k₺+"}},
	}))
}

func TestNewMemoryStore_SkipsInvertedBand(t *testing.T) {
	t.Parallel()

	st := NewMemoryStore([]model.Category{{
		Name:        "Headphones",
		BudgetBands: map[model.Locale][]string{model.LocaleEN: {"$50-20"}},
	}})
	cats, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func assertBandsOrdered(t *testing.T, label string, bands []string) {
	t.Helper()
	for _, band := range bands {
		r := budget.Parse(band)
		name := fmt.Sprintf("%s %q", label, band)
		assert.False(t, r.IsZero(), "%s does not parse", name)
		if r.Min != nil && r.Max != nil {
			assert.LessOrEqual(t, *r.Min, *r.Max, name)
		}
	}
}

func TestBudgetBands_ParseInOrder(t *testing.T) {
	t.Parallel()

	for _, path := range []string{
		filepath.Join("..", "..", "categories.yaml"),
		filepath.Join("testdata", "catalog.yaml"),
	} {
		cats, err := LoadFile(path)
		require.NoError(t, err, path)
		for _, cat := range cats {
			for l, bands := range cat.BudgetBands {
				assertBandsOrdered(t, fmt.Sprintf("%s %s/%s", path, cat.Name, l), bands)
			}
		}
	}

	for l, bands := range question.DefaultBudgetBands {
		assertBandsOrdered(t, "default/"+string(l), bands)
	}
}

func TestShippedCatalog_Valid(t *testing.T) {
	t.Parallel()

	cats, err := LoadFile(filepath.Join("..", "..", "categories.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, cats)
	for i := range cats {
		assert.NoError(t, ValidateCategory(&cats[i]), cats[i].Name)
	}
}
