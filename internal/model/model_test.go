package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weight(w float64) *float64 { return &w }

func TestParseLocale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Locale
		ok   bool
	}{
		{"en", LocaleEN, true},
		{"TR", LocaleTR, true},
		{" tr ", LocaleTR, true},
		{"", "", false},
		{"de", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseLocale(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestLocalizedText(t *testing.T) {
	t.Parallel()

	t.Run("Get falls back to English", func(t *testing.T) {
		t.Parallel()
		lt := LocalizedText{LocaleEN: "Wireless?"}
		assert.Equal(t, "Wireless?", lt.Get(LocaleTR))
		assert.False(t, lt.Has(LocaleTR))
	})

	t.Run("Get falls back to any supported locale", func(t *testing.T) {
		t.Parallel()
		lt := LocalizedText{LocaleTR: "Kablosuz mu?"}
		assert.Equal(t, "Kablosuz mu?", lt.Get(LocaleEN))
	})

	t.Run("Values is ordered", func(t *testing.T) {
		t.Parallel()
		lt := LocalizedText{"de": "Kabellos", LocaleTR: "Kablosuz", LocaleEN: "Wireless", "ar": "لاسلكي"}
		assert.Equal(t, []string{"Wireless", "Kablosuz", "لاسلكي", "Kabellos"}, lt.Values())
	})
}

func TestSchema(t *testing.T) {
	t.Parallel()

	attrs := []AttributeSpec{
		{ID: "wireless", Type: TypeBoolean, Weight: weight(0.9)},
		{ID: "brand", Type: TypeSingleChoice, Weight: weight(0.5)},
		{ID: "storage", Type: TypeNumber},
		{ID: "wireless", Type: TypeNumber},
	}
	s := NewSchema(attrs)

	t.Run("ByID returns first declaration", func(t *testing.T) {
		t.Parallel()
		a := s.ByID("wireless")
		require.NotNil(t, a)
		assert.Equal(t, TypeBoolean, a.Type)
	})

	t.Run("ByID returns nil for unknown id", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, s.ByID("nope"))
	})

	t.Run("TotalWeight applies default weight", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 0.9+0.5+1.0+1.0, s.TotalWeight(), 1e-9)
	})
}

func TestRecord(t *testing.T) {
	t.Parallel()

	r := Record{"wireless": nil, BudgetKey: "3-6k₺"}
	assert.True(t, r.Has("wireless"), "nil value still counts as answered")
	assert.False(t, r.Has("brand"))
	assert.True(t, r.HasBudget())
	assert.Equal(t, "3-6k₺", r.Budget())

	c := r.Clone()
	c["brand"] = "apple"
	assert.False(t, r.Has("brand"))
}

func TestCategoryBands(t *testing.T) {
	t.Parallel()

	c := Category{BudgetBands: map[Locale][]string{LocaleEN: {"$10-20"}}}
	assert.Equal(t, []string{"$10-20"}, c.Bands(LocaleTR))
	assert.Nil(t, (&Category{}).Bands(LocaleEN))
}
