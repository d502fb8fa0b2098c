package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/elicit/internal/budget"
	"github.com/sells-group/elicit/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func weight(w float64) *float64 { return &w }

func headphoneSchema() *model.Schema {
	return model.NewSchema([]model.AttributeSpec{
		{ID: "wireless", Type: model.TypeBoolean, Weight: weight(0.9)},
		{ID: "brand", Type: model.TypeSingleChoice, Weight: weight(0.5), Options: []model.Option{
			{ID: "apple", Label: model.LocalizedText{model.LocaleEN: "Apple", model.LocaleTR: "Apple"}},
			{ID: "samsung", Label: model.LocalizedText{model.LocaleEN: "Samsung", model.LocaleTR: "Samsung"}},
		}},
		{ID: "battery_hours", Type: model.TypeNumber, Weight: weight(0.4)},
	})
}

func TestExtract_ExplicitIDs(t *testing.T) {
	t.Parallel()

	e := New(Options{})
	rec, err := e.Extract(headphoneSchema(), Input{
		Answers:      []string{"Yes"},
		AttributeIDs: []string{"wireless"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.Record{"wireless": true}, rec)
}

func TestExtract_ExplicitIDsOutOfSchemaOrder(t *testing.T) {
	t.Parallel()

	e := New(Options{})
	rec, err := e.Extract(headphoneSchema(), Input{
		Answers:      []string{"Samsung", "No", "12"},
		AttributeIDs: []string{"brand", "wireless", "battery_hours"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.Record{"brand": "samsung", "wireless": false, "battery_hours": 12}, rec)
}

func TestExtract_RejectionAsymmetry(t *testing.T) {
	t.Parallel()

	e := New(Options{})
	rec, err := e.Extract(headphoneSchema(), Input{
		Answers:      []string{"sometimes", "Nokia", "many"},
		AttributeIDs: []string{"wireless", "brand", "battery_hours"},
	})
	require.NoError(t, err)

	assert.False(t, rec.Has("wireless"), "unrecognized boolean is dropped")
	assert.False(t, rec.Has("brand"), "unrecognized choice is dropped")
	assert.True(t, rec.Has("battery_hours"), "unparsable number is still answered")
	assert.Nil(t, rec["battery_hours"])
}

func TestExtract_UnknownIDSkipped(t *testing.T) {
	t.Parallel()

	e := New(Options{})
	rec, err := e.Extract(headphoneSchema(), Input{
		Answers:      []string{"Yes", "Yes"},
		AttributeIDs: []string{"noise_cancelling", "wireless"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.Record{"wireless": true}, rec)
}

func TestExtract_CurrencyOverride(t *testing.T) {
	t.Parallel()

	e := New(Options{})
	rec, err := e.Extract(headphoneSchema(), Input{
		Answers:      []string{"Yes", "1000-2000₺"},
		AttributeIDs: []string{"wireless", "brand"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.Record{"wireless": true, model.BudgetKey: "1000-2000₺"}, rec)
}

func TestExtract_CurrencyOverrideClearsMappedNumber(t *testing.T) {
	t.Parallel()

	e := New(Options{})
	rec, err := e.Extract(headphoneSchema(), Input{
		Answers:      []string{"$500"},
		AttributeIDs: []string{"battery_hours"},
	})
	require.NoError(t, err)
	assert.False(t, rec.Has("battery_hours"), "number answer that was a budget is un-answered")
	assert.Equal(t, "$500", rec.Budget())
}

func TestExtract_CurrencyOverrideKeepsLaterAnswer(t *testing.T) {
	t.Parallel()

	e := New(Options{})
	rec, err := e.Extract(headphoneSchema(), Input{
		Answers:      []string{"$500", "20"},
		AttributeIDs: []string{"battery_hours", "battery_hours"},
	})
	require.NoError(t, err)
	assert.Equal(t, 20, rec["battery_hours"], "a later answer owns the value")
	assert.Equal(t, "$500", rec.Budget())
}

func TestExtract_LastBudgetWins(t *testing.T) {
	t.Parallel()

	e := New(Options{})
	rec, err := e.Extract(headphoneSchema(), Input{
		Answers:      []string{"$100-200", "$200-500"},
		AttributeIDs: []string{model.BudgetKey, model.BudgetKey},
	})
	require.NoError(t, err)
	assert.Equal(t, "$200-500", rec.Budget())
}

func TestExtract_BudgetIDWithoutMarker(t *testing.T) {
	t.Parallel()

	e := New(Options{})
	rec, err := e.Extract(headphoneSchema(), Input{
		Answers:      []string{"3-7k"},
		AttributeIDs: []string{model.BudgetKey},
	})
	require.NoError(t, err)
	assert.Equal(t, "3-7k", rec.Budget())
}

func TestExtract_CustomMarkers(t *testing.T) {
	t.Parallel()

	e := New(Options{CurrencyMarkers: budget.Markers{"€"}})
	rec, err := e.Extract(headphoneSchema(), Input{
		Answers:      []string{"€300", "$400"},
		AttributeIDs: []string{"brand", "brand"},
	})
	require.NoError(t, err)
	assert.Equal(t, "€300", rec.Budget())
}

func TestExtract_MissingIDsRejectedByDefault(t *testing.T) {
	t.Parallel()

	e := New(Options{})
	_, err := e.Extract(headphoneSchema(), Input{Answers: []string{"Yes"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAttributeIDsRequired)

	_, err = e.Extract(headphoneSchema(), Input{
		Answers:      []string{"Yes", "Apple"},
		AttributeIDs: []string{"wireless"},
	})
	assert.ErrorIs(t, err, ErrAttributeIDsRequired)
}

func TestExtract_NoAnswers(t *testing.T) {
	t.Parallel()

	rec, err := New(Options{}).Extract(headphoneSchema(), Input{})
	require.NoError(t, err)
	assert.Empty(t, rec)
}

func TestExtract_Idempotent(t *testing.T) {
	t.Parallel()

	e := New(Options{})
	in := Input{
		Answers:          []string{"Yes", "Apple", "8", "$30-100"},
		AttributeIDs:     []string{"wireless", "brand", "battery_hours", model.BudgetKey},
		ExtraPreferences: map[string]any{"brand": "samsung", "ignored": 1},
	}

	first, err := e.Extract(headphoneSchema(), in)
	require.NoError(t, err)
	second, err := e.Extract(headphoneSchema(), in)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestExtract_ExtraPreferences(t *testing.T) {
	t.Parallel()

	e := New(Options{})
	rec, err := e.Extract(headphoneSchema(), Input{
		Answers:      []string{"Yes"},
		AttributeIDs: []string{"wireless"},
		ExtraPreferences: map[string]any{
			model.BudgetKey: "$200-500",
			"brand":         "apple",
			"color":         "red",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.Record{"wireless": true, "brand": "apple", model.BudgetKey: "$200-500"}, rec)
}

func TestExtract_ExtraPreferencesCanonicalized(t *testing.T) {
	t.Parallel()

	e := New(Options{})
	tests := []struct {
		name  string
		extra map[string]any
		want  model.Record
	}{
		{"boolean string", map[string]any{"wireless": "true"}, model.Record{"wireless": true}},
		{"turkish boolean", map[string]any{"wireless": "Hayır"}, model.Record{"wireless": false}},
		{"native boolean", map[string]any{"wireless": true}, model.Record{"wireless": true}},
		{"unrecognized boolean dropped", map[string]any{"wireless": "sometimes"}, model.Record{}},
		{"option label", map[string]any{"brand": "Samsung"}, model.Record{"brand": "samsung"}},
		{"option id", map[string]any{"brand": "apple"}, model.Record{"brand": "apple"}},
		{"unknown option dropped", map[string]any{"brand": "nokia"}, model.Record{}},
		{"number string", map[string]any{"battery_hours": "12"}, model.Record{"battery_hours": 12}},
		{"json number", map[string]any{"battery_hours": float64(20)}, model.Record{"battery_hours": 20}},
		{"no preference sentinel kept", map[string]any{"wireless": model.NoPreference}, model.Record{"wireless": model.NoPreference}},
		{"budget kept raw", map[string]any{model.BudgetKey: "$50+"}, model.Record{model.BudgetKey: "$50+"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, err := e.Extract(headphoneSchema(), Input{ExtraPreferences: tt.extra})
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec)
		})
	}
}
