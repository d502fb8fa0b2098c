package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/elicit/internal/model"
)

// Positional pairing is an opt-in compatibility shim for callers that do
// not tag answers with attribute ids.

func TestPositional_PairsBySchemaOrder(t *testing.T) {
	t.Parallel()

	e := New(Options{Positional: true})
	rec, err := e.Extract(headphoneSchema(), Input{Answers: []string{"Yes", "Apple", "30"}})
	require.NoError(t, err)
	assert.Equal(t, model.Record{"wireless": true, "brand": "apple", "battery_hours": 30}, rec)
}

func TestPositional_ExtraAnswersIgnored(t *testing.T) {
	t.Parallel()

	e := New(Options{Positional: true})
	rec, err := e.Extract(headphoneSchema(), Input{Answers: []string{"No", "Samsung", "10", "Yes", "Yes"}})
	require.NoError(t, err)
	assert.Len(t, rec, 3)
}

func TestPositional_MismatchedIDsFallBack(t *testing.T) {
	t.Parallel()

	e := New(Options{Positional: true})
	rec, err := e.Extract(headphoneSchema(), Input{
		Answers:      []string{"Yes", "Apple"},
		AttributeIDs: []string{"brand"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.Record{"wireless": true, "brand": "apple"}, rec)
}

func TestPositional_OrderDivergenceMisattributes(t *testing.T) {
	t.Parallel()

	// The caller asked brand first, but without ids the answer lands on
	// wireless and is rejected there.
	e := New(Options{Positional: true})
	rec, err := e.Extract(headphoneSchema(), Input{Answers: []string{"Apple"}})
	require.NoError(t, err)
	assert.Empty(t, rec)
}

func TestPositional_CurrencyOverride(t *testing.T) {
	t.Parallel()

	e := New(Options{Positional: true})
	rec, err := e.Extract(headphoneSchema(), Input{Answers: []string{"Yes", "Apple", "$40"}})
	require.NoError(t, err)
	assert.Equal(t, model.Record{"wireless": true, "brand": "apple", model.BudgetKey: "$40"}, rec)
}
