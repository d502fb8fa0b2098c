package budget

import "strings"

// DefaultCurrencyMarkers are the symbols that mark an answer as a budget.
var DefaultCurrencyMarkers = Markers{"$", "₺"}

// Markers is a set of currency markers.
type Markers []string

// Match reports whether s contains any marker.
func (m Markers) Match(s string) bool {
	for _, marker := range m {
		if marker != "" && strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// HasCurrency reports whether s carries one of the default currency markers.
func HasCurrency(s string) bool {
	return DefaultCurrencyMarkers.Match(s)
}
