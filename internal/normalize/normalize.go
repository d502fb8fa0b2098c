package normalize

import (
	"strconv"
	"strings"

	"github.com/sells-group/elicit/internal/model"
)

// Normalize converts answer to the canonical value for attr's type.
//
// ok is false when the answer is rejected: an unrecognized boolean or
// single_choice answer leaves the attribute unanswered. A number answer is
// never rejected; an unparsable number records a nil value.
func Normalize(answer string, attr *model.AttributeSpec) (value any, ok bool) {
	switch attr.Type {
	case model.TypeBoolean:
		return Boolean(answer)
	case model.TypeSingleChoice:
		return Choice(answer, attr.Options)
	case model.TypeNumber:
		return Number(answer), true
	}
	return nil, false
}

// Boolean maps affirmative to true, negative to false and indifferent to nil.
func Boolean(answer string) (any, bool) {
	switch Classify(answer) {
	case ClassAffirmative:
		return true, true
	case ClassNegative:
		return false, true
	case ClassIndifferent:
		return nil, true
	}
	return nil, false
}

// Choice returns the id of the first option, in option order, whose label in
// any locale equals answer. An indifferent answer ("Not sure") that matches
// no label records nil.
func Choice(answer string, options []model.Option) (any, bool) {
	trimmed := strings.TrimSpace(answer)
	for _, opt := range options {
		for _, label := range opt.Label.Values() {
			if label == answer || label == trimmed {
				return opt.ID, true
			}
		}
	}
	if Classify(answer) == ClassIndifferent {
		return nil, true
	}
	return nil, false
}

// Number parses an integer answer. Unparsable input yields nil.
func Number(answer string) any {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return nil
	}
	return n
}
