// Package normalize converts raw answers into canonical preference values.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Class is the token class of a free-text answer.
type Class int

const (
	ClassNone Class = iota
	ClassAffirmative
	ClassNegative
	ClassIndifferent
)

func (c Class) String() string {
	switch c {
	case ClassAffirmative:
		return "affirmative"
	case ClassNegative:
		return "negative"
	case ClassIndifferent:
		return "indifferent"
	}
	return "none"
}

var classTokens = map[string]Class{
	"yes":  ClassAffirmative,
	"evet": ClassAffirmative,
	"true": ClassAffirmative,

	"no":    ClassNegative,
	"hayır": ClassNegative,
	"false": ClassNegative,

	"no preference": ClassIndifferent,
	"not sure":      ClassIndifferent,
	"fark etmez":    ClassIndifferent,
	"farketmez":     ClassIndifferent,
	"bilmiyorum":    ClassIndifferent,
}

// Classify returns the token class of answer. Matching is case-insensitive
// under both the default and the Turkish casing rules, so "HAYIR" and
// "BİLMİYORUM" classify like their lower-case forms.
func Classify(answer string) Class {
	for _, folded := range Fold(answer) {
		if c, ok := classTokens[folded]; ok {
			return c
		}
	}
	return ClassNone
}

// Fold returns the trimmed answer lower-cased under the root and Turkish
// casing rules. The second form is omitted when identical to the first.
func Fold(s string) []string {
	s = strings.TrimSpace(s)
	// Casers carry state and are not safe for concurrent use.
	root := cases.Lower(language.Und).String(s)
	tr := cases.Lower(language.Turkish).String(s)
	if tr == root {
		return []string{root}
	}
	return []string{root, tr}
}

// IsAffirmative reports whether answer is in the affirmative class.
func IsAffirmative(answer string) bool { return Classify(answer) == ClassAffirmative }

// IsNegative reports whether answer is in the negative class.
func IsNegative(answer string) bool { return Classify(answer) == ClassNegative }

// IsIndifferent reports whether answer is in the indifferent class.
func IsIndifferent(answer string) bool { return Classify(answer) == ClassIndifferent }
