// Package question renders attributes into locale-specific question payloads.
package question

import (
	"fmt"

	"github.com/sells-group/elicit/internal/model"
)

const (
	defaultMin = 0
	defaultMax = 100

	budgetEmoji = "💰"
)

// DefaultBudgetBands is the ladder offered when a category declares none.
var DefaultBudgetBands = map[model.Locale][]string{
	model.LocaleTR: {"1-3k₺", "3-7k₺", "7-15k₺", "15-30k₺", "30k₺+"},
	model.LocaleEN: {"$30-100", "$100-200", "$200-500", "$500-1000", "$1000+"},
}

var (
	booleanOptions = map[model.Locale][]string{
		model.LocaleEN: {"Yes", "No", "No preference"},
		model.LocaleTR: {"Evet", "Hayır", "Farketmez"},
	}

	notSure = model.LocalizedText{
		model.LocaleEN: "Not sure",
		model.LocaleTR: "Bilmiyorum",
	}

	placeholders = model.LocalizedText{
		model.LocaleEN: "Enter a number between %d and %d",
		model.LocaleTR: "%d ile %d arasında bir sayı girin",
	}

	budgetText = model.LocalizedText{
		model.LocaleEN: "What's your budget range?",
		model.LocaleTR: "Bütçe aralığın nedir?",
	}

	tooltips = map[model.Reason]model.LocalizedText{
		model.ReasonConflict: {
			model.LocaleEN: "Your earlier answers seem to disagree",
			model.LocaleTR: "Önceki cevaplarınız birbiriyle çelişiyor gibi görünüyor",
		},
		model.ReasonMandatory: {
			model.LocaleEN: "This is essential for good recommendations",
			model.LocaleTR: "Bu iyi öneriler için gerekli",
		},
		model.ReasonDependency: {
			model.LocaleEN: "Based on your previous answer",
			model.LocaleTR: "Önceki cevabınıza göre",
		},
		model.ReasonImportance: {
			model.LocaleEN: "This significantly affects your options",
			model.LocaleTR: "Bu seçeneklerinizi önemli ölçüde etkiler",
		},
		model.ReasonQuantification: {
			model.LocaleEN: "Need specific numbers for precise recommendations",
			model.LocaleTR: "Kesin öneriler için sayısal değer gerekli",
		},
		model.ReasonBudget: {
			model.LocaleEN: "This helps me recommend products in your price range",
			model.LocaleTR: "Bu, fiyat aralığınıza uygun ürünler önermeme yardımcı olur",
		},
	}
)

// Format renders attr for locale l. The attribute's own tooltip wins over the
// generic one for reason. Progress is left for the caller to fill.
func Format(attr *model.AttributeSpec, l model.Locale, reason model.Reason) model.Question {
	text := attr.Label.Get(l)
	if text == "" {
		text = attr.ID
	}

	q := model.Question{
		ID:               attr.ID,
		AskedAttributeID: attr.ID,
		Type:             attr.Type,
		Text:             text,
		Emoji:            attr.Emoji,
		Reason:           reason,
	}

	if attr.Tooltip.Has(l) {
		q.Tooltip = attr.Tooltip[l]
	} else {
		q.Tooltip = Tooltip(reason, l)
	}

	switch attr.Type {
	case model.TypeBoolean:
		q.Options = localized(booleanOptions, l)
	case model.TypeSingleChoice:
		opts := make([]string, 0, len(attr.Options)+1)
		for _, o := range attr.Options {
			opts = append(opts, o.Label.Get(l))
		}
		q.Options = append(opts, notSure.Get(l))
	case model.TypeNumber:
		lo, hi := defaultMin, defaultMax
		if attr.Min != nil {
			lo = *attr.Min
		}
		if attr.Max != nil {
			hi = *attr.Max
		}
		q.Min, q.Max = &lo, &hi
		q.Placeholder = fmt.Sprintf(placeholders.Get(l), lo, hi)
	}
	return q
}

// FormatBudget renders the synthetic budget question with the given ladder.
func FormatBudget(bands []string, l model.Locale) model.Question {
	return model.Question{
		ID:               model.BudgetKey,
		AskedAttributeID: model.BudgetKey,
		Type:             model.TypeSingleChoice,
		Text:             budgetText.Get(l),
		Emoji:            budgetEmoji,
		Options:          append([]string(nil), bands...),
		Tooltip:          Tooltip(model.ReasonBudget, l),
		Reason:           model.ReasonBudget,
	}
}

// BudgetBands returns cat's ladder for l, else the default ladder for l,
// else the English default.
func BudgetBands(cat *model.Category, l model.Locale) []string {
	if cat != nil {
		if bands := cat.Bands(l); len(bands) > 0 {
			return bands
		}
	}
	return localized(DefaultBudgetBands, l)
}

// Tooltip returns the generic tooltip for reason, or "" if none exists.
func Tooltip(reason model.Reason, l model.Locale) string {
	t, ok := tooltips[reason]
	if !ok {
		return ""
	}
	return t.Get(l)
}

func localized(m map[model.Locale][]string, l model.Locale) []string {
	if v, ok := m[l]; ok {
		return append([]string(nil), v...)
	}
	return append([]string(nil), m[model.LocaleEN]...)
}
