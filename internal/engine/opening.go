package engine

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/elicit/internal/model"
)

var openingPrompt = model.LocalizedText{
	model.LocaleEN: "What tech are you shopping for?",
	model.LocaleTR: "Hangi teknoloji ürününü arıyorsunuz?",
}

// Opening is the first prompt of a session, before a category is chosen.
type Opening struct {
	Prompt     string       `json:"prompt"`
	Locale     model.Locale `json:"locale"`
	Categories []string     `json:"categories"`
}

// Opening lists the available categories with a localized prompt.
func (e *Engine) Opening(ctx context.Context, rawLocale string) (*Opening, error) {
	locale, err := e.locale(rawLocale)
	if err != nil {
		return nil, err
	}
	cats, err := e.store.List(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "engine: list categories")
	}

	names := make([]string, 0, len(cats))
	for i := range cats {
		names = append(names, cats[i].Name)
	}
	return &Opening{
		Prompt:     openingPrompt.Get(locale),
		Locale:     locale,
		Categories: names,
	}, nil
}
