package model

// Category is a product category with its attribute schema and budget ladder.
type Category struct {
	Name        string              `json:"name" yaml:"name"`
	Aliases     []string            `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Attributes  []AttributeSpec     `json:"attributes" yaml:"attributes"`
	BudgetBands map[Locale][]string `json:"budget_bands,omitempty" yaml:"budget_bands,omitempty"`
}

// Schema returns an indexed view over the category's attributes.
func (c *Category) Schema() *Schema {
	return NewSchema(c.Attributes)
}

// Bands returns the category's budget ladder for l, falling back to the
// English ladder. It returns nil when the category declares neither.
func (c *Category) Bands(l Locale) []string {
	if bands := c.BudgetBands[l]; len(bands) > 0 {
		return bands
	}
	if bands := c.BudgetBands[LocaleEN]; len(bands) > 0 {
		return bands
	}
	return nil
}
