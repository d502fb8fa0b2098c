package model

// AttributeType is the declared answer type of an attribute.
type AttributeType string

const (
	TypeBoolean      AttributeType = "boolean"
	TypeSingleChoice AttributeType = "single_choice"
	TypeNumber       AttributeType = "number"
)

// Valid reports whether t is a known attribute type.
func (t AttributeType) Valid() bool {
	switch t {
	case TypeBoolean, TypeSingleChoice, TypeNumber:
		return true
	}
	return false
}

// DefaultWeight applies to attributes that declare no weight.
const DefaultWeight = 1.0

// Dependency requires attribute ID to hold value Eq before the dependent
// attribute becomes askable.
type Dependency struct {
	ID string `json:"id" yaml:"id"`
	Eq any    `json:"eq" yaml:"eq"`
}

// Option is one selectable answer of a single_choice attribute.
type Option struct {
	ID    string        `json:"id" yaml:"id"`
	Label LocalizedText `json:"label" yaml:"label"`
}

// AttributeSpec is one askable product dimension of a category.
type AttributeSpec struct {
	ID        string        `json:"id" yaml:"id"`
	Type      AttributeType `json:"type" yaml:"type"`
	Weight    *float64      `json:"weight,omitempty" yaml:"weight,omitempty"`
	Mandatory bool          `json:"mandatory,omitempty" yaml:"mandatory,omitempty"`
	DependsOn []Dependency  `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Options   []Option      `json:"options,omitempty" yaml:"options,omitempty"`
	Label     LocalizedText `json:"label" yaml:"label"`
	Tooltip   LocalizedText `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	Emoji     string        `json:"emoji,omitempty" yaml:"emoji,omitempty"`
	Min       *int          `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *int          `json:"max,omitempty" yaml:"max,omitempty"`
}

// EffectiveWeight returns the declared weight or DefaultWeight.
func (a *AttributeSpec) EffectiveWeight() float64 {
	if a.Weight == nil {
		return DefaultWeight
	}
	return *a.Weight
}

// HasDependencies reports whether the attribute declares prerequisites.
func (a *AttributeSpec) HasDependencies() bool {
	return len(a.DependsOn) > 0
}

// Schema is an indexed, read-only view over a category's attribute sequence.
type Schema struct {
	Attributes []AttributeSpec
	byID       map[string]int
}

// NewSchema indexes attrs by id. The slice is not copied; callers must not
// mutate it while the schema is in use. For duplicate ids the first
// declaration wins.
func NewSchema(attrs []AttributeSpec) *Schema {
	s := &Schema{
		Attributes: attrs,
		byID:       make(map[string]int, len(attrs)),
	}
	for i := range attrs {
		if _, dup := s.byID[attrs[i].ID]; dup {
			continue
		}
		s.byID[attrs[i].ID] = i
	}
	return s
}

// ByID returns the attribute with the given id, or nil if not found.
func (s *Schema) ByID(id string) *AttributeSpec {
	i, ok := s.byID[id]
	if !ok {
		return nil
	}
	return &s.Attributes[i]
}

// Len returns the number of attributes.
func (s *Schema) Len() int {
	return len(s.Attributes)
}

// TotalWeight sums the effective weight of every attribute.
func (s *Schema) TotalWeight() float64 {
	var total float64
	for i := range s.Attributes {
		total += s.Attributes[i].EffectiveWeight()
	}
	return total
}
