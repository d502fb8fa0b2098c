package model

// Reason explains why the selector chose the attribute being asked.
type Reason string

const (
	ReasonConflict       Reason = "conflict"
	ReasonMandatory      Reason = "mandatory"
	ReasonDependency     Reason = "dependency"
	ReasonImportance     Reason = "importance"
	ReasonQuantification Reason = "quantification"
	ReasonBudget         Reason = "budget"
)

// Question is a rendered, locale-specific question payload.
type Question struct {
	ID               string        `json:"id"`
	AskedAttributeID string        `json:"asked_attribute_id"`
	Type             AttributeType `json:"type"`
	Text             string        `json:"question"`
	Emoji            string        `json:"emoji,omitempty"`
	Options          []string      `json:"options,omitempty"`
	Min              *int          `json:"min,omitempty"`
	Max              *int          `json:"max,omitempty"`
	Placeholder      string        `json:"placeholder,omitempty"`
	Tooltip          string        `json:"tooltip,omitempty"`
	Reason           Reason        `json:"reason"`
	Progress         int           `json:"progress"`
}
