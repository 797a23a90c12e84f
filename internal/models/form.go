package models

// Field kinds rendered by the wizard.
const (
	FieldText     = "text"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldNumber   = "number"
	FieldSelect   = "select"
	FieldDate     = "date"
	FieldCheckbox = "checkbox"
	FieldTextarea = "textarea"
)

type FormDefinition struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Endpoint string `json:"endpoint"`
	Steps    []Step `json:"steps"`
}

type Step struct {
	Index  int     `json:"index"`
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

type Field struct {
	Name        string     `json:"name"`
	Label       string     `json:"label"`
	Kind        string     `json:"kind"`
	Required    bool       `json:"required"`
	Rule        string     `json:"rule,omitempty"`
	Pattern     string     `json:"pattern,omitempty"`
	Options     []Option   `json:"options,omitempty"`
	Multi       bool       `json:"multi,omitempty"`
	MaxLength   int        `json:"maxLength,omitempty"`
	Placeholder string     `json:"placeholder,omitempty"`
	VisibleWhen *Condition `json:"visibleWhen,omitempty"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Condition shows a field only while another field holds one of Equals.
type Condition struct {
	Field  string   `json:"field"`
	Equals []string `json:"equals"`
}

// StepValidation answers POST /api/forms/:form/validate.
type StepValidation struct {
	Success    bool              `json:"success"`
	Step       int               `json:"step"`
	CanProceed bool              `json:"canProceed"`
	Errors     map[string]string `json:"errors"`
}
