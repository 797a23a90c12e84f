// Package forms holds the wizard definitions of every lead form together
// with the one validation rule-set they share.
package forms

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "fiscal-forum/internal/common/errors"
	"fiscal-forum/internal/common/validation"
	"fiscal-forum/internal/models"
)

// defaultMaxLength bounds free-text fields that set no tighter limit.
const defaultMaxLength = 500

// Form is a compiled FormDefinition.
type Form struct {
	models.FormDefinition

	fields map[string]fieldRef
	schema *validation.SchemaValidator
}

type fieldRef struct {
	step  int
	field models.Field
}

func compile(def models.FormDefinition) (*Form, error) {
	f := &Form{FormDefinition: def, fields: make(map[string]fieldRef)}
	if f.Endpoint == "" {
		f.Endpoint = "/api/" + def.Type
	}

	for i := range f.Steps {
		f.Steps[i].Index = i
		for j := range f.Steps[i].Fields {
			field := &f.Steps[i].Fields[j]
			if field.Rule != "" {
				rule, ok := validation.Lookup(field.Rule)
				if !ok {
					return nil, fmt.Errorf("form %s: field %s uses unknown rule %q", def.Type, field.Name, field.Rule)
				}
				if rule.Pattern != nil {
					field.Pattern = rule.Pattern.String()
				}
			}
			if field.MaxLength == 0 && freeText(*field) {
				field.MaxLength = defaultMaxLength
			}
			if _, dup := f.fields[field.Name]; dup {
				return nil, fmt.Errorf("form %s: duplicate field %s", def.Type, field.Name)
			}
			f.fields[field.Name] = fieldRef{step: i, field: *field}
		}
	}

	for name, ref := range f.fields {
		if c := ref.field.VisibleWhen; c != nil {
			if _, ok := f.fields[c.Field]; !ok {
				return nil, fmt.Errorf("form %s: field %s depends on unknown field %s", def.Type, name, c.Field)
			}
		}
	}

	schema, err := validation.NewSchemaValidator(f.payloadSchema())
	if err != nil {
		return nil, fmt.Errorf("form %s: %w", def.Type, err)
	}
	f.schema = schema
	return f, nil
}

// StepCount is the number of wizard steps.
func (f *Form) StepCount() int {
	return len(f.Steps)
}

// Visible reports whether the named field is shown for the given values.
// Fields hidden by a hidden controller are hidden too.
func (f *Form) Visible(name string, values map[string]string) bool {
	for depth := 0; depth < len(f.fields); depth++ {
		ref, ok := f.fields[name]
		if !ok {
			return false
		}
		cond := ref.field.VisibleWhen
		if cond == nil {
			return true
		}
		if !contains(cond.Equals, strings.TrimSpace(values[cond.Field])) {
			return false
		}
		name = cond.Field
	}
	return false
}

// VisibleFields returns the fields of step that are currently shown.
func (f *Form) VisibleFields(step int, values map[string]string) ([]models.Field, error) {
	if step < 0 || step >= len(f.Steps) {
		return nil, apperrors.NewInvalidPayloadError(fmt.Sprintf("step %d out of range for %s", step, f.Type))
	}
	out := make([]models.Field, 0, len(f.Steps[step].Fields))
	for _, field := range f.Steps[step].Fields {
		if f.Visible(field.Name, values) {
			out = append(out, field)
		}
	}
	return out, nil
}

// ValidateStep rebuilds the error map for one step. An empty map means the
// wizard may advance.
func (f *Form) ValidateStep(step int, values map[string]string) (map[string]string, error) {
	fields, err := f.VisibleFields(step, values)
	if err != nil {
		return nil, err
	}
	errs := make(map[string]string)
	for _, field := range fields {
		if msg := checkField(field, values[field.Name]); msg != "" {
			errs[field.Name] = msg
		}
	}
	return errs, nil
}

// Validate checks every step, as done on final submit.
func (f *Form) Validate(values map[string]string) map[string]string {
	errs := make(map[string]string)
	for i := range f.Steps {
		stepErrs, _ := f.ValidateStep(i, values)
		for k, v := range stepErrs {
			errs[k] = v
		}
	}
	return errs
}

// Normalize canonicalizes visible values and drops hidden, unknown and empty
// ones. Multi-select fields become []string and checkboxes bool.
func (f *Form) Normalize(values map[string]string) map[string]interface{} {
	out := make(map[string]interface{})
	for _, step := range f.Steps {
		for _, field := range step.Fields {
			raw := strings.TrimSpace(values[field.Name])
			if raw == "" || !f.Visible(field.Name, values) {
				continue
			}
			switch {
			case field.Kind == models.FieldCheckbox:
				out[field.Name] = truthy(raw)
			case field.Multi:
				items, err := decodeList(raw)
				if err == nil && len(items) > 0 {
					out[field.Name] = items
				}
			case field.Rule != "":
				rule, _ := validation.Lookup(field.Rule)
				out[field.Name] = rule.Apply(raw)
			default:
				out[field.Name] = raw
			}
		}
	}
	return out
}

// CheckPayload validates a normalized payload against the form's JSON
// schema and reports offending fields with their "malformed" message.
func (f *Form) CheckPayload(payload map[string]interface{}) (map[string]string, error) {
	result, err := f.schema.Validate(payload)
	if err != nil {
		return nil, err
	}
	errs := make(map[string]string)
	for _, e := range result.Errors {
		name := strings.SplitN(e.Field, ".", 2)[0]
		if ref, ok := f.fields[name]; ok {
			errs[name] = validation.InvalidMessage(ref.field.Label)
			continue
		}
		errs[name] = e.Message
	}
	return errs, nil
}

// Label returns the display label of a field, or its name.
func (f *Form) Label(name string) string {
	if ref, ok := f.fields[name]; ok {
		return ref.field.Label
	}
	return name
}

func (f *Form) payloadSchema() validation.JSONSchema {
	props := make(map[string]validation.Property, len(f.fields))
	for name, ref := range f.fields {
		field := ref.field
		switch {
		case field.Kind == models.FieldCheckbox:
			props[name] = validation.Property{Type: "boolean"}
		case field.Multi:
			props[name] = validation.Property{
				Type:     "array",
				MinItems: validation.IntPtr(1),
				Items:    &validation.Property{Type: "string", Enum: optionValues(field.Options)},
			}
		case len(field.Options) > 0:
			props[name] = validation.Property{Type: "string", Enum: optionValues(field.Options)}
		default:
			props[name] = validation.Property{Type: "string", Pattern: field.Pattern, MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(field.MaxLength)}
		}
	}

	var required []string
	for _, step := range f.Steps {
		for _, field := range step.Fields {
			if field.Required && field.VisibleWhen == nil {
				required = append(required, field.Name)
			}
		}
	}

	return validation.JSONSchema{
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: validation.BoolPtr(false),
	}
}

func checkField(field models.Field, raw string) string {
	value := strings.TrimSpace(raw)

	if field.Kind == models.FieldCheckbox {
		if field.Required && !truthy(value) {
			return validation.RequiredMessage(field.Label)
		}
		return ""
	}

	if field.Multi {
		items, err := decodeList(value)
		if err != nil {
			return validation.InvalidMessage(field.Label)
		}
		if len(items) == 0 {
			if field.Required {
				return validation.RequiredMessage(field.Label)
			}
			return ""
		}
		allowed := optionValues(field.Options)
		for _, item := range items {
			if !contains(allowed, item) {
				return validation.InvalidMessage(field.Label)
			}
		}
		return ""
	}

	if value == "" {
		if field.Required {
			return validation.RequiredMessage(field.Label)
		}
		return ""
	}

	if len(field.Options) > 0 && !contains(optionValues(field.Options), value) {
		return validation.InvalidMessage(field.Label)
	}
	if field.MaxLength > 0 && utf8.RuneCountInString(value) > field.MaxLength {
		return validation.InvalidMessage(field.Label)
	}
	if field.Rule != "" {
		rule, _ := validation.Lookup(field.Rule)
		if !rule.Valid(value) {
			return validation.InvalidMessage(field.Label)
		}
	}
	return ""
}

// decodeList accepts the JSON-stringified arrays the browser posts and, for
// plain form posts, a comma separated list.
func decodeList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var items []string
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, err
		}
		return compact(items), nil
	}
	return compact(strings.Split(raw, ",")), nil
}

func compact(items []string) []string {
	out := items[:0]
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func freeText(field models.Field) bool {
	return field.Kind != models.FieldCheckbox && !field.Multi && len(field.Options) == 0
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "on", "yes", "1":
		return true
	}
	return false
}

func optionValues(options []models.Option) []string {
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.Value
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
