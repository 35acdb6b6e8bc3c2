package schema

import (
	"fmt"
	"strings"
)

// FieldKind enumerates the supported input kinds. Validation and renderers
// dispatch exhaustively on this enum; adding a kind requires extending both
// dispatch sites.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindEmail    FieldKind = "email"
	FieldKindTel      FieldKind = "tel"
	FieldKindTextarea FieldKind = "textarea"
	FieldKindDate     FieldKind = "date"
	FieldKindSelect   FieldKind = "select"
	FieldKindRadio    FieldKind = "radio"
	FieldKindCheckbox FieldKind = "checkbox"
)

// Known reports whether the kind is part of the supported enumeration.
func (k FieldKind) Known() bool {
	switch k {
	case FieldKindText, FieldKindEmail, FieldKindTel, FieldKindTextarea,
		FieldKindDate, FieldKindSelect, FieldKindRadio, FieldKindCheckbox:
		return true
	}
	return false
}

// Choice reports whether the kind draws its value from an enumerated option
// set (select, radio).
func (k FieldKind) Choice() bool {
	return k == FieldKindSelect || k == FieldKindRadio
}

// Option is a single entry in a choice field's option set.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Display returns the label, falling back to the raw value.
func (o Option) Display() string {
	if strings.TrimSpace(o.Label) != "" {
		return o.Label
	}
	return o.Value
}

// Field models an individual input inside a wizard section. Fields are
// immutable once loaded; struct tags allow schema documents to be decoded
// directly from YAML or JSON.
type Field struct {
	ID          string    `json:"id" yaml:"id"`
	Kind        FieldKind `json:"kind" yaml:"kind"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool      `json:"required" yaml:"required"`
	MinLength   *int      `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   *int      `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Options     []Option  `json:"options,omitempty" yaml:"options,omitempty"`
	// Message overrides the generic required-field error for this field.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// DisplayLabel returns the label, falling back to the field ID.
func (f Field) DisplayLabel() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return f.ID
}

// Default returns the initial value for the field: false for checkboxes,
// empty string for everything else.
func (f Field) Default() any {
	if f.Kind == FieldKindCheckbox {
		return false
	}
	return ""
}

// Section is an ordered group of fields presented as one wizard step.
// Section order is semantically meaningful: it defines wizard progression.
type Section struct {
	ID          string  `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// FieldIDs returns the identifiers of the section's fields in order.
func (s Section) FieldIDs() []string {
	ids := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		ids = append(ids, f.ID)
	}
	return ids
}

// Form is the top-level schema: an ordered sequence of sections plus
// form-level metadata. Loaded once per session and treated as read-only.
type Form struct {
	ID       string    `json:"id" yaml:"id"`
	Title    string    `json:"title,omitempty" yaml:"title,omitempty"`
	Version  string    `json:"version,omitempty" yaml:"version,omitempty"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// NumSections returns the number of wizard steps.
func (f Form) NumSections() int {
	return len(f.Sections)
}

// Section returns the section at index i.
func (f Form) Section(i int) (Section, error) {
	if i < 0 || i >= len(f.Sections) {
		return Section{}, fmt.Errorf("schema: section index %d out of range [0,%d)", i, len(f.Sections))
	}
	return f.Sections[i], nil
}

// FieldByID looks a field up across all sections.
func (f Form) FieldByID(id string) (Field, bool) {
	for _, section := range f.Sections {
		for _, field := range section.Fields {
			if field.ID == id {
				return field, true
			}
		}
	}
	return Field{}, false
}

// Fields returns every field in section order.
func (f Form) Fields() []Field {
	var out []Field
	for _, section := range f.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// DefaultValues builds the initial value map: one entry per field in the
// schema, empty string or false depending on kind. Sessions rely on the map
// staying complete for their whole lifetime.
func DefaultValues(form Form) map[string]any {
	values := make(map[string]any)
	for _, field := range form.Fields() {
		values[field.ID] = field.Default()
	}
	return values
}
