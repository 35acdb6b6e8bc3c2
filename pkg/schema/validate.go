package schema

import (
	"errors"
	"fmt"
)

var (
	errFormIDMissing = errors.New("schema: form id is required")
	errNoSections    = errors.New("schema: form requires at least one section")
)

// Validate checks the structural integrity of a loaded form: every field has
// an identifier and a known kind, identifiers are unique across sections,
// choice kinds carry options, and length bounds are coherent. It does not
// validate user input; that is the validation package's job.
func Validate(form Form) error {
	if form.ID == "" {
		return errFormIDMissing
	}
	if len(form.Sections) == 0 {
		return errNoSections
	}

	seen := make(map[string]bool)
	for si, section := range form.Sections {
		if len(section.Fields) == 0 {
			return fmt.Errorf("schema: section %d (%q) has no fields", si, section.Title)
		}
		for _, field := range section.Fields {
			if err := validateField(field); err != nil {
				return fmt.Errorf("schema: section %d: %w", si, err)
			}
			if seen[field.ID] {
				return fmt.Errorf("schema: duplicate field id %q", field.ID)
			}
			seen[field.ID] = true
		}
	}
	return nil
}

func validateField(field Field) error {
	if field.ID == "" {
		return errors.New("field id is required")
	}
	if !field.Kind.Known() {
		return fmt.Errorf("field %q: unknown kind %q", field.ID, field.Kind)
	}
	if field.Kind.Choice() && len(field.Options) == 0 {
		return fmt.Errorf("field %q: kind %q requires options", field.ID, field.Kind)
	}
	if !field.Kind.Choice() && len(field.Options) > 0 {
		return fmt.Errorf("field %q: kind %q does not accept options", field.ID, field.Kind)
	}
	if field.MinLength != nil && *field.MinLength < 0 {
		return fmt.Errorf("field %q: negative minLength", field.ID)
	}
	if field.MinLength != nil && field.MaxLength != nil && *field.MinLength > *field.MaxLength {
		return fmt.Errorf("field %q: minLength %d exceeds maxLength %d", field.ID, *field.MinLength, *field.MaxLength)
	}
	return nil
}
