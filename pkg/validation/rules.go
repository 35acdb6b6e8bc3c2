// Package validation implements the field and section level input checks the
// wizard runs before allowing forward navigation or submission. Field checks
// apply in a fixed priority order and short-circuit on the first failure;
// section checks accumulate every failing field.
package validation

import (
	"fmt"
	"regexp"

	"github.com/goliatone/go-formwizard/pkg/schema"
)

// Default messages for rule failures. Required failures prefer the field's
// configured message when present.
const (
	MsgRequired     = "This field is required"
	MsgInvalidEmail = "Enter a valid email address"
	MsgInvalidPhone = "Enter a 10-digit phone number"
)

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// Field checks a single value against a field's rules. It is pure: the same
// field and value always produce the same result. Rules apply in priority
// order (required, minimum length, maximum length, kind format) and the
// first failure wins. The boolean reports whether the value passed.
func Field(field schema.Field, value any) (string, bool) {
	text, isString := value.(string)

	if empty(value) {
		if field.Required {
			return requiredMessage(field), false
		}
		// Optional and empty: no further rules apply.
		return "", true
	}

	if isString {
		if field.MinLength != nil && len(text) < *field.MinLength {
			return fmt.Sprintf("Must be at least %d characters", *field.MinLength), false
		}
		if field.MaxLength != nil && len(text) > *field.MaxLength {
			return fmt.Sprintf("Must be at most %d characters", *field.MaxLength), false
		}
	}

	switch field.Kind {
	case schema.FieldKindEmail:
		if isString && !emailPattern.MatchString(text) {
			return MsgInvalidEmail, false
		}
	case schema.FieldKindTel:
		if isString && !phonePattern.MatchString(text) {
			return MsgInvalidPhone, false
		}
	case schema.FieldKindText, schema.FieldKindTextarea, schema.FieldKindDate,
		schema.FieldKindSelect, schema.FieldKindRadio, schema.FieldKindCheckbox:
		// No kind-specific format rule.
	}

	return "", true
}

// Section validates every field in the given section against the value map,
// in field order, accumulating all failures. The returned map replaces any
// previous error state wholesale; its keys are always a subset of the
// section's field identifiers. The boolean is true iff the map is empty.
func Section(form schema.Form, index int, values map[string]any) (Errors, bool) {
	section, err := form.Section(index)
	if err != nil {
		return Errors{}, false
	}

	errs := make(Errors)
	for _, field := range section.Fields {
		if msg, ok := Field(field, values[field.ID]); !ok {
			errs[field.ID] = msg
		}
	}
	return errs, len(errs) == 0
}

func requiredMessage(field schema.Field) string {
	if field.Message != "" {
		return field.Message
	}
	return MsgRequired
}

// empty reports whether a value counts as absent for the required rule. A
// false checkbox is a real answer, not an absent one.
func empty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}
