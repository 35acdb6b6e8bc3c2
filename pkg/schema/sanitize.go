package schema

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Sanitize strips markup from every display string in the form. Schema
// documents can arrive from remote sources, so labels, titles, descriptions,
// and configured messages are never trusted as HTML.
func Sanitize(form Form) Form {
	form.Title = sanitizeText(form.Title)
	for si := range form.Sections {
		section := &form.Sections[si]
		section.Title = sanitizeText(section.Title)
		section.Description = sanitizeText(section.Description)
		for fi := range section.Fields {
			field := &section.Fields[fi]
			field.Label = sanitizeText(field.Label)
			field.Placeholder = sanitizeText(field.Placeholder)
			field.Description = sanitizeText(field.Description)
			field.Message = sanitizeText(field.Message)
			for oi := range field.Options {
				field.Options[oi].Label = sanitizeText(field.Options[oi].Label)
			}
		}
	}
	return form
}

func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(sanitizer().Sanitize(trimmed))
}

func sanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
