// Package html renders a read-only HTML receipt of a completed wizard
// session (form title, sections, and the submitted answers), suitable for a
// confirmation page or email body. It is a pure presentation layer over the
// schema and value snapshot; nothing here mutates session state.
package html

import (
	"fmt"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formwizard/pkg/schema"
)

const receiptTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{ title }}</title></head>
<body>
<h1>{{ title }}</h1>
{% if submittedBy %}<p class="submitted-by">Submitted by {{ submittedBy }}</p>{% endif %}
{% for section in sections %}
<section>
  <h2>{{ section.title }}</h2>
  {% if section.description %}<p>{{ section.description }}</p>{% endif %}
  <dl>
  {% for field in section.fields %}
    <dt>{{ field.label }}</dt>
    <dd>{% if field.answer %}{{ field.answer }}{% else %}&mdash;{% endif %}</dd>
  {% endfor %}
  </dl>
</section>
{% endfor %}
</body>
</html>
`

var (
	receiptOnce sync.Once
	receiptTpl  *pongo2.Template
	receiptErr  error
)

// ReceiptOptions carries optional metadata for the rendered page.
type ReceiptOptions struct {
	// SubmittedBy names the user on the receipt when non-empty.
	SubmittedBy string
}

// RenderReceipt renders the form and its final value snapshot to HTML.
// Values render per kind: checkboxes as Yes/No, choice fields as their
// option label, everything else verbatim (escaped by the template engine).
func RenderReceipt(form schema.Form, values map[string]any, opts ReceiptOptions) ([]byte, error) {
	receiptOnce.Do(func() {
		receiptTpl, receiptErr = pongo2.FromString(receiptTemplate)
	})
	if receiptErr != nil {
		return nil, fmt.Errorf("html: parse receipt template: %w", receiptErr)
	}

	sections := make([]map[string]any, 0, len(form.Sections))
	for _, section := range form.Sections {
		fields := make([]map[string]any, 0, len(section.Fields))
		for _, field := range section.Fields {
			fields = append(fields, map[string]any{
				"label":  field.DisplayLabel(),
				"answer": displayValue(field, values[field.ID]),
			})
		}
		sections = append(sections, map[string]any{
			"title":       section.Title,
			"description": section.Description,
			"fields":      fields,
		})
	}

	title := form.Title
	if title == "" {
		title = form.ID
	}

	out, err := receiptTpl.ExecuteBytes(pongo2.Context{
		"title":       title,
		"submittedBy": opts.SubmittedBy,
		"sections":    sections,
	})
	if err != nil {
		return nil, fmt.Errorf("html: execute receipt template: %w", err)
	}
	return out, nil
}

func displayValue(field schema.Field, value any) string {
	switch field.Kind {
	case schema.FieldKindCheckbox:
		if checked, _ := value.(bool); checked {
			return "Yes"
		}
		return "No"
	case schema.FieldKindSelect, schema.FieldKindRadio:
		text, _ := value.(string)
		for _, option := range field.Options {
			if option.Value == text {
				return option.Display()
			}
		}
		return text
	default:
		text, _ := value.(string)
		return text
	}
}
