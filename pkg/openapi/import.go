// Package openapi imports wizard schemas from OpenAPI 3 documents: the
// request body of a chosen operation becomes the form, its properties become
// fields, and the optional x-wizard-section / x-wizard-order extensions
// control section grouping and field order.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formwizard/pkg/schema"
)

// Property extensions recognised by the importer.
const (
	extSection = "x-wizard-section"
	extOrder   = "x-wizard-order"
	extMessage = "x-wizard-message"
)

// ImportOptions selects and shapes the operation to import.
type ImportOptions struct {
	// OperationID names the operation whose request body becomes the form.
	OperationID string
	// FallbackSectionTitle is used for properties without an
	// x-wizard-section extension. Defaults to "Details".
	FallbackSectionTitle string
	// ResolveReferences validates the document and resolves external refs.
	ResolveReferences bool
}

// Import converts one operation of an OpenAPI 3 document into a wizard Form.
// The request body must be a JSON object schema; each property maps to a
// field, the schema's required list drives the Required flags, and string
// bounds carry over as length rules.
func Import(ctx context.Context, doc schema.Document, opts ImportOptions) (schema.Form, error) {
	if err := ctx.Err(); err != nil {
		return schema.Form{}, err
	}
	if opts.OperationID == "" {
		return schema.Form{}, errors.New("openapi import: operation id is required")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: opts.ResolveReferences,
	}
	spec, err := loader.LoadFromData(doc.Raw())
	if err != nil {
		return schema.Form{}, fmt.Errorf("openapi import: load document: %w", err)
	}
	if opts.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return schema.Form{}, fmt.Errorf("openapi import: validate: %w", err)
		}
	}

	operation, err := findOperation(spec, opts.OperationID)
	if err != nil {
		return schema.Form{}, err
	}

	body := requestBodySchema(operation)
	if body == nil {
		return schema.Form{}, fmt.Errorf("openapi import: operation %q has no object request body", opts.OperationID)
	}

	form, err := buildForm(opts, operation, body)
	if err != nil {
		return schema.Form{}, err
	}

	form = schema.Sanitize(form)
	if err := schema.Validate(form); err != nil {
		return schema.Form{}, fmt.Errorf("openapi import: %w", err)
	}
	return form, nil
}

func findOperation(spec *openapi3.T, operationID string) (*openapi3.Operation, error) {
	if spec.Paths == nil {
		return nil, errors.New("openapi import: document has no paths")
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op, nil
			}
		}
	}
	return nil, fmt.Errorf("openapi import: operation %q not found", operationID)
}

func requestBodySchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			if schemaType(mt.Schema.Value) == "object" {
				return mt.Schema.Value
			}
		}
	}
	return nil
}

// orderedProperty pairs a property with the extension-driven placement
// metadata used to build sections deterministically.
type orderedProperty struct {
	name    string
	section string
	order   int
	prop    *openapi3.Schema
}

func buildForm(opts ImportOptions, op *openapi3.Operation, body *openapi3.Schema) (schema.Form, error) {
	fallback := strings.TrimSpace(opts.FallbackSectionTitle)
	if fallback == "" {
		fallback = "Details"
	}

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	props := make([]orderedProperty, 0, len(body.Properties))
	for name, ref := range body.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		entry := orderedProperty{
			name:    name,
			section: fallback,
			order:   1 << 20, // unordered properties sort after ordered ones
			prop:    ref.Value,
		}
		if title, ok := stringExtension(ref.Value.Extensions, extSection); ok {
			entry.section = title
		}
		if order, ok := intExtension(ref.Value.Extensions, extOrder); ok {
			entry.order = order
		}
		props = append(props, entry)
	}
	if len(props) == 0 {
		return schema.Form{}, fmt.Errorf("openapi import: operation %q request body has no usable properties", op.OperationID)
	}

	sort.SliceStable(props, func(i, j int) bool {
		if props[i].order != props[j].order {
			return props[i].order < props[j].order
		}
		return props[i].name < props[j].name
	})

	sectionIndex := make(map[string]int)
	var sections []schema.Section
	for _, entry := range props {
		field := convertProperty(entry.name, entry.prop, required[entry.name])
		idx, ok := sectionIndex[entry.section]
		if !ok {
			idx = len(sections)
			sectionIndex[entry.section] = idx
			sections = append(sections, schema.Section{Title: entry.section})
		}
		sections[idx].Fields = append(sections[idx].Fields, field)
	}

	title := op.Summary
	if title == "" {
		title = op.OperationID
	}
	return schema.Form{
		ID:       op.OperationID,
		Title:    title,
		Sections: sections,
	}, nil
}

func convertProperty(name string, prop *openapi3.Schema, required bool) schema.Field {
	field := schema.Field{
		ID:          name,
		Kind:        kindFor(prop),
		Label:       prop.Title,
		Description: prop.Description,
		Required:    required,
	}

	if field.Kind.Choice() {
		for _, value := range prop.Enum {
			field.Options = append(field.Options, schema.Option{
				Value: fmt.Sprintf("%v", value),
			})
		}
	}
	if prop.MinLength != 0 {
		min := int(prop.MinLength)
		field.MinLength = &min
	}
	if prop.MaxLength != nil {
		max := int(*prop.MaxLength)
		field.MaxLength = &max
	}
	if msg, ok := stringExtension(prop.Extensions, extMessage); ok {
		field.Message = msg
	}
	return field
}

func kindFor(prop *openapi3.Schema) schema.FieldKind {
	if schemaType(prop) == "boolean" {
		return schema.FieldKindCheckbox
	}
	if len(prop.Enum) > 0 {
		if len(prop.Enum) <= 4 {
			return schema.FieldKindRadio
		}
		return schema.FieldKindSelect
	}
	switch prop.Format {
	case "email":
		return schema.FieldKindEmail
	case "tel", "phone":
		return schema.FieldKindTel
	case "date", "date-time":
		return schema.FieldKindDate
	}
	if prop.MaxLength != nil && *prop.MaxLength > 120 {
		return schema.FieldKindTextarea
	}
	return schema.FieldKindText
}

func schemaType(prop *openapi3.Schema) string {
	if prop.Type == nil {
		return ""
	}
	values := prop.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func stringExtension(ext map[string]any, key string) (string, bool) {
	raw, ok := ext[key]
	if !ok {
		return "", false
	}
	value, ok := raw.(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

func intExtension(ext map[string]any, key string) (int, bool) {
	raw, ok := ext[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}
