// Package schemaio derives intake form schemas from the platform's OpenAPI
// contract, so a form definition can follow the backend's requestBody instead
// of being maintained by hand. Only the subset of JSON Schema the intake forms
// understand is mapped; everything else is carried as a plain text field.
package schemaio

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-intake/pkg/schema"
)

// ErrOperationNotFound is returned when the document declares no operation
// with the requested id.
var ErrOperationNotFound = errors.New("schemaio: operation not found")

// FromFile loads an OpenAPI document from disk and builds the form schema for
// the named operation's request body.
func FromFile(ctx context.Context, path, operationID string) (schema.FormSchema, error) {
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromFile(path)
	if err != nil {
		return schema.FormSchema{}, fmt.Errorf("schemaio: load %q: %w", path, err)
	}
	return fromSpec(spec, operationID)
}

// FromData builds the form schema for the named operation from an in-memory
// OpenAPI payload (JSON or YAML).
func FromData(ctx context.Context, data []byte, operationID string) (schema.FormSchema, error) {
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return schema.FormSchema{}, fmt.Errorf("schemaio: load document: %w", err)
	}
	return fromSpec(spec, operationID)
}

func fromSpec(spec *openapi3.T, operationID string) (schema.FormSchema, error) {
	operation := findOperation(spec, operationID)
	if operation == nil {
		return schema.FormSchema{}, fmt.Errorf("schemaio: %q: %w", operationID, ErrOperationNotFound)
	}

	body := requestSchema(operation.RequestBody)
	if body == nil {
		return schema.FormSchema{}, fmt.Errorf("schemaio: operation %q has no object request body", operationID)
	}

	out := schema.FormSchema{ID: operationID}
	if spec.Info != nil {
		out.Version = spec.Info.Version
	}

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	// OpenAPI objects carry no property order; emit in name order so the
	// derived schema is stable across loads.
	for _, name := range sortedKeys(body.Properties) {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		if items := lineItems(ref.Value); items != nil {
			out.LineItems = items
			continue
		}
		out.Fields = append(out.Fields, descriptor(name, ref.Value, required[name]))
	}

	if len(out.Fields) == 0 && out.LineItems == nil {
		return schema.FormSchema{}, fmt.Errorf("schemaio: operation %q request body has no usable properties", operationID)
	}
	return out, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range []*openapi3.Operation{
			item.Get, item.Put, item.Post, item.Delete, item.Patch,
		} {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			if mt.Schema.Value.Type.Is(openapi3.TypeObject) {
				return mt.Schema.Value
			}
		}
	}
	return nil
}

// lineItems maps an array-of-object property onto the nested line-item
// schema. Only one such property per body is expected; later ones win.
func lineItems(src *openapi3.Schema) *schema.LineItemSchema {
	if !src.Type.Is(openapi3.TypeArray) || src.Items == nil || src.Items.Value == nil {
		return nil
	}
	entry := src.Items.Value
	if !entry.Type.Is(openapi3.TypeObject) {
		return nil
	}

	required := make(map[string]bool, len(entry.Required))
	for _, name := range entry.Required {
		required[name] = true
	}

	items := &schema.LineItemSchema{MinItems: int(src.MinItems)}
	for _, name := range sortedKeys(entry.Properties) {
		ref := entry.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		items.Fields = append(items.Fields, descriptor(name, ref.Value, required[name]))
	}
	if len(items.Fields) == 0 {
		return nil
	}
	return items
}

func descriptor(name string, src *openapi3.Schema, required bool) schema.FieldDescriptor {
	field := schema.FieldDescriptor{
		Key:         name,
		Kind:        schema.KindText,
		Required:    required,
		Label:       src.Title,
		Description: src.Description,
		Default:     src.Default,
	}

	var rule schema.Validator
	switch {
	case len(src.Enum) > 0:
		field.Kind = schema.KindEnumChoice
		field.Choices = enumChoices(src.Enum)
		rule = schema.OneOf(field.Choices, fmt.Sprintf("%s must be one of: %s.", label(field), strings.Join(field.Choices, ", ")))

	case src.Type.Is(openapi3.TypeBoolean):
		field.Kind = schema.KindBoolean

	case src.Type.Is(openapi3.TypeNumber) || src.Type.Is(openapi3.TypeInteger):
		field.Kind = schema.KindNumber
		if src.ExclusiveMin && (src.Min == nil || *src.Min == 0) {
			rule = schema.PositiveNumber(fmt.Sprintf("%s must be a number greater than zero.", label(field)))
		}

	case src.Format == "email":
		field.Kind = schema.KindEmail
		rule = schema.Email(fmt.Sprintf("%s must be a valid email address.", label(field)))

	case src.Format == "uri" || src.Format == "url":
		field.Kind = schema.KindURL
		rule = schema.URL(fmt.Sprintf("%s must be a valid URL.", label(field)))

	default:
		// The platform tags multi-line inputs with format: multiline.
		if src.Format == "multiline" {
			field.Kind = schema.KindLongText
		}
		if src.MinLength > 0 {
			rule = schema.MinLength(int(src.MinLength),
				fmt.Sprintf("%s must be at least %d characters.", label(field), src.MinLength))
		}
	}

	if rule == nil && required && field.Kind != schema.KindBoolean {
		rule = schema.NonEmpty(fmt.Sprintf("%s is required.", label(field)))
	}
	if rule != nil && !required {
		rule = schema.Optional(rule)
	}
	field.Validate = rule
	return field
}

func enumChoices(values []any) []string {
	choices := make([]string, 0, len(values))
	for _, value := range values {
		choices = append(choices, fmt.Sprintf("%v", value))
	}
	return choices
}

func label(field schema.FieldDescriptor) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Key
}

func sortedKeys(properties openapi3.Schemas) []string {
	keys := make([]string, 0, len(properties))
	for name := range properties {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}
