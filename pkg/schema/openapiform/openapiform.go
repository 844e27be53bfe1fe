// Package openapiform derives intake form definitions from OpenAPI 3
// documents. Agents that already describe a submission endpoint in an OpenAPI
// spec can import its request body as a starting definition instead of hand
// writing sections and fields.
package openapiform

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-intake/pkg/schema"
)

// Options exposes importer toggles.
type Options struct {
	// ResolveReferences controls whether external $ref pointers are followed
	// while loading. Defaults to true.
	ResolveReferences bool

	// TextareaThreshold is the maxLength at or above which a plain string
	// property becomes a textarea field.
	TextareaThreshold uint64
}

// Option mutates Options during construction.
type Option func(*Options)

// WithReferenceResolution toggles eager reference resolution.
func WithReferenceResolution(enabled bool) Option {
	return func(opts *Options) {
		opts.ResolveReferences = enabled
	}
}

// WithTextareaThreshold overrides the string length at which properties map to
// textarea fields.
func WithTextareaThreshold(length uint64) Option {
	return func(opts *Options) {
		opts.TextareaThreshold = length
	}
}

// Importer converts OpenAPI operations into form definitions.
type Importer struct {
	options Options
}

// New constructs an Importer.
func New(options ...Option) *Importer {
	cfg := Options{
		ResolveReferences: true,
		TextareaThreshold: 200,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return &Importer{options: cfg}
}

// FromDocument loads an OpenAPI document and derives a form definition from
// the request body of the operation identified by operationID. An operation
// without an operationId can be addressed as "post:/path".
func (i *Importer) FromDocument(ctx context.Context, data []byte, operationID string) (schema.FormDefinition, error) {
	if err := ctx.Err(); err != nil {
		return schema.FormDefinition{}, err
	}
	if len(data) == 0 {
		return schema.FormDefinition{}, errors.New("openapiform: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: i.options.ResolveReferences,
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return schema.FormDefinition{}, fmt.Errorf("openapiform: load document: %w", err)
	}
	if i.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return schema.FormDefinition{}, fmt.Errorf("openapiform: validate document: %w", err)
		}
	}

	operation, err := findOperation(spec, operationID)
	if err != nil {
		return schema.FormDefinition{}, err
	}

	body := requestBodySchema(operation.RequestBody)
	if body == nil || len(body.Properties) == 0 {
		return schema.FormDefinition{}, fmt.Errorf("openapiform: operation %s has no object request body", operationID)
	}

	def := schema.FormDefinition{
		Title:       titleFor(spec, operation),
		Description: operation.Description,
		Sections: []schema.Section{{
			Heading: operation.Summary,
			Fields:  i.fieldsFrom(body),
		}},
	}
	def.Normalize()
	if err := def.Validate(); err != nil {
		return schema.FormDefinition{}, fmt.Errorf("openapiform: derived definition invalid: %w", err)
	}
	return def, nil
}

func findOperation(spec *openapi3.T, operationID string) (*openapi3.Operation, error) {
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapiform: document does not contain any paths")
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			if operation == nil {
				continue
			}
			if operation.OperationID == operationID {
				return operation, nil
			}
			if strings.EqualFold(strings.ToLower(method)+":"+path, operationID) {
				return operation, nil
			}
		}
	}
	return nil, fmt.Errorf("openapiform: operation %s not found", operationID)
}

func requestBodySchema(ref *openapi3.RequestBodyRef) *openapi3.Schema {
	if ref == nil || ref.Value == nil {
		return nil
	}
	content := ref.Value.Content
	for _, mediaType := range []string{"application/json", "multipart/form-data", "application/x-www-form-urlencoded"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func (i *Importer) fieldsFrom(body *openapi3.Schema) []schema.Field {
	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]schema.Field, 0, len(names))
	for _, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field := i.fieldFrom(name, ref.Value)
		field.Required = required[name]
		fields = append(fields, field)
	}
	return fields
}

func (i *Importer) fieldFrom(name string, prop *openapi3.Schema) schema.Field {
	field := schema.Field{
		Name:  name,
		Label: labelFor(name, prop),
	}
	if value, ok := prop.Default.(string); ok {
		field.Value = value
	}

	switch {
	case len(prop.Enum) > 0:
		field.Type = schema.FieldTypeSelect
		field.Options = enumOptions(prop.Enum)

	case isType(prop, openapi3.TypeArray):
		field.Type = schema.FieldTypeCheckbox
		if prop.Items != nil && prop.Items.Value != nil {
			field.Options = enumOptions(prop.Items.Value.Enum)
		}

	case prop.Format == "binary":
		field.Type = schema.FieldTypeFile

	case isType(prop, openapi3.TypeString) && prop.MaxLength != nil && *prop.MaxLength >= i.options.TextareaThreshold:
		field.Type = schema.FieldTypeTextarea
		field.Placeholder = prop.Description

	default:
		field.Type = schema.FieldTypeText
		field.Placeholder = prop.Description
	}
	return field
}

func labelFor(name string, prop *openapi3.Schema) string {
	if prop.Title != "" {
		return prop.Title
	}
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})
	if len(words) == 0 {
		return name
	}
	for wi, word := range words {
		if word == "" {
			continue
		}
		words[wi] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func enumOptions(enum []any) []string {
	options := make([]string, 0, len(enum))
	for _, value := range enum {
		options = append(options, fmt.Sprint(value))
	}
	return options
}

func titleFor(spec *openapi3.T, operation *openapi3.Operation) string {
	if operation.Summary != "" {
		return operation.Summary
	}
	if spec.Info != nil && spec.Info.Title != "" {
		return spec.Info.Title
	}
	return "Intake Form"
}

func isType(prop *openapi3.Schema, want string) bool {
	return prop.Type != nil && prop.Type.Is(want)
}
