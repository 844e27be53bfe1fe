package render

import (
	"html"
	"strings"

	"github.com/goliatone/go-intake/pkg/schema"
)

const inputClasses = "w-full border border-gray-300 rounded-lg px-3 py-2 text-sm focus:ring-2 focus:ring-blue-500 focus:border-blue-500"

// values resolves per-request overrides layered over the definition defaults.
// Scalars override text/textarea/select values; lists pre-check checkbox
// groups.
type values struct {
	overrides map[string]any
}

func (v values) scalar(field schema.Field) string {
	if raw, ok := v.overrides[field.Name]; ok {
		if s, ok := raw.(string); ok {
			return s
		}
	}
	return field.Value
}

func (v values) list(field schema.Field) []string {
	raw, ok := v.overrides[field.Name]
	if !ok {
		return nil
	}
	switch items := raw.(type) {
	case []string:
		return items
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func (r *Renderer) buildFormBody(def schema.FormDefinition, token string, vals values) string {
	var b strings.Builder
	b.Grow(4096)

	for si, section := range def.Sections {
		if si > 0 {
			b.WriteString(`<div class="mt-10 pt-8 border-t border-gray-200">`)
		} else {
			b.WriteString(`<div>`)
		}

		if section.Heading != "" {
			b.WriteString(`<h2 class="text-xl font-bold text-gray-900 mb-1">`)
			b.WriteString(html.EscapeString(section.Heading))
			b.WriteString(`</h2>`)
		}
		if section.Description != "" {
			b.WriteString(`<p class="text-gray-500 text-sm mb-6">`)
			b.WriteString(html.EscapeString(section.Description))
			b.WriteString(`</p>`)
		}

		b.WriteString(`<div class="space-y-5">`)
		for _, field := range section.Fields {
			b.WriteString(`<div>`)
			writeFieldLabel(&b, field)
			r.writeFieldControl(&b, field, token, vals)
			b.WriteString(`</div>`)
		}
		b.WriteString(`</div>`)

		b.WriteString(`</div>`)
	}

	return b.String()
}

func writeFieldLabel(b *strings.Builder, field schema.Field) {
	margin := "mb-1"
	if field.Type == schema.FieldTypeContent || field.Type == schema.FieldTypeFile {
		margin = "mb-2"
	}
	b.WriteString(`<label class="block text-sm font-medium text-gray-700 `)
	b.WriteString(margin)
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(field.Label))
	if field.Required && field.Type != schema.FieldTypeContent {
		b.WriteString(`<span class="text-red-500 ml-0.5">*</span>`)
	}
	b.WriteString(`</label>`)
}

// writeFieldControl emits the input control for one field. The switch is
// exhaustive over schema.FieldType; Validate rejects anything else upstream.
func (r *Renderer) writeFieldControl(b *strings.Builder, field schema.Field, token string, vals values) {
	switch field.Type {
	case schema.FieldTypeText:
		b.WriteString(`<input type="text" name="`)
		b.WriteString(html.EscapeString(field.Name))
		b.WriteString(`"`)
		if field.Required {
			b.WriteString(` required`)
		}
		b.WriteString(` value="`)
		b.WriteString(html.EscapeString(vals.scalar(field)))
		b.WriteString(`" placeholder="`)
		b.WriteString(html.EscapeString(field.Placeholder))
		b.WriteString(`" class="`)
		b.WriteString(inputClasses)
		b.WriteString(`" />`)

	case schema.FieldTypeTextarea:
		b.WriteString(`<textarea name="`)
		b.WriteString(html.EscapeString(field.Name))
		b.WriteString(`"`)
		if field.Required {
			b.WriteString(` required`)
		}
		b.WriteString(` rows="4" placeholder="`)
		b.WriteString(html.EscapeString(field.Placeholder))
		b.WriteString(`" class="`)
		b.WriteString(inputClasses)
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(vals.scalar(field)))
		b.WriteString(`</textarea>`)

	case schema.FieldTypeSelect:
		selected := vals.scalar(field)
		b.WriteString(`<select name="`)
		b.WriteString(html.EscapeString(field.Name))
		b.WriteString(`"`)
		if field.Required {
			b.WriteString(` required`)
		}
		b.WriteString(` class="`)
		b.WriteString(inputClasses)
		b.WriteString(`"><option value="">Select...</option>`)
		for _, opt := range field.Options {
			b.WriteString(`<option value="`)
			b.WriteString(html.EscapeString(opt))
			b.WriteString(`"`)
			if opt == selected {
				b.WriteString(` selected`)
			}
			b.WriteString(`>`)
			b.WriteString(html.EscapeString(opt))
			b.WriteString(`</option>`)
		}
		b.WriteString(`</select>`)

	case schema.FieldTypeCheckbox:
		checked := vals.list(field)
		b.WriteString(`<div class="space-y-2">`)
		for _, opt := range field.Options {
			b.WriteString(`<label class="flex items-center gap-2 text-sm"><input type="checkbox" name="`)
			b.WriteString(html.EscapeString(field.Name))
			b.WriteString(`" value="`)
			b.WriteString(html.EscapeString(opt))
			b.WriteString(`"`)
			if contains(checked, opt) {
				b.WriteString(` checked`)
			}
			b.WriteString(` class="rounded border-gray-300" />`)
			b.WriteString(html.EscapeString(opt))
			b.WriteString(`</label>`)
		}
		b.WriteString(`</div>`)

	case schema.FieldTypeContent:
		b.WriteString(`<div class="bg-gray-50 border border-gray-200 rounded-lg p-4 prose prose-sm max-w-none">`)
		b.WriteString(r.contentHTML(field.Value))
		b.WriteString(`</div>`)

	case schema.FieldTypeFile:
		b.WriteString(`<div class="file-upload-zone border-2 border-dashed border-gray-300 rounded-lg p-6 text-center hover:border-blue-400 transition-colors cursor-pointer" data-field-id="`)
		b.WriteString(html.EscapeString(field.Name))
		b.WriteString(`" data-token="`)
		b.WriteString(html.EscapeString(token))
		b.WriteString(`" data-category="`)
		b.WriteString(html.EscapeString(field.Category))
		b.WriteString(`" data-accept="`)
		b.WriteString(html.EscapeString(field.Accept))
		b.WriteString(`"><input type="file" multiple accept="`)
		b.WriteString(html.EscapeString(field.Accept))
		b.WriteString(`" class="hidden" data-upload-input="`)
		b.WriteString(html.EscapeString(field.Name))
		b.WriteString(`" />`)
		b.WriteString(`<div class="text-gray-400 mb-2"><svg class="mx-auto h-10 w-10" fill="none" stroke="currentColor" viewBox="0 0 24 24"><path stroke-linecap="round" stroke-linejoin="round" stroke-width="1.5" d="M7 16a4 4 0 01-.88-7.903A5 5 0 1115.9 6L16 6a5 5 0 011 9.9M15 13l-3-3m0 0l-3 3m3-3v12" /></svg></div>`)
		b.WriteString(`<p class="text-sm font-medium text-gray-700">Click to upload or drag files here</p>`)
		b.WriteString(`<p class="text-xs text-gray-500 mt-1">Up to 10 MB per file</p>`)
		b.WriteString(`<div class="file-list mt-4 space-y-2" data-file-list="`)
		b.WriteString(html.EscapeString(field.Name))
		b.WriteString(`"></div></div>`)
	}
}
