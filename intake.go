// Package intake re-exports the library surface of the client intake toolkit:
// form definitions, server-side rendering, the programmatic form runtime, and
// the markdown dialect used by content fields. Service wiring lives under
// internal/ and the binaries under cmd/.
package intake

import (
	"github.com/goliatone/go-intake/pkg/brand"
	"github.com/goliatone/go-intake/pkg/client"
	"github.com/goliatone/go-intake/pkg/markdown"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/schema"
	"github.com/goliatone/go-intake/pkg/token"
)

// FormDefinition is the normalized form model.
type FormDefinition = schema.FormDefinition

// Section groups fields under an optional heading.
type Section = schema.Section

// Field is one form control.
type Field = schema.Field

// FieldType is the closed set of field kinds.
type FieldType = schema.FieldType

// Renderer produces the client-facing pages.
type Renderer = render.Renderer

// FormPage describes one form render.
type FormPage = render.FormPage

// Session drives a programmatic form fill.
type Session = client.Session

// Brand is a white-label identity.
type Brand = brand.Brand

// ParseDefinition decodes, normalizes, and validates a JSON or YAML form
// definition.
func ParseDefinition(data []byte) (FormDefinition, error) {
	return schema.Parse(data)
}

// NewRenderer builds a page renderer with the embedded templates.
func NewRenderer(options ...render.Option) (*Renderer, error) {
	return render.New(options...)
}

// NewSession builds a form-fill session against a running intake service.
func NewSession(baseURL, draftDir, formToken string) (*Session, error) {
	drafts, err := client.NewFileDraftStore(draftDir)
	if err != nil {
		return nil, err
	}
	return client.NewSession(client.NewAPI(baseURL), drafts, formToken), nil
}

// RenderMarkdown converts content-field markdown to HTML.
func RenderMarkdown(source string) string {
	return markdown.Render(source)
}

// NewToken generates a form link token.
func NewToken() (string, error) {
	return token.New()
}
