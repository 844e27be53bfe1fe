// Package render turns normalized form definitions into the HTML pages the
// intake service serves: the dynamic form itself, the password gate, and the
// submission confirmation. Page chrome goes through embedded pongo2 templates;
// field controls are generated directly. Rendering is deterministic for a
// given definition and options, and never mutates stored state.
package render

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-intake/pkg/brand"
	"github.com/goliatone/go-intake/pkg/markdown"
	"github.com/goliatone/go-intake/pkg/render/template"
	"github.com/goliatone/go-intake/pkg/schema"
)

// Option configures a Renderer.
type Option func(*config)

type config struct {
	engine   *template.Engine
	markdown func(string) string
}

// WithTemplateEngine injects a custom template engine, for example one loading
// templates from disk during development.
func WithTemplateEngine(engine *template.Engine) Option {
	return func(cfg *config) {
		if engine != nil {
			cfg.engine = engine
		}
	}
}

// WithMarkdown overrides the markdown converter used for content fields.
func WithMarkdown(fn func(string) string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.markdown = fn
		}
	}
}

// Renderer produces the client-facing intake pages.
type Renderer struct {
	engine    *template.Engine
	markdown  func(string) string
	sanitizer *bluemonday.Policy
}

// New constructs a Renderer with the embedded templates and the built-in
// markdown converter unless options say otherwise.
func New(options ...Option) (*Renderer, error) {
	cfg := &config{markdown: markdown.Render}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.engine == nil {
		engine, err := template.New(template.WithFS(TemplatesFS()))
		if err != nil {
			return nil, fmt.Errorf("render: configure template engine: %w", err)
		}
		cfg.engine = engine
	}

	// Content markdown is authored by agents, not clients, but it still flows
	// through a sanitizer so a compromised definition cannot script the page.
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Globally()
	policy.AllowAttrs("target", "rel").OnElements("a")

	return &Renderer{
		engine:    cfg.engine,
		markdown:  cfg.markdown,
		sanitizer: policy,
	}, nil
}

// FormPage describes one dynamic form render.
type FormPage struct {
	Token      string
	Definition schema.FormDefinition
	Brand      brand.Brand
	// Values optionally overrides field values: string for scalar controls,
	// []string to pre-check checkbox groups.
	Values map[string]any
}

// RenderForm produces the full dynamic form page. The client runtime is
// inlined; the uploader module ships only when the definition has file fields.
func (r *Renderer) RenderForm(ctx context.Context, page FormPage) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body := r.buildFormBody(page.Definition, page.Token, values{overrides: page.Values})

	script, err := runtimeScript(page.Definition.HasFileFields())
	if err != nil {
		return nil, err
	}

	html, err := r.engine.RenderTemplate("form", map[string]any{
		"title":            pageTitle(page.Definition.Title, page.Brand),
		"form_title":       page.Definition.Title,
		"form_description": page.Definition.Description,
		"form_body":        body,
		"token":            page.Token,
		"runtime_js":       script,
		"brand_name":       page.Brand.Name,
		"tagline":          page.Brand.Tagline,
		"footer":           page.Brand.Footer,
		"css_vars":         cssVarsStyle(page.Brand.CSSVars()),
	})
	if err != nil {
		return nil, fmt.Errorf("render: form page: %w", err)
	}
	return []byte(html), nil
}

// GatePage describes a password gate render.
type GatePage struct {
	Token string
	Brand brand.Brand
	// Error re-renders the gate with the incorrect-password banner.
	Error bool
}

// RenderPasswordGate produces the access gate shown for protected intakes.
func (r *Renderer) RenderPasswordGate(ctx context.Context, page GatePage) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	html, err := r.engine.RenderTemplate("gate", map[string]any{
		"title":      pageTitle("Access Form", page.Brand),
		"token":      page.Token,
		"error":      page.Error,
		"brand_name": page.Brand.Name,
		"tagline":    page.Brand.Tagline,
		"footer":     page.Brand.Footer,
		"css_vars":   cssVarsStyle(page.Brand.CSSVars()),
	})
	if err != nil {
		return nil, fmt.Errorf("render: gate page: %w", err)
	}
	return []byte(html), nil
}

// ThanksPage describes a confirmation render.
type ThanksPage struct {
	ProjectName string
	Brand       brand.Brand
}

// RenderThanks produces the post-submission confirmation page.
func (r *Renderer) RenderThanks(ctx context.Context, page ThanksPage) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	html, err := r.engine.RenderTemplate("thanks", map[string]any{
		"title":        pageTitle("Thank You", page.Brand),
		"project_name": page.ProjectName,
		"brand_name":   page.Brand.Name,
		"tagline":      page.Brand.Tagline,
		"footer":       page.Brand.Footer,
		"css_vars":     cssVarsStyle(page.Brand.CSSVars()),
	})
	if err != nil {
		return nil, fmt.Errorf("render: thanks page: %w", err)
	}
	return []byte(html), nil
}

func (r *Renderer) contentHTML(source string) string {
	return r.sanitizer.Sanitize(r.markdown(source))
}

func pageTitle(prefix string, b brand.Brand) string {
	if prefix == "" {
		return b.TitleSuffix
	}
	return prefix + " - " + b.TitleSuffix
}

// cssVarsStyle flattens CSS custom properties into a declaration list, sorted
// so output stays deterministic.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}
