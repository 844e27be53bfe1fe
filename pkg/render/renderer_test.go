package render_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-intake/pkg/brand"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/schema"
)

func testDefinition() schema.FormDefinition {
	def := schema.FormDefinition{
		Title:       "Website Intake",
		Description: "Tell us about the project.",
		Sections: []schema.Section{
			{
				Heading:     "Basics",
				Description: "The essentials.",
				Fields: []schema.Field{
					{Label: "Business name", Type: schema.FieldTypeText, Name: "business_name", Placeholder: "Acme Pty Ltd", Required: true},
					{Label: "Brief", Type: schema.FieldTypeTextarea, Name: "brief"},
					{Label: "Platform", Type: schema.FieldTypeSelect, Name: "platform", Options: []string{"WordPress", "Shopify"}, Value: "Shopify"},
					{Label: "Services", Type: schema.FieldTypeCheckbox, Name: "services", Options: []string{"Design", "Build"}},
					{Label: "Read me", Type: schema.FieldTypeContent, Value: "# Welcome\n\nPlease read **carefully**."},
				},
			},
		},
	}
	def.Normalize()
	return def
}

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestRenderFormControls(t *testing.T) {
	r := newRenderer(t)

	out, err := r.RenderForm(context.Background(), render.FormPage{
		Token:      "tok123",
		Definition: testDefinition(),
		Brand:      brand.Default(),
	})
	if err != nil {
		t.Fatalf("render form: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		`<form id="intake-form" data-token="tok123"`,
		`<input type="text" name="business_name" required`,
		`placeholder="Acme Pty Ltd"`,
		`<textarea name="brief"`,
		`<option value="Shopify" selected>Shopify</option>`,
		`<option value="">Select...</option>`,
		`<input type="checkbox" name="services" value="Design"`,
		`<h1 class="text-2xl font-bold text-gray-900 mt-4 mb-2">Welcome</h1>`,
		`<strong>carefully</strong>`,
		`Website Intake - Platform21`,
		`--brand: #1e3a5f;`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("form page missing %q", want)
		}
	}
}

func TestRenderFormOmitsUploaderWithoutFileFields(t *testing.T) {
	r := newRenderer(t)

	out, err := r.RenderForm(context.Background(), render.FormPage{
		Token:      "tok123",
		Definition: testDefinition(),
		Brand:      brand.Default(),
	})
	if err != nil {
		t.Fatalf("render form: %v", err)
	}
	html := string(out)

	if strings.Contains(html, "file-upload-zone") {
		t.Fatal("no upload zone expected")
	}
	if strings.Contains(html, "MAX_FILE_BYTES") {
		t.Fatal("uploader runtime should not ship without file fields")
	}
	if !strings.Contains(html, "IntakeRuntime") {
		t.Fatal("core runtime must always ship")
	}
}

func TestRenderFormIncludesUploaderForFileFields(t *testing.T) {
	r := newRenderer(t)

	def := testDefinition()
	def.Sections[0].Fields = append(def.Sections[0].Fields, schema.Field{
		Label: "Photos", Type: schema.FieldTypeFile, Name: "photos",
	})
	def.Normalize()

	out, err := r.RenderForm(context.Background(), render.FormPage{
		Token:      "tok123",
		Definition: def,
		Brand:      brand.Default(),
	})
	if err != nil {
		t.Fatalf("render form: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		`data-field-id="photos"`,
		`data-category="photo"`,
		`data-accept="image/*"`,
		`data-upload-input="photos"`,
		`data-file-list="photos"`,
		"MAX_FILE_BYTES",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("form page missing %q", want)
		}
	}
}

func TestRenderFormAppliesValueOverrides(t *testing.T) {
	r := newRenderer(t)

	out, err := r.RenderForm(context.Background(), render.FormPage{
		Token:      "tok123",
		Definition: testDefinition(),
		Brand:      brand.Default(),
		Values: map[string]any{
			"business_name": "EcoMow",
			"platform":      "WordPress",
			"services":      []string{"Build"},
		},
	})
	if err != nil {
		t.Fatalf("render form: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		`name="business_name" required value="EcoMow"`,
		`<option value="WordPress" selected>`,
		`value="Build" checked`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("form page missing %q", want)
		}
	}
	if strings.Contains(html, `value="Design" checked`) {
		t.Error("unchecked option rendered as checked")
	}
}

func TestRenderFormEscapesFieldText(t *testing.T) {
	r := newRenderer(t)

	def := schema.FormDefinition{
		Title: "T",
		Sections: []schema.Section{{Fields: []schema.Field{
			{Label: `<b>Label</b>`, Type: schema.FieldTypeText, Name: "x", Value: `"quoted" & <tagged>`},
		}}},
	}
	def.Normalize()

	out, err := r.RenderForm(context.Background(), render.FormPage{
		Token: "t", Definition: def, Brand: brand.Default(),
	})
	if err != nil {
		t.Fatalf("render form: %v", err)
	}
	html := string(out)

	if strings.Contains(html, "<b>Label</b>") {
		t.Fatal("label markup not escaped")
	}
	if !strings.Contains(html, "&lt;b&gt;Label&lt;/b&gt;") {
		t.Fatal("expected escaped label")
	}
	if strings.Contains(html, `value=""quoted"`) {
		t.Fatal("attribute value not escaped")
	}
}

func TestRenderFormSanitizesContentScripts(t *testing.T) {
	r := newRenderer(t)

	def := schema.FormDefinition{
		Title: "T",
		Sections: []schema.Section{{Fields: []schema.Field{
			{Label: "Notes", Type: schema.FieldTypeContent, Value: "hello [x](javascript:alert(1))"},
		}}},
	}
	def.Normalize()

	out, err := r.RenderForm(context.Background(), render.FormPage{
		Token: "t", Definition: def, Brand: brand.Default(),
	})
	if err != nil {
		t.Fatalf("render form: %v", err)
	}
	if strings.Contains(string(out), "javascript:alert") {
		t.Fatal("script URL survived sanitization")
	}
}

func TestRenderFormDeterministic(t *testing.T) {
	r := newRenderer(t)
	page := render.FormPage{Token: "tok", Definition: testDefinition(), Brand: brand.Default()}

	first, err := r.RenderForm(context.Background(), page)
	if err != nil {
		t.Fatalf("render form: %v", err)
	}
	second, err := r.RenderForm(context.Background(), page)
	if err != nil {
		t.Fatalf("render form: %v", err)
	}
	if string(first) != string(second) {
		t.Fatal("render output differs between identical calls")
	}
}

func TestRenderPasswordGate(t *testing.T) {
	r := newRenderer(t)

	out, err := r.RenderPasswordGate(context.Background(), render.GatePage{
		Token: "tok123", Brand: brand.Default(),
	})
	if err != nil {
		t.Fatalf("render gate: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `action="/tok123/verify"`) {
		t.Fatal("gate form action missing token")
	}
	if strings.Contains(html, "Incorrect password") {
		t.Fatal("error banner rendered without error")
	}

	out, err = r.RenderPasswordGate(context.Background(), render.GatePage{
		Token: "tok123", Brand: brand.Default(), Error: true,
	})
	if err != nil {
		t.Fatalf("render gate with error: %v", err)
	}
	if !strings.Contains(string(out), "Incorrect password") {
		t.Fatal("error banner missing")
	}
}

func TestRenderThanks(t *testing.T) {
	r := newRenderer(t)

	out, err := r.RenderThanks(context.Background(), render.ThanksPage{
		ProjectName: "Acme Relaunch", Brand: brand.ForHost("ecomow.test"),
	})
	if err != nil {
		t.Fatalf("render thanks: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "Acme Relaunch") {
		t.Fatal("project name missing")
	}
	if !strings.Contains(html, "EcoMow") {
		t.Fatal("brand name missing")
	}
}

func TestRenderCancelledContext(t *testing.T) {
	r := newRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.RenderForm(ctx, render.FormPage{Definition: testDefinition(), Brand: brand.Default()}); err == nil {
		t.Fatal("expected context error")
	}
}
