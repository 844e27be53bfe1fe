package template_test

import (
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-intake/pkg/render/template"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"page.html": &fstest.MapFile{Data: []byte(`Hello {{ name }}!`)},
		"base.html": &fstest.MapFile{Data: []byte(`<b>{% block content %}{% endblock %}</b>`)},
	}
}

func TestEngineRequiresFS(t *testing.T) {
	if _, err := template.New(); err == nil {
		t.Fatal("expected error without a template source")
	}
}

func TestRenderTemplate(t *testing.T) {
	engine, err := template.New(template.WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderTemplate("page", map[string]any{"name": "world"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "Hello world!"; out != want {
		t.Fatalf("render = %q, want %q", out, want)
	}
}

func TestRenderTemplateMissing(t *testing.T) {
	engine, err := template.New(template.WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if _, err := engine.RenderTemplate("nope", nil); err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestRenderTemplateGlobals(t *testing.T) {
	engine, err := template.New(
		template.WithFS(testFS()),
		template.WithGlobals(map[string]any{"name": "globals"}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderTemplate("page", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "Hello globals!"; out != want {
		t.Fatalf("render = %q, want %q", out, want)
	}
}

func TestRenderString(t *testing.T) {
	engine, err := template.New(template.WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderString(`{{ n }}-{{ n }}`, map[string]any{"n": 7})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if want := "7-7"; out != want {
		t.Fatalf("render = %q, want %q", out, want)
	}
}
