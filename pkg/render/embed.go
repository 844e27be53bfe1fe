package render

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

//go:embed assets/*.js
var embeddedAssets embed.FS

// TemplatesFS exposes the built-in page templates so callers can serve or
// extend them without re-authoring the bundle.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// RuntimeAssetsFS exposes the committed browser runtime scripts.
func RuntimeAssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// runtimeScript concatenates the runtime bundles a form page needs. Forms
// without file fields skip the uploader entirely; the core runtime behaves
// identically either way.
func runtimeScript(withUploader bool) (string, error) {
	names := []string{"form-runtime.js"}
	if withUploader {
		names = append(names, "uploader.js")
	}

	parts := make([]string, 0, len(names))
	for _, name := range names {
		data, err := embeddedAssets.ReadFile("assets/" + name)
		if err != nil {
			return "", fmt.Errorf("render: read runtime asset %s: %w", name, err)
		}
		parts = append(parts, string(data))
	}
	return strings.Join(parts, "\n"), nil
}
