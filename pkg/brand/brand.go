// Package brand resolves the white-label identity an intake page renders
// under. Brands are keyed by request hostname and exposed as go-theme
// manifests so renderers consume colour tokens the same way regardless of
// where a brand is defined.
package brand

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Brand describes one white-label identity.
type Brand struct {
	Name          string
	Tagline       string
	Footer        string
	PrimaryColour string
	TitleSuffix   string
}

var platform21 = Brand{
	Name:          "Platform21",
	Tagline:       "Secure Client Intake",
	Footer:        "Platform21 &middot; South East Queensland",
	PrimaryColour: "#1e3a5f",
	TitleSuffix:   "Platform21",
}

var ecomow = Brand{
	Name:          "EcoMow",
	Tagline:       "Secure Client Intake",
	Footer:        "EcoMow Sustainable Gardening &middot; South East Queensland",
	PrimaryColour: "#ef382a",
	TitleSuffix:   "EcoMow",
}

// Default returns the fallback brand used when no hostname matches.
func Default() Brand {
	return platform21
}

// All lists every registered brand, default first.
func All() []Brand {
	return []Brand{platform21, ecomow}
}

// ForHost picks the brand for a request hostname. Unknown or empty hosts fall
// back to the default brand.
func ForHost(host string) Brand {
	if strings.Contains(strings.ToLower(host), "ecomow") {
		return ecomow
	}
	return platform21
}

// Manifest expresses the brand as a go-theme manifest. Token names mirror the
// CSS custom properties pages rely on.
func (b Brand) Manifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    strings.ToLower(b.Name),
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": b.PrimaryColour,
		},
	}
}

// Selection wraps the brand manifest in a resolved go-theme selection, the
// shape renderers receive.
func (b Brand) Selection() *theme.Selection {
	return &theme.Selection{
		Theme:    strings.ToLower(b.Name),
		Manifest: b.Manifest(),
	}
}

// CSSVars derives CSS custom properties from the brand's theme tokens.
func (b Brand) CSSVars() map[string]string {
	manifest := b.Manifest()
	vars := make(map[string]string, len(manifest.Tokens))
	for token, value := range manifest.Tokens {
		vars["--"+token] = value
	}
	return vars
}

// ThemeProvider registers every brand manifest in a go-theme registry so theme
// aware tooling can resolve brands by name.
func ThemeProvider() (theme.ThemeProvider, error) {
	registry := theme.NewRegistry()
	for _, b := range All() {
		if err := registry.Register(b.Manifest()); err != nil {
			return nil, fmt.Errorf("brand: register %s theme: %w", b.Name, err)
		}
	}
	return registry, nil
}
