package bridge

import theme "github.com/goliatone/go-theme"

// defaultThemeTokens mirror the host application's design tokens so embedded
// documents match the native chrome around them.
var defaultThemeTokens = map[string]string{
	"primary":          "#FF6B9D",
	"primary-dark":     "#C44569",
	"secondary":        "#2ECC71",
	"success":          "#2ECC71",
	"error":            "#E74C3C",
	"warning":          "#F39C12",
	"background":       "#F5F6FA",
	"surface":          "#FFFFFF",
	"border":           "#E8E9EA",
	"text-primary":     "#2C3E50",
	"text-secondary":   "#7F8C8D",
	"text-placeholder": "#BDC3C7",
}

// DefaultTheme returns the built-in theme as a resolved renderer
// configuration.
func DefaultTheme() *theme.RendererConfig {
	manifest := &theme.Manifest{
		Name:    "formhost",
		Version: "1.0.0",
		Tokens:  defaultThemeTokens,
	}
	return RendererConfig(&theme.Selection{
		Theme:    manifest.Name,
		Manifest: manifest,
	})
}

// RendererConfig derives a renderer configuration from a go-theme selection:
// theme and variant names pass through and manifest tokens become CSS custom
// properties.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil {
		return nil
	}
	cfg := &theme.RendererConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
	}
	if selection.Manifest != nil && len(selection.Manifest.Tokens) > 0 {
		cfg.Tokens = selection.Manifest.Tokens
		cfg.CSSVars = make(map[string]string, len(cfg.Tokens))
		for name, value := range cfg.Tokens {
			cfg.CSSVars["--"+name] = value
		}
	}
	return cfg
}
