package bridge

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formhost/pkg/formio"
)

const (
	// DefaultRendererURL is the hosted renderer script embedded documents load.
	DefaultRendererURL = "https://cdn.jsdelivr.net/npm/formiojs@4.21.3/dist/formio.full.min.js"
	// DefaultStylesheetURL is the base stylesheet the renderer expects.
	DefaultStylesheetURL = "https://cdn.jsdelivr.net/npm/bootstrap@5.1.3/dist/css/bootstrap.min.css"

	documentTemplate = "templates/document.html"
)

// DocumentOption customises the document builder.
type DocumentOption func(*documentConfig)

type documentConfig struct {
	readOnly         bool
	showSubmitButton bool
	rendererURL      string
	stylesheetURL    string
	theme            *theme.RendererConfig
	templateFS       fs.FS
}

// WithReadOnly renders the form in read-only mode.
func WithReadOnly(readOnly bool) DocumentOption {
	return func(cfg *documentConfig) {
		cfg.readOnly = readOnly
	}
}

// WithSubmitButton toggles the renderer's built-in submit button. Hosts that
// drive submission through RequestSubmit usually hide it.
func WithSubmitButton(show bool) DocumentOption {
	return func(cfg *documentConfig) {
		cfg.showSubmitButton = show
	}
}

// WithRendererURL overrides the hosted renderer script location.
func WithRendererURL(url string) DocumentOption {
	return func(cfg *documentConfig) {
		if url != "" {
			cfg.rendererURL = url
		}
	}
}

// WithStylesheetURL overrides the base stylesheet location.
func WithStylesheetURL(url string) DocumentOption {
	return func(cfg *documentConfig) {
		if url != "" {
			cfg.stylesheetURL = url
		}
	}
}

// WithTheme injects a resolved go-theme configuration; its tokens surface as
// CSS custom properties on the document root.
func WithTheme(cfg *theme.RendererConfig) DocumentOption {
	return func(dc *documentConfig) {
		dc.theme = cfg
	}
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) DocumentOption {
	return func(cfg *documentConfig) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// DocumentBuilder produces self-contained HTML documents that embed a form
// definition plus initial data as JSON literals, wire the hosted renderer to
// the message channel, and carry the theme's CSS variables. Whatever
// definition it embeds must survive a JSON round trip unchanged.
type DocumentBuilder struct {
	cfg    documentConfig
	tmpl   *pongo2.Template
	policy *bluemonday.Policy
}

// NewDocument constructs a DocumentBuilder applying any provided options.
func NewDocument(options ...DocumentOption) (*DocumentBuilder, error) {
	cfg := documentConfig{
		showSubmitButton: true,
		rendererURL:      DefaultRendererURL,
		stylesheetURL:    DefaultStylesheetURL,
		templateFS:       TemplatesFS(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	set := pongo2.NewSet("formhost", pongo2.NewFSLoader(cfg.templateFS))
	tmpl, err := set.FromFile(documentTemplate)
	if err != nil {
		return nil, fmt.Errorf("bridge: load document template: %w", err)
	}

	return &DocumentBuilder{
		cfg:    cfg,
		tmpl:   tmpl,
		policy: bluemonday.UGCPolicy(),
	}, nil
}

// Render produces the document for one form with optional initial data.
// json.Marshal escapes <, > and & inside strings, so the embedded literals
// cannot terminate the surrounding script element.
func (d *DocumentBuilder) Render(form formio.Form, initial formio.Data) (string, error) {
	formJSON, err := json.Marshal(form)
	if err != nil {
		return "", fmt.Errorf("bridge: encode form definition: %w", err)
	}
	if initial == nil {
		initial = formio.Data{}
	}
	dataJSON, err := json.Marshal(initial)
	if err != nil {
		return "", fmt.Errorf("bridge: encode initial data: %w", err)
	}

	ctx := pongo2.Context{
		"title":          d.policy.Sanitize(form.Title),
		"form_id":        form.ID,
		"form_json":      string(formJSON),
		"data_json":      string(dataJSON),
		"read_only":      jsBool(d.cfg.readOnly),
		"show_submit":    jsBool(d.cfg.showSubmitButton),
		"renderer_url":   d.cfg.rendererURL,
		"stylesheet_url": d.cfg.stylesheetURL,
		"theme_css":      themeCSS(d.cfg.theme),
	}

	out, err := d.tmpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("bridge: render document: %w", err)
	}
	return out, nil
}

func jsBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// themeCSS renders a :root block of CSS custom properties from the theme
// configuration. Explicit CSSVars win; otherwise variables derive from the
// token map with a leading "--".
func themeCSS(cfg *theme.RendererConfig) string {
	if cfg == nil {
		return ""
	}

	vars := cfg.CSSVars
	if len(vars) == 0 && len(cfg.Tokens) > 0 {
		vars = make(map[string]string, len(cfg.Tokens))
		for name, value := range cfg.Tokens {
			key := name
			if !strings.HasPrefix(key, "--") {
				key = "--" + key
			}
			vars[key] = value
		}
	}
	if len(vars) == 0 {
		return ""
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %s: %s;\n", name, vars[name])
	}
	b.WriteString("}")
	return b.String()
}
