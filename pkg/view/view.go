package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/signup-verify-email/pkg/i18n"
)

const (
	SignupTemplate        = "signup"
	ResetPasswordTemplate = "reset_password"
)

//go:embed templates/*.html
var templateFiles embed.FS

// RenderContext is the data a page is executed against. Keys used by the
// templates: error, message, csrf_token, token, login, name, lang,
// password_signup.
type RenderContext map[string]any

// Renderer executes a named page template.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, name string, data RenderContext) error
}

// TemplateRenderer renders the embedded pages and translates their text into
// the language stored under "lang" in the render context.
type TemplateRenderer struct {
	pages   map[string]*template.Template
	catalog *i18n.Catalog
}

// New parses the embedded templates.
func New(catalog *i18n.Catalog) (*TemplateRenderer, error) {
	if catalog == nil {
		catalog = i18n.New(i18n.DefaultLang)
	}
	funcs := template.FuncMap{
		// replaced per request in Render
		"t": func(s string) string { return s },
	}
	pages := make(map[string]*template.Template)
	for _, name := range []string{SignupTemplate, ResetPasswordTemplate} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFiles, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &TemplateRenderer{pages: pages, catalog: catalog}, nil
}

// Render writes page name as HTML. The status code is taken from
// render.Status when the handler set one.
func (tr *TemplateRenderer) Render(w http.ResponseWriter, r *http.Request, name string, data RenderContext) error {
	page, ok := tr.pages[name]
	if !ok {
		return fmt.Errorf("unknown template: %s", name)
	}
	if data == nil {
		data = RenderContext{}
	}
	lang, _ := data["lang"].(string)
	if !tr.catalog.Supported(lang) {
		lang = tr.catalog.Default()
		data["lang"] = lang
	}
	for _, key := range []string{"csrf_token", "token", "login", "name"} {
		if _, ok := data[key]; !ok {
			data[key] = ""
		}
	}

	tmpl, err := page.Clone()
	if err != nil {
		return err
	}
	tmpl.Funcs(template.FuncMap{
		"t": func(s string) string { return tr.catalog.T(lang, s) },
	})

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		slog.Error("Failed to execute template", "template", name, "error", err)
		return err
	}
	render.HTML(w, r, buf.String())
	return nil
}
