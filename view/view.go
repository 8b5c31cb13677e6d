// Package view holds the HTML templates of the three screens.
//
// The templates only render what the handlers hand them;
// no state lives here.
package view

import (
	"embed"
	"fmt"
	"html/template"

	"mehearsal/model"

	"github.com/Masterminds/sprig"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names, for gin's c.HTML.
const (
	Catalog = "catalog.html"
	Studio  = "studio.html"
	Results = "results.html"
)

// Templates parses the embedded templates.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("base").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("view.Templates: could not create templates: %w", err)
	}
	return tmpl, nil
}

// MustTemplates is Templates for program start.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// FuncMap is sprig plus the studio's own helpers.
func FuncMap() template.FuncMap {
	fm := sprig.HtmlFuncMap()
	fm["clock"] = model.FormatClock
	fm["grade"] = model.Grade
	fm["tier"] = model.TierOf
	fm["kind"] = KindLabel
	return fm
}

// KindLabel turns an instrument kind tag into a display label: "saxophone" -> "Saxophone".
// A Caser keeps state between calls, so each call gets its own.
func KindLabel(kind string) string {
	return cases.Title(language.English).String(kind)
}
