// Package web holds the HTML templates of the site.
package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/yigit/vitrine/internal/pkg/helpers"
)

//go:embed templates
var templateFS embed.FS

// FuncMap returns the helpers available to every template
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time) string {
			return helpers.FormatDataHora(t)
		},
		"add": func(a, b int) int {
			return a + b
		},
	}
}

// Templates parses every embedded page. Pages are named by their path
// below templates/, e.g. "aluno/listagem.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS,
		"templates/*.html",
		"templates/*/*.html",
	)
}
