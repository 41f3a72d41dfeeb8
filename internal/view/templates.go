package view

import (
	"fmt"
	"html/template"
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hongminglow/ets-hub/internal/dashboard"
	"github.com/hongminglow/ets-hub/internal/models"
	"github.com/hongminglow/ets-hub/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title string
	Page  dashboard.Page
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	printer := message.NewPrinter(language.Russian)
	funcMap := template.FuncMap{
		"number": func(v any) string {
			switch n := v.(type) {
			case int:
				return printer.Sprintf("%d", n)
			case float64:
				return printer.Sprintf("%.0f", n)
			}
			return fmt.Sprint(v)
		},
		"decimal": func(v float64) string {
			return printer.Sprintf("%.1f", v)
		},
		"money": func(v float64) string {
			return printer.Sprintf("%.0f", v) + " ₽"
		},
		"roleLabel": func(r models.Role) string {
			return r.Label()
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.templates.ExecuteTemplate(w, name, data)
}

// RenderPage picks the template for page.View.
func (e *Engine) RenderPage(w http.ResponseWriter, page dashboard.Page) error {
	if page.View == dashboard.ViewAdmin {
		return e.Render(w, "admin", TemplateData{Title: "Панель администратора", Page: page})
	}
	return e.Render(w, "home", TemplateData{Title: "Главная", Page: page})
}
