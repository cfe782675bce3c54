package template // import "github.com/ihsan-khan/library-management-system/internal/template"

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ihsan-khan/library-management-system/internal/log"
)

//go:embed templates/*.html
var templateFiles embed.FS

const layoutFile = "templates/layout.html"

// Pages lists every page the engine knows how to render.
var Pages = []string{
	"dashboard",
	"book_list",
	"book_detail",
	"book_form",
	"member_list",
	"member_detail",
	"member_form",
	"loan_list",
	"overdue_loans",
	"loan_issue",
	"loan_return",
	"author_list",
	"category_list",
	"search_results",
	"not_found",
	"error",
}

// Engine renders the embedded pages inside the shared layout.
type Engine struct {
	templates map[string]*template.Template
}

// NewEngine parses every page once.
func NewEngine() (*Engine, error) {
	e := &Engine{templates: make(map[string]*template.Template, len(Pages))}
	for _, page := range Pages {
		tpl, err := template.New(page).Funcs(funcMap()).ParseFS(templateFiles, layoutFile, "templates/"+page+".html")
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse template %s", page)
		}
		e.templates[page] = tpl
	}
	log.Debug("Templates parsed", zap.Int("count", len(e.templates)))
	return e, nil
}

// Render executes page with data and returns the HTML document.
func (e *Engine) Render(page string, data map[string]interface{}) ([]byte, error) {
	tpl, ok := e.templates[page]
	if !ok {
		return nil, errors.Errorf("template %s not found", page)
	}

	var b bytes.Buffer
	if err := tpl.ExecuteTemplate(&b, "layout", data); err != nil {
		return nil, errors.Wrapf(err, "failed to render template %s", page)
	}
	return b.Bytes(), nil
}
