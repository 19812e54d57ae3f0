package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/pusdatin-klh/sinta-admin-web/internal/session"
	pkgerrors "github.com/pusdatin-klh/sinta-admin-web/pkg/errors"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/logger"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Page is the data every template receives. Controllers fill the typed Data
// slot; the layout reads the rest.
type Page struct {
	Title   string
	Active  string
	Session *session.Session
	Error   string
	Fields  map[string]string
	Flash   string
	Data    any
}

// Field returns the validation message for a form field, if any.
func (p Page) Field(name string) string {
	return p.Fields[name]
}

// Renderer executes named page templates against the shared layout.
type Renderer struct {
	templates map[string]*template.Template
	logg      *logger.Logger
}

func NewRenderer(logg *logger.Logger) (*Renderer, error) {
	names, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("reading templates: %w", err)
	}

	set := make(map[string]*template.Template)
	for _, entry := range names {
		name := entry.Name()
		if name == "layout.tmpl" {
			continue
		}
		tmpl, err := template.New("layout.tmpl").Funcs(funcMap).ParseFS(templateFS, "templates/layout.tmpl", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		set[name] = tmpl
	}
	return &Renderer{templates: set, logg: logg}, nil
}

var funcMap = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	"seq": func(from, to int) []int {
		if to < from {
			return nil
		}
		out := make([]int, 0, to-from+1)
		for i := from; i <= to; i++ {
			out = append(out, i)
		}
		return out
	},
}

// Render writes the page with the given status. The template executes into a
// buffer first so a render failure becomes an error page, not a torn body.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	tmpl, ok := v.templates[name]
	if !ok {
		v.fail(w, r, fmt.Errorf("unknown template %q", name))
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.tmpl", page); err != nil {
		v.fail(w, r, fmt.Errorf("rendering %s: %w", name, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// RenderError draws the error page with the localized message for the code.
func (v *Renderer) RenderError(w http.ResponseWriter, r *http.Request, err error) {
	status := pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).HTTPStatus
	v.Render(w, r, status, "error.tmpl", Page{
		Title: "Terjadi Kesalahan",
		Data:  pkgerrors.UserMessage(err),
	})
}

func (v *Renderer) fail(w http.ResponseWriter, r *http.Request, err error) {
	if v.logg != nil {
		v.logg.Error(r.Context(), "template.render.failed", err)
	}
	http.Error(w, "Terjadi kesalahan sistem.", http.StatusInternalServerError)
}
