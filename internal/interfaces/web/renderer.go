package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer pinta la página con html/template (escape contextual de todo el texto).
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer compila las plantillas embebidas.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("page").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: plantillas: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render escribe la página completa en w.
func (r *Renderer) Render(w io.Writer, v PageView) error {
	return r.tmpl.ExecuteTemplate(w, "page.html", v)
}

// RenderLogin escribe la página de conexión en w.
func (r *Renderer) RenderLogin(w io.Writer, v LoginView) error {
	return r.tmpl.ExecuteTemplate(w, "login.html", v)
}
