// Package view renders the site's HTML pages from embedded html/template
// files. It implements fiber.Views so handlers can call c.Render.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"
)

//go:embed templates/*.html
var embedded embed.FS

const baseTemplate = "base.html"

// PageData is handed to every page template.
type PageData struct {
	SiteTitle string
	PageTitle string
	BaseURL   string
	Path      string
	Year      int
	Data      any
}

// Renderer holds one parsed template set per page, each layered over base.html.
type Renderer struct {
	fsys  fs.FS
	pages map[string]*template.Template
}

// New returns a Renderer over the embedded templates.
func New() *Renderer {
	sub, _ := fs.Sub(embedded, "templates")
	return NewFS(sub)
}

// NewFS returns a Renderer reading templates from fsys.
func NewFS(fsys fs.FS) *Renderer {
	return &Renderer{fsys: fsys}
}

var funcs = template.FuncMap{
	"lower": strings.ToLower,
	"deref": func(p any) any {
		switch v := p.(type) {
		case *int:
			if v != nil {
				return *v
			}
		case *string:
			if v != nil {
				return *v
			}
		}
		return ""
	},
	"date": func(layout, s string) string {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return s
		}
		return t.Format(layout)
	},
}

// Load parses base.html together with each page template.
func (r *Renderer) Load() error {
	base, err := template.New(baseTemplate).Funcs(funcs).ParseFS(r.fsys, baseTemplate)
	if err != nil {
		return fmt.Errorf("parse %s: %w", baseTemplate, err)
	}

	files, err := fs.Glob(r.fsys, "*.html")
	if err != nil {
		return err
	}
	pages := make(map[string]*template.Template, len(files))
	for _, f := range files {
		if f == baseTemplate {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return err
		}
		t, err := clone.ParseFS(r.fsys, f)
		if err != nil {
			return fmt.Errorf("parse %s: %w", f, err)
		}
		pages[strings.TrimSuffix(path.Base(f), ".html")] = t
	}
	r.pages = pages
	return nil
}

// Render executes the named page inside the base layout. Extra layout
// arguments from fiber are ignored.
func (r *Renderer) Render(w io.Writer, name string, binding any, _ ...string) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, baseTemplate, binding)
}

// Pages lists the loaded page names.
func (r *Renderer) Pages() []string {
	out := make([]string, 0, len(r.pages))
	for name := range r.pages {
		out = append(out, name)
	}
	return out
}
