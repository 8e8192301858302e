package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// View represents a collection of parsed HTML templates.
type View struct {
	templates map[string]*template.Template
}

// funcMap holds the helpers available to every template.
var funcMap = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Format("January 2, 2006")
	},
	"formatDatePtr": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("January 2, 2006")
	},
	// humanize turns a slug like "meta-ads" into "Meta Ads".
	"humanize": func(s string) string {
		words := strings.Split(strings.ReplaceAll(s, "-", " "), " ")
		for i, w := range words {
			if w != "" {
				words[i] = strings.ToUpper(w[:1]) + w[1:]
			}
		}
		return strings.Join(words, " ")
	},
}

// New creates a new View by parsing all templates from the given filesystem.
// Each page under templates/pages is parsed together with every layout under
// templates/layouts.
func New(templateFS fs.FS) (*View, error) {
	v := &View{
		templates: make(map[string]*template.Template),
	}

	layouts, err := fs.Glob(templateFS, "templates/layouts/*.html")
	if err != nil {
		return nil, err
	}

	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		files := append(append([]string{}, layouts...), page)
		// The name of the template is the base name of the page file
		name := filepath.Base(page)
		ts, err := template.New(name).Funcs(funcMap).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		v.templates[name] = ts
	}

	return v, nil
}

// Render executes a specific template by name. The template is executed into
// a buffer first so a mid-render error never leaves a half-written response.
func (v *View) Render(w io.Writer, r *http.Request, name string, data map[string]interface{}) error {
	ts, ok := v.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	if data == nil {
		data = make(map[string]interface{})
	}

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		return err
	}

	_, err := buf.WriteTo(w)
	return err
}
