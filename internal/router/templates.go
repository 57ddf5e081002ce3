package router

import (
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"inkwell/internal/utils"

	"github.com/gin-contrib/multitemplate"
)

// views are rendered inside the base layout with the shared includes.
var views = []string{
	"index.html",
	"post.html",
	"login.html",
	"register.html",
	"make-post.html",
	"about.html",
	"contact.html",
	"error.html",
}

func templateFuncs(siteName string) template.FuncMap {
	return template.FuncMap{
		"siteName": func() string { return siteName },
		"year":     func() int { return time.Now().Year() },
		"gravatar": utils.GravatarURL,
		"initial":  utils.Initial,
		"fieldError": func(errs map[string]string, field string) string {
			return errs[field]
		},
	}
}

// loadTemplates builds one template set per view from fsys, which holds the
// templates/ tree.
func loadTemplates(fsys fs.FS, siteName string) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()
	funcs := templateFuncs(siteName)

	for _, view := range views {
		tmpl, err := template.New("base.html").Funcs(funcs).ParseFS(fsys,
			"templates/layouts/base.html",
			"templates/includes/*.html",
			"templates/views/"+view,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", view, err)
		}
		r.Add(view, tmpl)
	}
	return r, nil
}
