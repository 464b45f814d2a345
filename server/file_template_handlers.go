package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"

	"github.com/shopspring/decimal"
)

//go:embed templates/*
var templateFiles embed.FS

const layoutTemplate = "layout.html"

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return "$" + d.StringFixed(2)
	},
	"lineTotal": func(price decimal.Decimal, quantity int) string {
		return "$" + price.Mul(decimal.NewFromInt(int64(quantity))).StringFixed(2)
	},
}

// parsePages builds one template set per page: the shared layout (navbar,
// footer) plus that page's "content" block.
func parsePages() (map[string]*template.Template, error) {
	fsys := TemplateFilesFS()

	base, err := template.New(layoutTemplate).Funcs(templateFuncs).ParseFS(fsys, layoutTemplate, "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	names, err := fs.Glob(fsys, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		page, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := page.ParseFS(fsys, name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[path.Base(name)] = page
	}
	return pages, nil
}
