// Package web holds the server-rendered page templates.
package web

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates
var templatesFS embed.FS

var funcs = template.FuncMap{
	// eqs compares by string form so typed enums match literals.
	"eqs": func(a, b interface{}) bool {
		return fmt.Sprint(a) == fmt.Sprint(b)
	},
}

// Templates parses every page. Pages are addressed by their define name, e.g. "user/login".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*/*.tmpl")
}
