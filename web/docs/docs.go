// Package docs serves the interactive API reference rendered by Scalar from
// the API module's OpenAPI document.
package docs

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/harshad-dhokane/new-docx/pkg/module"
)

//go:embed index.html
var indexHTML string

var index = template.Must(template.New("index").Parse(indexHTML))

// NewModule mounts the reference page at prefix. specURL is the absolute
// path of the OpenAPI document, e.g. /api/openapi.json.
func NewModule(prefix, title, specURL string) (*module.Module, error) {
	var buf bytes.Buffer
	if err := index.Execute(&buf, map[string]string{
		"Title":   title,
		"SpecURL": specURL,
	}); err != nil {
		return nil, err
	}
	page := buf.Bytes()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(page)
	})

	return module.New(prefix, mux), nil
}
