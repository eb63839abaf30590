// Package module mounts isolated HTTP handlers under single-segment path prefixes.
// Each module owns its middleware chain and sees request paths with the prefix removed.
package module

import (
	"fmt"
	"net/http"
	"strings"
)

// Module is an http.Handler mounted at a fixed prefix such as "/api".
type Module struct {
	prefix     string
	handler    http.Handler
	middleware []func(http.Handler) http.Handler
}

// New creates a module. It panics when prefix is not a single path segment
// starting with "/", since that is a wiring error caught at startup.
func New(prefix string, handler http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:  prefix,
		handler: handler,
	}
}

func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware. The first registered middleware runs outermost.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware = append(m.middleware, mw)
}

// Handler returns the module handler wrapped in its middleware chain.
func (m *Module) Handler() http.Handler {
	h := m.handler
	for i := len(m.middleware) - 1; i >= 0; i-- {
		h = m.middleware[i](h)
	}
	return h
}

// Serve strips the module prefix from the request path and dispatches it.
func (m *Module) Serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, m.prefix)
	if path == "" {
		path = "/"
	}

	req := r.Clone(r.Context())
	req.URL.Path = path
	req.URL.RawPath = ""

	m.Handler().ServeHTTP(w, req)
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("module prefix required")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module prefix %q must start with /", prefix)
	}
	if strings.Count(prefix, "/") != 1 {
		return fmt.Errorf("module prefix %q must be a single path segment", prefix)
	}
	return nil
}
