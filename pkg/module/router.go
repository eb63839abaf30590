package module

import (
	"net/http"
	"strings"
)

// Router dispatches to mounted modules by first path segment and falls back
// to a native ServeMux for everything else (health probes, root routes).
type Router struct {
	native  *http.ServeMux
	modules map[string]*Module
}

func NewRouter() *Router {
	return &Router{
		native:  http.NewServeMux(),
		modules: make(map[string]*Module),
	}
}

// HandleNative registers a pattern on the fallback mux.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

func (r *Router) Mount(m *Module) {
	r.modules[m.Prefix()] = m
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := normalizePath(req.URL.Path)
	if path != req.URL.Path {
		req.URL.Path = path
		req.URL.RawPath = ""
	}

	if m, ok := r.modules[firstSegment(path)]; ok {
		m.Serve(w, req)
		return
	}

	r.native.ServeHTTP(w, req)
}

func normalizePath(path string) string {
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		return strings.TrimRight(path, "/")
	}
	return path
}

func firstSegment(path string) string {
	rest := strings.TrimPrefix(path, "/")
	if i := strings.Index(rest, "/"); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return ""
	}
	return "/" + rest
}
