package module_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harshad-dhokane/new-docx/pkg/module"
)

func pathEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Path))
	})
}

func TestNew_InvalidPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"empty", ""},
		{"no leading slash", "api"},
		{"multi level", "/api/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%q) did not panic", tt.prefix)
				}
			}()
			module.New(tt.prefix, pathEcho())
		})
	}
}

func TestModule_Serve(t *testing.T) {
	m := module.New("/api", pathEcho())

	tests := []struct {
		path     string
		wantPath string
	}{
		{"/api", "/"},
		{"/api/templates", "/templates"},
		{"/api/templates/123", "/templates/123"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			m.Serve(w, req)

			body, _ := io.ReadAll(w.Result().Body)
			if string(body) != tt.wantPath {
				t.Errorf("path = %q, want %q", string(body), tt.wantPath)
			}
		})
	}
}

func TestModule_MiddlewareOrder(t *testing.T) {
	var order []string

	m := module.New("/api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	for _, name := range []string{"first", "second"} {
		m.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	m.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	expected := []string{"first", "second", "handler"}
	if len(order) != len(expected) {
		t.Fatalf("order length = %d, want %d", len(order), len(expected))
	}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("order[%d] = %q, want %q", i, order[i], v)
		}
	}
}

func TestRouter(t *testing.T) {
	r := module.NewRouter()
	r.HandleNative("GET /healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("healthy"))
	})
	r.Mount(module.New("/api", pathEcho()))

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"native fallback", "/healthz", http.StatusOK, "healthy"},
		{"module root", "/api", http.StatusOK, "/"},
		{"trailing slash stripped", "/api/templates/", http.StatusOK, "/templates"},
		{"module root with slash", "/api/", http.StatusOK, "/"},
		{"unmatched", "/unknown", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			resp := w.Result()
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tt.wantBody {
					t.Errorf("body = %q, want %q", string(body), tt.wantBody)
				}
			}
		})
	}
}
