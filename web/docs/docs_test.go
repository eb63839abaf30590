package docs_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/harshad-dhokane/new-docx/pkg/module"
	"github.com/harshad-dhokane/new-docx/web/docs"
)

func TestNewModule(t *testing.T) {
	m, err := docs.NewModule("/docs", "Docgen API", "/api/openapi.json")
	if err != nil {
		t.Fatalf("NewModule() failed: %v", err)
	}

	router := module.NewRouter()
	router.Mount(m)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `data-url="/api/openapi.json"`) {
		t.Errorf("body does not reference the spec URL: %s", body)
	}
	if !strings.Contains(body, "<title>Docgen API</title>") {
		t.Errorf("body missing title: %s", body)
	}
}
