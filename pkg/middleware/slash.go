package middleware

import (
	"net/http"
	"strings"
)

// TrimSlash redirects requests with a trailing slash to the canonical path
// without it. The root path "/" is preserved.
func TrimSlash() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) <= 1 || !strings.HasSuffix(r.URL.Path, "/") {
				next.ServeHTTP(w, r)
				return
			}

			target := strings.TrimRight(r.URL.Path, "/")
			if target == "" {
				target = "/"
			}
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
		})
	}
}
