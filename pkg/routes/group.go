// Package routes declares HTTP route groups and registers them on a ServeMux
// while recording their OpenAPI operations.
package routes

import (
	"net/http"

	"github.com/harshad-dhokane/new-docx/pkg/openapi"
)

// Route is a single method + pattern binding.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group represents a collection of routes under a common URL prefix.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
}

// Register binds every route of every group on mux and adds documented
// operations to spec. basePath is only used for the documented path, since
// the mux sees paths with the module prefix already removed.
func Register(mux *http.ServeMux, basePath string, spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		if spec != nil && group.Description != "" {
			spec.AddTag(group.Tags, group.Description)
		}

		for _, route := range group.Routes {
			pattern := group.Prefix + route.Pattern
			if pattern == "" {
				pattern = "/"
			}
			mux.HandleFunc(route.Method+" "+pattern, route.Handler)

			if spec == nil || route.OpenAPI == nil {
				continue
			}

			op := route.OpenAPI
			if len(op.Tags) == 0 {
				op.Tags = group.Tags
			}
			spec.AddOperation(basePath+pattern, route.Method, op)
		}
	}
}
