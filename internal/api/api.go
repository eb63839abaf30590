// Package api assembles the HTTP API module: domain systems, their handlers,
// the generated OpenAPI document, and the module middleware chain.
package api

import (
	"net/http"

	"github.com/harshad-dhokane/new-docx/internal/config"
	"github.com/harshad-dhokane/new-docx/internal/infrastructure"
	"github.com/harshad-dhokane/new-docx/pkg/middleware"
	"github.com/harshad-dhokane/new-docx/pkg/module"
	"github.com/harshad-dhokane/new-docx/pkg/openapi"
)

// NewModule builds the API module mounted at cfg.API.BasePath.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.AddServer(cfg.Domain)
	cfg.API.OpenAPI.Apply(spec)

	mux := http.NewServeMux()
	registerRoutes(mux, spec, runtime, domain, cfg)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.TrimSlash())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
