package main

import (
	"net/http"

	"github.com/harshad-dhokane/new-docx/internal/api"
	"github.com/harshad-dhokane/new-docx/internal/config"
	"github.com/harshad-dhokane/new-docx/internal/infrastructure"
	"github.com/harshad-dhokane/new-docx/pkg/lifecycle"
	"github.com/harshad-dhokane/new-docx/pkg/module"
	"github.com/harshad-dhokane/new-docx/web/docs"
)

type Modules struct {
	API  *module.Module
	Docs *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	docsModule, err := docs.NewModule("/docs", cfg.API.OpenAPI.Title, cfg.API.BasePath+"/openapi.json")
	if err != nil {
		return nil, err
	}

	return &Modules{
		API:  apiModule,
		Docs: docsModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Docs)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	router.HandleNative("GET /readyz", readiness(infra.Lifecycle))

	return router
}

func readiness(lc *lifecycle.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !lc.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	}
}
