package api

import (
	"net/http"

	"github.com/harshad-dhokane/new-docx/internal/activity"
	"github.com/harshad-dhokane/new-docx/internal/artifacts"
	"github.com/harshad-dhokane/new-docx/internal/config"
	"github.com/harshad-dhokane/new-docx/internal/converter"
	"github.com/harshad-dhokane/new-docx/internal/templates"
	"github.com/harshad-dhokane/new-docx/pkg/openapi"
	"github.com/harshad-dhokane/new-docx/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	spec *openapi.Spec,
	runtime *Runtime,
	domain *Domain,
	cfg *config.Config,
) {
	converterHandler := converter.NewHandler(runtime.Converter, runtime.Logger, runtime.MaxUploadSize)
	templatesHandler := templates.NewHandler(domain.Templates, runtime.Logger, runtime.Pagination, runtime.MaxUploadSize)
	artifactsHandler := artifacts.NewHandler(domain.Artifacts, runtime.Logger, runtime.Pagination, runtime.MaxUploadSize)
	activityHandler := activity.NewHandler(domain.Activity, runtime.Logger, runtime.Pagination)

	spec.Components.AddSchemas(converter.Spec.Schemas())
	spec.Components.AddSchemas(templates.Spec.Schemas())
	spec.Components.AddSchemas(artifacts.Spec.Schemas())
	spec.Components.AddSchemas(activity.Spec.Schemas())

	routes.Register(
		mux,
		cfg.API.BasePath,
		spec,
		converterHandler.Routes(),
		templatesHandler.Routes(),
		artifactsHandler.Routes(),
		activityHandler.Routes(),
	)
}
