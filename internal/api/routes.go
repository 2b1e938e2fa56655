package api

import (
	"net/http"

	"github.com/JaimeStill/concierge/internal/config"
	"github.com/JaimeStill/concierge/internal/telephony"
	"github.com/JaimeStill/concierge/internal/workflow"
	"github.com/JaimeStill/concierge/pkg/middleware"
	"github.com/JaimeStill/concierge/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	leadsHandler := domain.Leads.Handler()
	workflowHandler := workflow.NewHandler(
		domain.Workflow,
		runtime.Logger,
		cfg.API.MaxBodySizeBytes(),
	)

	routes.Register(
		mux,
		routes.Group{
			Middleware: []func(http.Handler) http.Handler{
				middleware.Bearer(cfg.API.Token),
			},
			Children: []routes.Group{
				workflowHandler.Routes(),
				leadsHandler.Routes(),
				leadsHandler.DashboardRoutes(),
				domain.Documents.Handler().Routes(),
			},
		},
	)
}

func registerVoiceRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	handler := telephony.NewHandler(domain.Voice, domain.Leads, runtime.Logger)
	routes.Register(mux, handler.Routes(middleware.Bearer(cfg.API.Token)))
}
