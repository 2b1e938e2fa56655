// Package api assembles the HTTP modules of the CRM: the bearer-protected
// /api module (workflows, leads, dashboard, documents, plus its OpenAPI
// document) and the /voice module (manual calls and provider webhooks).
// Both share one Domain.
package api

import (
	"net/http"

	"github.com/JaimeStill/concierge/internal/config"
	"github.com/JaimeStill/concierge/pkg/middleware"
	"github.com/JaimeStill/concierge/pkg/module"
	"github.com/JaimeStill/concierge/pkg/openapi"
)

// VoicePrefix is the mount point of the voice module.
const VoicePrefix = "/voice"

// NewModule creates the API module with all domain handlers and middleware.
// The OpenAPI document is served without authentication.
func NewModule(cfg *config.Config, runtime *Runtime, domain *Domain) (*module.Module, error) {
	spec, err := buildSpec(cfg)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+specPath, openapi.ServeSpec(spec))
	registerRoutes(mux, domain, cfg, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.MaxBody(cfg.API.MaxBodySizeBytes()))

	return m, nil
}

// NewVoiceModule creates the voice module. Provider webhooks are public;
// manual calls require the API bearer token.
func NewVoiceModule(cfg *config.Config, runtime *Runtime, domain *Domain) *module.Module {
	mux := http.NewServeMux()
	registerVoiceRoutes(mux, domain, cfg, runtime)

	m := module.New(VoicePrefix, mux)
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.MaxBody(cfg.API.MaxBodySizeBytes()))

	return m
}
