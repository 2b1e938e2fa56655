package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/concierge/pkg/formatting"
	"github.com/JaimeStill/concierge/pkg/middleware"
	"github.com/JaimeStill/concierge/pkg/openapi"
	"github.com/JaimeStill/concierge/pkg/pagination"
)

const (
	EnvAPIBasePath    = "CONCIERGE_API_BASE_PATH"
	EnvAPIMaxBodySize = "CONCIERGE_API_MAX_BODY_SIZE"
	EnvAPIToken       = "CONCIERGE_API_TOKEN"

	// DefaultAPIToken is accepted only so a fresh checkout runs; deployments override it.
	DefaultAPIToken = "changeme"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "CONCIERGE_CORS_ENABLED",
	Origins:          "CONCIERGE_CORS_ORIGINS",
	AllowedMethods:   "CONCIERGE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "CONCIERGE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "CONCIERGE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "CONCIERGE_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "CONCIERGE_OPENAPI_TITLE",
	Description: "CONCIERGE_OPENAPI_DESCRIPTION",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "CONCIERGE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "CONCIERGE_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, authentication, CORS, pagination, and
// OpenAPI document settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	Token       string                `toml:"token"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Pagination  pagination.Config     `toml:"pagination"`
	OpenAPI     openapi.Config        `toml:"openapi"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return 1 << 20
	}
	return size
}

// DefaultToken reports whether the placeholder bearer token is in use.
func (c *APIConfig) DefaultToken() bool {
	return c.Token == DefaultAPIToken
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
	if c.Token == "" {
		c.Token = DefaultAPIToken
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxBodySize); v != "" {
		c.MaxBodySize = v
	}
	if v := os.Getenv(EnvAPIToken); v != "" {
		c.Token = v
	}
}

func (c *APIConfig) validate() error {
	if _, err := formatting.ParseBytes(c.MaxBodySize); err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	return nil
}
