package openapi

import "os"

// Config holds the info block published with the generated document.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv maps config fields to environment variable names for override injection.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "Concierge API"
	}
	if c.Description == "" {
		c.Description = "Lead-to-sale CRM for luxury automotive retail: lead workflows, pipeline controls, and dashboards."
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	for _, o := range []struct {
		key string
		dst *string
	}{
		{env.Title, &c.Title},
		{env.Description, &c.Description},
	} {
		if o.key == "" {
			continue
		}
		if v := os.Getenv(o.key); v != "" {
			*o.dst = v
		}
	}
}
