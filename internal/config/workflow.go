package config

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata"
)

const EnvWorkflowTimezone = "CONCIERGE_TIMEZONE"

// WorkflowConfig holds lead workflow settings.
type WorkflowConfig struct {
	Timezone string `toml:"timezone"`
}

// Location loads the configured time zone. Call after Finalize.
func (c *WorkflowConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *WorkflowConfig) Finalize() error {
	if c.Timezone == "" {
		c.Timezone = "Asia/Kolkata"
	}
	if v := os.Getenv(EnvWorkflowTimezone); v != "" {
		c.Timezone = v
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *WorkflowConfig) Merge(overlay *WorkflowConfig) {
	if overlay.Timezone != "" {
		c.Timezone = overlay.Timezone
	}
}
