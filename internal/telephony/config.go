package telephony

import (
	"fmt"
	"os"
	"time"
)

// Config selects the outbound voice provider and holds its credentials.
// An empty Provider disables outbound calling.
type Config struct {
	Provider   string      `toml:"provider"`
	WebhookURL string      `toml:"webhook_url"`
	Timeout    string      `toml:"timeout"`
	Vapi       VapiConfig  `toml:"vapi"`
	Sensy      SensyConfig `toml:"sensy"`
}

type VapiConfig struct {
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
	FlowID   string `toml:"flow_id"`
	CallerID string `toml:"caller_id"`
}

type SensyConfig struct {
	BaseURL    string `toml:"base_url"`
	APIKey     string `toml:"api_key"`
	CampaignID string `toml:"campaign_id"`
	CallerID   string `toml:"caller_id"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Provider        string
	WebhookURL      string
	VapiBaseURL     string
	VapiAPIKey      string
	VapiFlowID      string
	VapiCallerID    string
	SensyBaseURL    string
	SensyAPIKey     string
	SensyCampaignID string
	SensyCallerID   string
}

// Enabled reports whether a provider was selected.
func (c *Config) Enabled() bool {
	return c.Provider != ""
}

// TimeoutDuration parses Timeout. Call after Finalize.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	c.loadDefaults()
	return c.validate()
}

func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.WebhookURL != "" {
		c.WebhookURL = overlay.WebhookURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	mergeString(&c.Vapi.BaseURL, overlay.Vapi.BaseURL)
	mergeString(&c.Vapi.APIKey, overlay.Vapi.APIKey)
	mergeString(&c.Vapi.FlowID, overlay.Vapi.FlowID)
	mergeString(&c.Vapi.CallerID, overlay.Vapi.CallerID)
	mergeString(&c.Sensy.BaseURL, overlay.Sensy.BaseURL)
	mergeString(&c.Sensy.APIKey, overlay.Sensy.APIKey)
	mergeString(&c.Sensy.CampaignID, overlay.Sensy.CampaignID)
	mergeString(&c.Sensy.CallerID, overlay.Sensy.CallerID)
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "15s"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	set(env.Provider, &c.Provider)
	set(env.WebhookURL, &c.WebhookURL)
	set(env.VapiBaseURL, &c.Vapi.BaseURL)
	set(env.VapiAPIKey, &c.Vapi.APIKey)
	set(env.VapiFlowID, &c.Vapi.FlowID)
	set(env.VapiCallerID, &c.Vapi.CallerID)
	set(env.SensyBaseURL, &c.Sensy.BaseURL)
	set(env.SensyAPIKey, &c.Sensy.APIKey)
	set(env.SensyCampaignID, &c.Sensy.CampaignID)
	set(env.SensyCallerID, &c.Sensy.CallerID)
}

func (c *Config) validate() error {
	if c.Provider != "" {
		provider, err := ResolveProvider(c.Provider)
		if err != nil {
			return err
		}
		c.Provider = provider
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
