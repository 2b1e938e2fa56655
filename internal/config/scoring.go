package config

import (
	"fmt"
	"os"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvScoringProvider   = "CONCIERGE_SCORING_PROVIDER"
	EnvScoringBaseURL    = "CONCIERGE_SCORING_BASE_URL"
	EnvScoringModel      = "CONCIERGE_SCORING_MODEL"
	EnvScoringToken      = "CONCIERGE_SCORING_TOKEN"
	EnvScoringDeployment = "CONCIERGE_SCORING_DEPLOYMENT"
	EnvScoringAPIVersion = "CONCIERGE_SCORING_API_VERSION"
	EnvScoringTimeout    = "CONCIERGE_SCORING_TIMEOUT"
)

// ScoringConfig selects the lead scorer. An empty provider keeps scoring on
// the keyword heuristic; otherwise a go-agents chat model is asked first.
type ScoringConfig struct {
	Provider   string `toml:"provider"`
	BaseURL    string `toml:"base_url"`
	Model      string `toml:"model"`
	Token      string `toml:"token"`
	Deployment string `toml:"deployment"`
	APIVersion string `toml:"api_version"`
	Timeout    string `toml:"timeout"`
}

// Enabled reports whether a model provider is configured.
func (c *ScoringConfig) Enabled() bool {
	return c.Provider != ""
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *ScoringConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Agent builds the go-agents configuration for the scoring model, or nil
// when no provider is configured.
func (c *ScoringConfig) Agent() *gaconfig.AgentConfig {
	if !c.Enabled() {
		return nil
	}

	agent := gaconfig.DefaultAgentConfig()
	agent.Name = "concierge-scoring"
	if agent.Provider == nil {
		agent.Provider = &gaconfig.ProviderConfig{}
	}
	if agent.Provider.Options == nil {
		agent.Provider.Options = make(map[string]any)
	}
	if agent.Model == nil {
		agent.Model = &gaconfig.ModelConfig{}
	}

	agent.Provider.Name = c.Provider
	if c.BaseURL != "" {
		agent.Provider.BaseURL = c.BaseURL
	}
	if c.Model != "" {
		agent.Model.Name = c.Model
	}

	setOption := func(key, v string) {
		if v != "" {
			agent.Provider.Options[key] = v
		}
	}
	setOption("token", c.Token)
	setOption("deployment", c.Deployment)
	setOption("api_version", c.APIVersion)

	return &agent
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ScoringConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ScoringConfig) Merge(overlay *ScoringConfig) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Deployment != "" {
		c.Deployment = overlay.Deployment
	}
	if overlay.APIVersion != "" {
		c.APIVersion = overlay.APIVersion
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *ScoringConfig) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
}

func (c *ScoringConfig) loadEnv() {
	if v := os.Getenv(EnvScoringProvider); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvScoringBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvScoringModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvScoringToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(EnvScoringDeployment); v != "" {
		c.Deployment = v
	}
	if v := os.Getenv(EnvScoringAPIVersion); v != "" {
		c.APIVersion = v
	}
	if v := os.Getenv(EnvScoringTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *ScoringConfig) validate() error {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Enabled() && c.Model == "" {
		return fmt.Errorf("model required when provider is set")
	}
	return nil
}
