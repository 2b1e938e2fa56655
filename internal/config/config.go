// Package config loads the Concierge service configuration from a TOML base
// file, an optional environment overlay and CONCIERGE_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/concierge/internal/documents"
	"github.com/JaimeStill/concierge/internal/mail"
	"github.com/JaimeStill/concierge/internal/telephony"
	"github.com/JaimeStill/concierge/pkg/database"
	"github.com/JaimeStill/concierge/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvConciergeEnv             = "CONCIERGE_ENV"
	EnvConciergeShutdownTimeout = "CONCIERGE_SHUTDOWN_TIMEOUT"
	EnvConciergeVersion         = "CONCIERGE_VERSION"
)

var databaseEnv = &database.Env{
	Driver:          "CONCIERGE_DB_DRIVER",
	Path:            "CONCIERGE_DB_PATH",
	Host:            "CONCIERGE_DB_HOST",
	Port:            "CONCIERGE_DB_PORT",
	Name:            "CONCIERGE_DB_NAME",
	User:            "CONCIERGE_DB_USER",
	Password:        "CONCIERGE_DB_PASSWORD",
	SSLMode:         "CONCIERGE_DB_SSL_MODE",
	MaxOpenConns:    "CONCIERGE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "CONCIERGE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "CONCIERGE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "CONCIERGE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "CONCIERGE_STORAGE_CONTAINER_NAME",
	ConnectionString: "CONCIERGE_STORAGE_CONNECTION_STRING",
	KeyPrefix:        "CONCIERGE_STORAGE_KEY_PREFIX",
}

var mailEnv = &mail.Env{
	Host:         "CONCIERGE_SMTP_HOST",
	Port:         "CONCIERGE_SMTP_PORT",
	Username:     "CONCIERGE_SMTP_USERNAME",
	Password:     "CONCIERGE_SMTP_PASSWORD",
	FromAddress:  "CONCIERGE_SMTP_FROM",
	ContactEmail: "CONCIERGE_CONTACT_EMAIL",
}

var voiceEnv = &telephony.Env{
	Provider:        "CONCIERGE_VOICE_PROVIDER",
	WebhookURL:      "CONCIERGE_VOICE_WEBHOOK_URL",
	VapiBaseURL:     "CONCIERGE_VAPI_BASE_URL",
	VapiAPIKey:      "CONCIERGE_VAPI_API_KEY",
	VapiFlowID:      "CONCIERGE_VAPI_FLOW_ID",
	VapiCallerID:    "CONCIERGE_VAPI_CALLER_ID",
	SensyBaseURL:    "CONCIERGE_SENSY_BASE_URL",
	SensyAPIKey:     "CONCIERGE_SENSY_API_KEY",
	SensyCampaignID: "CONCIERGE_SENSY_CAMPAIGN_ID",
	SensyCallerID:   "CONCIERGE_SENSY_CALLER_ID",
}

var documentsEnv = &documents.Env{
	Company:   "CONCIERGE_COMPANY_NAME",
	BasePrice: "CONCIERGE_QUOTE_BASE_PRICE",
	GSTRate:   "CONCIERGE_QUOTE_GST_RATE",
}

// Config is the root configuration for the Concierge service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Storage         storage.Config   `toml:"storage"`
	API             APIConfig        `toml:"api"`
	Scoring         ScoringConfig    `toml:"scoring"`
	Mail            mail.Config      `toml:"mail"`
	Voice           telephony.Config `toml:"voice"`
	Workflow        WorkflowConfig   `toml:"workflow"`
	Documents       documents.Config `toml:"documents"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the CONCIERGE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvConciergeEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFile(BaseConfigFile)
}

// LoadFile is Load with an explicit base file path.
func LoadFile(base string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(filepath.Dir(base)); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Scoring.Merge(&overlay.Scoring)
	c.Mail.Merge(&overlay.Mail)
	c.Voice.Merge(&overlay.Voice)
	c.Workflow.Merge(&overlay.Workflow)
	c.Documents.Merge(&overlay.Documents)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Scoring.Finalize(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if err := c.Mail.Finalize(mailEnv); err != nil {
		return fmt.Errorf("mail: %w", err)
	}
	if err := c.Voice.Finalize(voiceEnv); err != nil {
		return fmt.Errorf("voice: %w", err)
	}
	if err := c.Workflow.Finalize(); err != nil {
		return fmt.Errorf("workflow: %w", err)
	}
	if err := c.Documents.Finalize(documentsEnv); err != nil {
		return fmt.Errorf("documents: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvConciergeShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvConciergeVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvConciergeEnv); env != "" {
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
