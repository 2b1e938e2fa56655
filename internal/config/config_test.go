package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/concierge/internal/config"
	"github.com/JaimeStill/concierge/pkg/database"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080

[database]
driver = "postgres"
host = "localhost"
port = 5432
name = "concierge"
user = "concierge"
password = "concierge"
ssl_mode = "disable"

[api]
base_path = "/api"
token = "s3cret"

[api.pagination]
default_page_size = 25
max_page_size = 50

[scoring]
provider = "ollama"
base_url = "http://localhost:11434"
model = "llama3.1:8b"
timeout = "5s"

[mail]
username = "sales@example.com"
password = "app-password"

[voice]
provider = "ai_sensy"

[voice.sensy]
base_url = "https://sensy.example.com"
api_key = "key"
campaign_id = "camp"

[workflow]
timezone = "UTC"

[documents]
company = "Marque Motors"
base_price = 50000000.0
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"
`

func writeConfig(t *testing.T, dir, filename, content string) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", baseConfig)

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("db host: got %s, want localhost", cfg.Database.Host)
	}
	if cfg.API.Token != "s3cret" || cfg.API.DefaultToken() {
		t.Errorf("api token: got %s", cfg.API.Token)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.Voice.Provider != "sensy" {
		t.Errorf("voice provider: got %s, want sensy", cfg.Voice.Provider)
	}
	if !cfg.Mail.Enabled() {
		t.Error("mail should be enabled with credentials")
	}
	if cfg.Documents.Company != "Marque Motors" || cfg.Documents.BasePrice != 50000000.0 {
		t.Errorf("documents: got %+v", cfg.Documents)
	}
	if cfg.Workflow.Location() != time.UTC {
		t.Errorf("workflow location: got %v", cfg.Workflow.Location())
	}
}

func TestLoadFileWithOverlay(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)

	t.Setenv("CONCIERGE_ENV", "staging")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
	if cfg.Env() != "staging" {
		t.Errorf("env: got %s, want staging", cfg.Env())
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", baseConfig)

	t.Setenv("CONCIERGE_VERSION", "2.0.0")
	t.Setenv("CONCIERGE_SERVER_PORT", "3000")
	t.Setenv("CONCIERGE_API_TOKEN", "from-env")
	t.Setenv("CONCIERGE_TIMEZONE", "Asia/Kolkata")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.API.Token != "from-env" {
		t.Errorf("api token: got %s", cfg.API.Token)
	}
	if cfg.Workflow.Timezone != "Asia/Kolkata" {
		t.Errorf("timezone: got %s", cfg.Workflow.Timezone)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("CONCIERGE_DB_DRIVER", "sqlite")
	t.Setenv("CONCIERGE_DB_PATH", filepath.Join(dir, "crm.db"))

	cfg, err := config.LoadFile(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != database.DriverSQLite {
		t.Errorf("db driver from env: got %s", cfg.Database.Driver)
	}
	if cfg.Storage.Enabled() {
		t.Error("storage should be disabled without a connection string")
	}
	if cfg.Scoring.Enabled() || cfg.Scoring.Agent() != nil {
		t.Error("scoring should default to the heuristic")
	}
	if !cfg.API.DefaultToken() {
		t.Errorf("api token default: got %s", cfg.API.Token)
	}
	if cfg.API.MaxBodySizeBytes() != 1<<20 {
		t.Errorf("max body size default: got %d", cfg.API.MaxBodySizeBytes())
	}
	if cfg.Workflow.Timezone != "Asia/Kolkata" {
		t.Errorf("timezone default: got %s", cfg.Workflow.Timezone)
	}
	if cfg.Voice.Enabled() {
		t.Error("voice should be disabled without a provider")
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", `[server`)

	if _, err := config.LoadFile(path); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestScoringAgent(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", baseConfig)
	t.Setenv("CONCIERGE_SCORING_TOKEN", "tok")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	agent := cfg.Scoring.Agent()
	if agent == nil {
		t.Fatal("Agent() = nil with provider configured")
	}
	if agent.Provider.Name != "ollama" || agent.Provider.BaseURL != "http://localhost:11434" {
		t.Errorf("provider: got %+v", agent.Provider)
	}
	if agent.Model.Name != "llama3.1:8b" {
		t.Errorf("model: got %s", agent.Model.Name)
	}
	if agent.Provider.Options["token"] != "tok" {
		t.Errorf("token option: got %v", agent.Provider.Options["token"])
	}
	if cfg.Scoring.TimeoutDuration() != 5*time.Second {
		t.Errorf("timeout: got %v", cfg.Scoring.TimeoutDuration())
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name:    "invalid port",
			config:  "[server]\nport = 99999\n[database]\ndriver = \"sqlite\"",
			wantErr: "invalid port",
		},
		{
			name:    "invalid shutdown timeout",
			config:  "shutdown_timeout = \"soon\"\n[database]\ndriver = \"sqlite\"",
			wantErr: "invalid shutdown_timeout",
		},
		{
			name:    "scoring provider without model",
			config:  "[scoring]\nprovider = \"ollama\"\n[database]\ndriver = \"sqlite\"",
			wantErr: "model required",
		},
		{
			name:    "unknown timezone",
			config:  "[workflow]\ntimezone = \"Mars/Olympus\"\n[database]\ndriver = \"sqlite\"",
			wantErr: "invalid timezone",
		},
		{
			name:    "unknown voice provider",
			config:  "[voice]\nprovider = \"carrier-pigeon\"\n[database]\ndriver = \"sqlite\"",
			wantErr: "voice",
		},
		{
			name:    "invalid body size",
			config:  "[api]\nmax_body_size = \"lots\"\n[database]\ndriver = \"sqlite\"",
			wantErr: "invalid max_body_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeConfig(t, dir, "config.toml", tt.config)

			_, err := config.LoadFile(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestMaxBodySizeBytes(t *testing.T) {
	tests := []struct {
		size string
		want int64
	}{
		{"1MB", 1 << 20},
		{"512KB", 512 << 10},
		{"bad", 1 << 20},
	}

	for _, tt := range tests {
		cfg := &config.APIConfig{MaxBodySize: tt.size}
		if got := cfg.MaxBodySizeBytes(); got != tt.want {
			t.Errorf("MaxBodySizeBytes(%q) = %d, want %d", tt.size, got, tt.want)
		}
	}
}
