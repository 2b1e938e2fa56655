package database_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/JaimeStill/concierge/pkg/database"
	"github.com/JaimeStill/concierge/pkg/lifecycle"
)

func TestFinalizeDefaults(t *testing.T) {
	tests := []struct {
		name     string
		cfg      database.Config
		wantOpen int
		wantDsn  string
	}{
		{
			name:     "postgres",
			cfg:      database.Config{Name: "crm", User: "crm"},
			wantOpen: 25,
			wantDsn:  "host=localhost port=5432 dbname=crm user=crm password= sslmode=disable",
		},
		{
			name:     "sqlite",
			cfg:      database.Config{Driver: database.DriverSQLite},
			wantOpen: 1,
			wantDsn:  "concierge.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if err := cfg.Finalize(nil); err != nil {
				t.Fatalf("Finalize() error = %v", err)
			}
			if cfg.MaxOpenConns != tt.wantOpen {
				t.Errorf("MaxOpenConns = %d, want %d", cfg.MaxOpenConns, tt.wantOpen)
			}
			if got := cfg.Dsn(); got != tt.wantDsn {
				t.Errorf("Dsn() = %q, want %q", got, tt.wantDsn)
			}
			if cfg.ConnTimeoutDuration() != 5*time.Second {
				t.Errorf("ConnTimeoutDuration() = %v, want 5s", cfg.ConnTimeoutDuration())
			}
		})
	}
}

func TestFinalizeEnvSelectsDriver(t *testing.T) {
	t.Setenv("TEST_DB_DRIVER", "sqlite")
	t.Setenv("TEST_DB_PATH", "/tmp/leads.db")

	cfg := database.Config{}
	err := cfg.Finalize(&database.Env{Driver: "TEST_DB_DRIVER", Path: "TEST_DB_PATH"})
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.Driver != database.DriverSQLite {
		t.Errorf("Driver = %q, want sqlite", cfg.Driver)
	}
	if cfg.Host != "" {
		t.Errorf("Host = %q, want empty for sqlite", cfg.Host)
	}
	if cfg.Dsn() != "/tmp/leads.db" {
		t.Errorf("Dsn() = %q", cfg.Dsn())
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  database.Config
	}{
		{"postgres missing name", database.Config{User: "crm"}},
		{"postgres missing user", database.Config{Name: "crm"}},
		{"unknown driver", database.Config{Driver: "oracle"}},
		{"bad timeout", database.Config{Driver: database.DriverSQLite, ConnTimeout: "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if err := cfg.Finalize(nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := database.Config{Driver: database.DriverPostgres, Host: "db", Port: 5432, Name: "crm"}
	base.Merge(&database.Config{Driver: database.DriverSQLite, Path: "x.db"})

	if base.Driver != database.DriverSQLite || base.Path != "x.db" {
		t.Errorf("overlay not applied: %+v", base)
	}
	if base.Host != "db" || base.Name != "crm" {
		t.Errorf("zero overlay fields overwrote base: %+v", base)
	}
}

func TestURL(t *testing.T) {
	cfg := database.Config{Host: "h", Port: 5433, Name: "n", User: "u", Password: "p", SSLMode: "require"}
	want := "postgres://u:p@h:5433/n?sslmode=require"
	if got := cfg.URL(); got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestSQLiteStartPings(t *testing.T) {
	cfg := database.Config{Driver: database.DriverSQLite, Path: ":memory:"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	sys, err := database.New(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if sys.Driver() != database.DriverSQLite {
		t.Errorf("Driver() = %q", sys.Driver())
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	lc.WaitForStartup()

	if err := sys.Connection().PingContext(context.Background()); err != nil {
		t.Errorf("PingContext() error = %v", err)
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
