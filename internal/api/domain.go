package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/concierge/internal/config"
	"github.com/JaimeStill/concierge/internal/documents"
	"github.com/JaimeStill/concierge/internal/leads"
	"github.com/JaimeStill/concierge/internal/mail"
	"github.com/JaimeStill/concierge/internal/scoring"
	"github.com/JaimeStill/concierge/internal/telephony"
	"github.com/JaimeStill/concierge/internal/workflow"
	"github.com/JaimeStill/concierge/pkg/database"
	"github.com/JaimeStill/concierge/pkg/lifecycle"
)

const schemaTimeout = 30 * time.Second

// Domain holds all domain systems that comprise the API.
// Voice is nil when no call provider is configured.
type Domain struct {
	Leads     leads.System
	Documents documents.System
	Voice     telephony.Caller
	Workflow  *workflow.Runtime

	db     database.System
	logger *slog.Logger
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	leadsSystem := leads.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	docsSystem := documents.New(
		&cfg.Documents,
		runtime.Storage,
		runtime.Logger,
	)

	caller, err := telephony.New(&cfg.Voice, runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("voice init failed: %w", err)
	}

	wf := &workflow.Runtime{
		Leads:     leadsSystem,
		Scorer:    scoring.New(cfg.Scoring.Agent(), cfg.Scoring.TimeoutDuration(), runtime.Logger),
		Mailer:    mail.New(&cfg.Mail, runtime.Logger),
		Brand:     cfg.Mail.Brand(),
		Documents: docsSystem,
		Location:  cfg.Workflow.Location(),
		Logger:    runtime.Logger.With("workflow", "lead"),
	}
	if caller != nil {
		wf.Voice = caller
	}

	return &Domain{
		Leads:     leadsSystem,
		Documents: docsSystem,
		Voice:     caller,
		Workflow:  wf,
		db:        runtime.Database,
		logger:    runtime.Logger,
	}, nil
}

// Start registers the SQLite schema bootstrap with the lifecycle coordinator.
// Postgres schemas are applied by cmd/migrate.
func (d *Domain) Start(lc *lifecycle.Coordinator) error {
	if d.db.Driver() != database.DriverSQLite {
		return nil
	}

	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), schemaTimeout)
		defer cancel()

		if err := leads.EnsureSchema(ctx, d.db.Connection()); err != nil {
			d.logger.Error("lead store schema setup failed", "error", err)
			return
		}
		d.logger.Info("lead store schema ready")
	})

	return nil
}
