package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/concierge/internal/documents"
	"github.com/JaimeStill/concierge/internal/leads"
	"github.com/JaimeStill/concierge/internal/mail"
	"github.com/JaimeStill/concierge/internal/scoring"
)

// LeadStore is the subset of the lead store the stages write to.
type LeadStore interface {
	InsertLead(ctx context.Context, workflowID string, data leads.LeadData, score int, class leads.Classification) (uuid.UUID, error)
	UpdateLead(ctx context.Context, id uuid.UUID, u leads.Update) (bool, error)
	LogInteraction(ctx context.Context, leadID uuid.UUID, agent, action, status string, details map[string]any) error
	ScheduleAction(ctx context.Context, leadID uuid.UUID, action string, at time.Time) error
	DashboardStats(ctx context.Context) (*leads.DashboardStats, error)
}

// Mailer delivers rendered email.
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) (bool, map[string]any)
}

// DocumentGenerator renders sales documents and optionally archives them.
type DocumentGenerator interface {
	Render(ctx context.Context, c documents.Customer, kinds []documents.Kind) ([]documents.Rendered, error)
	ArchiveEnabled() bool
	Archive(ctx context.Context, leadID uuid.UUID, name string, data []byte) (string, error)
}

// Caller places outbound qualification calls.
type Caller interface {
	Provider() string
	InitiateCall(ctx context.Context, toPhone string, payload map[string]any) (bool, map[string]any)
}

// Runtime bundles the dependencies that workflow stages require.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
// Voice is nil when no call provider is configured.
type Runtime struct {
	Leads     LeadStore
	Scorer    scoring.Scorer
	Mailer    Mailer
	Brand     mail.Brand
	Documents DocumentGenerator
	Voice     Caller
	Location  *time.Location
	Clock     func() time.Time
	Logger    *slog.Logger
}

// now returns the current time in the workflow's business time zone.
func (rt *Runtime) now() time.Time {
	clock := rt.Clock
	if clock == nil {
		clock = time.Now
	}
	loc := rt.Location
	if loc == nil {
		loc = time.UTC
	}
	return clock().In(loc)
}

func (rt *Runtime) after(hours int) time.Time {
	return rt.now().Add(time.Duration(hours) * time.Hour)
}
