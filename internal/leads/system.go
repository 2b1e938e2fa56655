package leads

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/concierge/pkg/pagination"
)

// System defines the public contract of the lead store.
type System interface {
	Handler() *Handler

	// Workflow-facing operations.
	InsertLead(ctx context.Context, workflowID string, data LeadData, score int, class Classification) (uuid.UUID, error)
	UpdateLead(ctx context.Context, id uuid.UUID, u Update) (bool, error)
	LogInteraction(ctx context.Context, leadID uuid.UUID, agent, action, status string, details map[string]any) error
	ScheduleAction(ctx context.Context, leadID uuid.UUID, action string, at time.Time) error
	DashboardStats(ctx context.Context) (*DashboardStats, error)

	// Dashboard and pipeline reads.
	PipelineCounts(ctx context.Context) (map[string]int, error)
	Forecast(ctx context.Context) (*Forecast, error)
	Metrics(ctx context.Context) (*Metrics, error)
	Kanban(ctx context.Context) ([]Lead, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Lead], error)
	Find(ctx context.Context, id uuid.UUID) (*Lead, error)
	Interactions(ctx context.Context, leadID uuid.UUID, limit int) ([]Interaction, error)
	RecentInteractions(ctx context.Context, limit int) ([]Interaction, error)
	ScheduledActions(ctx context.Context, limit int) ([]ScheduledAction, error)

	// Sales-manager controls.
	SetStage(ctx context.Context, id uuid.UUID, stage Stage, action, notes string) (*StageChange, error)
	ApplyAction(ctx context.Context, id uuid.UUID, action, notes string) (*StageChange, error)
}
