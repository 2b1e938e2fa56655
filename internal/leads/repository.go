package leads

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/concierge/pkg/pagination"
	"github.com/JaimeStill/concierge/pkg/query"
	"github.com/JaimeStill/concierge/pkg/repository"
)

// Interaction and schedule status values written by the store.
const (
	StatusExecuted = "executed"
	StatusPending  = "pending"
)

const (
	recentWindow = 24 * time.Hour
	kanbanLimit  = 100
)

// Stages counted towards pipeline value and forecast revenue. proposal and
// negotiation are accepted for rows written by older pipeline tooling.
var (
	pipelineValueStages = []any{string(StageQualified), string(StageOpportunity), string(StageClosedWon)}
	forecastStages      = []any{string(StageQualified), "proposal", "negotiation", string(StageClosedWon)}
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// New creates a lead store implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "leads"),
		pagination: pagination,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) InsertLead(
	ctx context.Context,
	workflowID string,
	data LeadData,
	score int,
	class Classification,
) (uuid.UUID, error) {
	id := uuid.New()
	now := r.now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO leads (id, workflow_id, name, phone, email, source, interest, budget_range,
			existing_customer, score, classification, stage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)`,
		id, workflowID, data.Name, data.Phone, data.Email, data.Source, data.Interest, data.BudgetRange,
		data.ExistingCustomer, score, string(class), string(StageNew), now,
	)
	if err != nil {
		return uuid.Nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.InfoContext(ctx, "lead inserted", "lead_id", id, "workflow_id", workflowID, "score", score)
	return id, nil
}

// UpdateLead reports false without error when id is uuid.Nil or matches no row.
func (r *repo) UpdateLead(ctx context.Context, id uuid.UUID, u Update) (bool, error) {
	if u.IsZero() {
		return false, ErrEmptyUpdate
	}
	if id == uuid.Nil {
		return false, nil
	}

	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if u.Score != nil {
		add("score", *u.Score)
	}
	if u.Classification != nil {
		add("classification", string(*u.Classification))
	}
	if u.Stage != nil {
		add("stage", string(*u.Stage))
	}
	add("updated_at", r.now())
	args = append(args, id)

	q := fmt.Sprintf("UPDATE leads SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, fmt.Errorf("update lead: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update lead: %w", err)
	}
	return n > 0, nil
}

func (r *repo) LogInteraction(
	ctx context.Context,
	leadID uuid.UUID,
	agent, action, status string,
	details map[string]any,
) error {
	payload, err := encodeDetails(details)
	if err != nil {
		return fmt.Errorf("encode interaction details: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO interactions (id, lead_id, agent, action, status, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New(), nullableID(leadID), agent, action, status, payload, r.now(),
	)
	if err != nil {
		return fmt.Errorf("log interaction: %w", err)
	}
	return nil
}

func (r *repo) ScheduleAction(ctx context.Context, leadID uuid.UUID, action string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scheduled_actions (id, lead_id, action_name, scheduled_for, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), nullableID(leadID), action, at.UTC(), StatusPending, r.now(),
	)
	if err != nil {
		return fmt.Errorf("schedule action: %w", err)
	}
	return nil
}

func (r *repo) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	total, err := repository.QueryValue[int](ctx, r.db, "SELECT COUNT(*) FROM leads")
	if err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}

	stages, err := r.countBy(ctx, "stage")
	if err != nil {
		return nil, err
	}

	classes, err := r.countBy(ctx, "classification")
	if err != nil {
		return nil, err
	}

	recent, err := repository.QueryValue[int](ctx, r.db,
		"SELECT COUNT(*) FROM interactions WHERE created_at > $1",
		r.now().Add(-recentWindow),
	)
	if err != nil {
		return nil, fmt.Errorf("count recent interactions: %w", err)
	}

	budgetSQL, budgetArgs := query.NewBuilder(leadProjection).
		WhereIn("Stage", pipelineValueStages).
		Build()
	open, err := repository.QueryMany(ctx, r.db, budgetSQL, budgetArgs, scanLead)
	if err != nil {
		return nil, fmt.Errorf("query pipeline budgets: %w", err)
	}
	labels := make([]string, len(open))
	for i, l := range open {
		labels[i] = l.BudgetRange
	}

	return &DashboardStats{
		TotalLeads:           total,
		HotLeads:             classes[string(ClassHot)],
		StageCounts:          stages,
		ClassificationCounts: classes,
		RecentInteractions:   recent,
		ConversionRate:       conversionRate(stages),
		PipelineValue:        PipelineValue(labels),
	}, nil
}

func (r *repo) PipelineCounts(ctx context.Context) (map[string]int, error) {
	return r.countBy(ctx, "stage")
}

func (r *repo) Forecast(ctx context.Context) (*Forecast, error) {
	in := make([]string, len(forecastStages))
	for i := range forecastStages {
		in[i] = fmt.Sprintf("$%d", i+1)
	}

	q := fmt.Sprintf(
		"SELECT budget_range, COUNT(*) FROM leads WHERE stage IN (%s) GROUP BY budget_range",
		strings.Join(in, ", "),
	)
	breakdown, err := r.groupCounts(ctx, q, forecastStages...)
	if err != nil {
		return nil, fmt.Errorf("forecast revenue: %w", err)
	}

	return &Forecast{
		EstimatedRevenue: ForecastRevenue(breakdown),
		BudgetBreakdown:  breakdown,
		Currency:         "INR Crores",
	}, nil
}

func (r *repo) Metrics(ctx context.Context) (*Metrics, error) {
	stats, err := r.DashboardStats(ctx)
	if err != nil {
		return nil, err
	}
	forecast, err := r.Forecast(ctx)
	if err != nil {
		return nil, err
	}
	return &Metrics{
		Stats:          *stats,
		PipelineCounts: stats.StageCounts,
		Forecast:       *forecast,
	}, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Lead], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(leadProjection, newestFirst).
		WhereSearch(page.Search, "Name", "Email", "Phone", "Interest")
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.QueryValue[int](ctx, r.db, countSQL, countArgs...)
	if err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanLead)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Kanban(ctx context.Context) ([]Lead, error) {
	q, args := query.NewBuilder(leadProjection, newestFirst).BuildPage(1, kanbanLimit)
	items, err := repository.QueryMany(ctx, r.db, q, args, scanLead)
	if err != nil {
		return nil, fmt.Errorf("query kanban: %w", err)
	}
	return items, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Lead, error) {
	q, args := query.NewBuilder(leadProjection).BuildSingle("ID", id)

	l, err := repository.QueryOne(ctx, r.db, q, args, scanLead)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &l, nil
}

func (r *repo) Interactions(ctx context.Context, leadID uuid.UUID, limit int) ([]Interaction, error) {
	q, args := query.NewBuilder(interactionProjection, newestFirst).
		WhereEquals("LeadID", leadID).
		BuildPage(1, r.clampLimit(limit))

	items, err := repository.QueryMany(ctx, r.db, q, args, scanInteraction)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	return items, nil
}

func (r *repo) RecentInteractions(ctx context.Context, limit int) ([]Interaction, error) {
	q, args := query.NewBuilder(interactionProjection, newestFirst).BuildPage(1, r.clampLimit(limit))

	items, err := repository.QueryMany(ctx, r.db, q, args, scanInteraction)
	if err != nil {
		return nil, fmt.Errorf("query recent interactions: %w", err)
	}
	return items, nil
}

func (r *repo) ScheduledActions(ctx context.Context, limit int) ([]ScheduledAction, error) {
	q, args := query.NewBuilder(scheduleProjection, newestFirst).BuildPage(1, r.clampLimit(limit))

	items, err := repository.QueryMany(ctx, r.db, q, args, scanScheduledAction)
	if err != nil {
		return nil, fmt.Errorf("query scheduled actions: %w", err)
	}
	return items, nil
}

func (r *repo) SetStage(ctx context.Context, id uuid.UUID, stage Stage, action, notes string) (*StageChange, error) {
	if !stage.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStage, stage)
	}
	return r.changeStage(ctx, id, stage, "stage_update_"+action, action, notes)
}

func (r *repo) ApplyAction(ctx context.Context, id uuid.UUID, action, notes string) (*StageChange, error) {
	stage, err := ActionStage(action)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, action)
	}
	return r.changeStage(ctx, id, stage, "action_"+action, action, notes)
}

func (r *repo) changeStage(
	ctx context.Context,
	id uuid.UUID,
	stage Stage,
	logAction, action, notes string,
) (*StageChange, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidID
	}

	ok, err := r.UpdateLead(ctx, id, Update{Stage: &stage})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	details := map[string]any{
		"action":     action,
		"new_stage":  string(stage),
		"updated_by": "sales_manager",
	}
	if notes != "" {
		details["notes"] = notes
	}
	if err := r.LogInteraction(ctx, id, AgentSalesManager, logAction, StatusExecuted, details); err != nil {
		r.logger.WarnContext(ctx, "stage change audit failed", "lead_id", id, "error", err)
	}

	r.logger.InfoContext(ctx, "lead stage changed", "lead_id", id, "stage", stage, "action", action)
	return &StageChange{LeadID: id, Action: action, NewStage: stage, Notes: notes}, nil
}

func (r *repo) countBy(ctx context.Context, column string) (map[string]int, error) {
	counts, err := r.groupCounts(ctx, fmt.Sprintf("SELECT %s, COUNT(*) FROM leads GROUP BY %s", column, column))
	if err != nil {
		return nil, fmt.Errorf("count leads by %s: %w", column, err)
	}
	return counts, nil
}

func (r *repo) groupCounts(ctx context.Context, q string, args ...any) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

func (r *repo) clampLimit(limit int) int {
	if limit < 1 || limit > r.pagination.MaxPageSize {
		return r.pagination.MaxPageSize
	}
	return limit
}

// conversionRate is won / (won + lost) as a percentage rounded to one decimal.
func conversionRate(stages map[string]int) float64 {
	won := stages[string(StageClosedWon)]
	closed := won + stages[string(StageClosedLost)]
	if closed == 0 {
		return 0
	}
	pct := float64(won) / float64(closed) * 100
	return float64(int(pct*10+0.5)) / 10
}
