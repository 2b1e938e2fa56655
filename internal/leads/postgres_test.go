package leads_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/JaimeStill/concierge/internal/leads"
	"github.com/JaimeStill/concierge/pkg/pagination"
)

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("postgres container test skipped in short mode")
	}
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("concierge"),
		postgres.WithUsername("concierge"),
		postgres.WithPassword("concierge"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../cmd/migrate/migrations/000001_lead_store.up.sql")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, string(schema))
	require.NoError(t, err)

	sys := leads.New(db, discard(), testPagination)

	id, err := sys.InsertLead(ctx, "wf_pg", sampleLead(), 82, leads.ClassHot)
	require.NoError(t, err)

	_, err = sys.InsertLead(ctx, "wf_pg", sampleLead(), 82, leads.ClassHot)
	assert.ErrorIs(t, err, leads.ErrDuplicate)

	require.NoError(t, sys.LogInteraction(ctx, id, "LEAD_CAPTURE", "lead_captured", "completed", map[string]any{"score": 82}))
	require.NoError(t, sys.ScheduleAction(ctx, id, "follow_up_call", time.Now().Add(4*time.Hour)))

	search := "RAJESH"
	page, err := sys.List(ctx, pagination.PageRequest{Page: 1, PageSize: 10, Search: &search}, leads.Filters{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	change, err := sys.ApplyAction(ctx, id, "qualify", "")
	require.NoError(t, err)
	assert.Equal(t, leads.StageQualified, change.NewStage)

	items, err := sys.Interactions(ctx, id, 10)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	m, err := sys.Metrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Stats.TotalLeads)
	assert.InDelta(t, 9.0, m.Stats.PipelineValue, 1e-9)
	assert.InDelta(t, 9.0, m.Forecast.EstimatedRevenue, 1e-9)
}
