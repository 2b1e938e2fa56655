package leads_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"

	"github.com/JaimeStill/concierge/internal/leads"
	"github.com/JaimeStill/concierge/pkg/pagination"
)

var testPagination = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openStore(t *testing.T) (leads.System, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := leads.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	return leads.New(db, discard(), testPagination), db
}

func sampleLead() leads.LeadData {
	return leads.LeadData{
		Name:        "Rajesh Sharma",
		Phone:       "+919876543210",
		Email:       "rajesh@example.com",
		Source:      "website_form",
		Interest:    "Rolls-Royce Phantom",
		BudgetRange: "8-10 crore",
	}
}

func insert(t *testing.T, sys leads.System, wf string, data leads.LeadData, score int) uuid.UUID {
	t.Helper()
	id, err := sys.InsertLead(context.Background(), wf, data, score, leads.Classify(score))
	if err != nil {
		t.Fatalf("InsertLead(%s) error = %v", wf, err)
	}
	return id
}

func TestInsertAndFind(t *testing.T) {
	sys, _ := openStore(t)
	ctx := context.Background()

	id := insert(t, sys, "wf_1", sampleLead(), 80)

	l, err := sys.Find(ctx, id)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if l.Name != "Rajesh Sharma" || l.Score != 80 {
		t.Errorf("Find() = %+v", l)
	}
	if l.Classification != leads.ClassHot || l.Stage != leads.StageNew {
		t.Errorf("classification/stage = %s/%s", l.Classification, l.Stage)
	}

	if _, err := sys.Find(ctx, uuid.New()); !errors.Is(err, leads.ErrNotFound) {
		t.Errorf("Find(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestInsertDuplicateWorkflow(t *testing.T) {
	sys, _ := openStore(t)

	insert(t, sys, "wf_dup", sampleLead(), 60)
	_, err := sys.InsertLead(context.Background(), "wf_dup", sampleLead(), 60, leads.ClassWarm)
	if !errors.Is(err, leads.ErrDuplicate) {
		t.Errorf("InsertLead() duplicate error = %v", err)
	}
}

func TestUpdateLead(t *testing.T) {
	sys, _ := openStore(t)
	ctx := context.Background()
	id := insert(t, sys, "wf_1", sampleLead(), 40)

	score := 90
	class := leads.ClassVIP
	stage := leads.StageQualified

	ok, err := sys.UpdateLead(ctx, id, leads.Update{Score: &score, Classification: &class, Stage: &stage})
	if err != nil || !ok {
		t.Fatalf("UpdateLead() = %v, %v", ok, err)
	}

	l, _ := sys.Find(ctx, id)
	if l.Score != 90 || l.Classification != leads.ClassVIP || l.Stage != leads.StageQualified {
		t.Errorf("after update = %+v", l)
	}

	t.Run("nil id", func(t *testing.T) {
		ok, err := sys.UpdateLead(ctx, uuid.Nil, leads.Update{Score: &score})
		if ok || err != nil {
			t.Errorf("UpdateLead(Nil) = %v, %v", ok, err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		ok, err := sys.UpdateLead(ctx, uuid.New(), leads.Update{Score: &score})
		if ok || err != nil {
			t.Errorf("UpdateLead(unknown) = %v, %v", ok, err)
		}
	})

	t.Run("empty update", func(t *testing.T) {
		if _, err := sys.UpdateLead(ctx, id, leads.Update{}); !errors.Is(err, leads.ErrEmptyUpdate) {
			t.Errorf("UpdateLead(empty) error = %v", err)
		}
	})
}

func TestInteractionsAndSchedule(t *testing.T) {
	sys, _ := openStore(t)
	ctx := context.Background()
	id := insert(t, sys, "wf_1", sampleLead(), 80)

	if err := sys.LogInteraction(ctx, id, "LEAD_CAPTURE", "lead_captured", "completed", map[string]any{"score": 80}); err != nil {
		t.Fatalf("LogInteraction() error = %v", err)
	}
	if err := sys.LogInteraction(ctx, uuid.Nil, "VOICE_PROVIDER", "webhook_event", "received", nil); err != nil {
		t.Fatalf("LogInteraction(nil lead) error = %v", err)
	}

	items, err := sys.Interactions(ctx, id, 0)
	if err != nil {
		t.Fatalf("Interactions() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Interactions() len = %d, want 1", len(items))
	}
	got := items[0]
	if got.LeadName == nil || *got.LeadName != "Rajesh Sharma" {
		t.Errorf("LeadName = %v", got.LeadName)
	}
	if got.Details["score"] != float64(80) {
		t.Errorf("Details = %v", got.Details)
	}

	recent, err := sys.RecentInteractions(ctx, 10)
	if err != nil {
		t.Fatalf("RecentInteractions() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("RecentInteractions() len = %d, want 2", len(recent))
	}
	var orphan *leads.Interaction
	for i := range recent {
		if recent[i].LeadID == nil {
			orphan = &recent[i]
		}
	}
	if orphan == nil || orphan.Details != nil {
		t.Errorf("expected orphan interaction without details, got %+v", orphan)
	}

	due := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	if err := sys.ScheduleAction(ctx, id, "follow_up_call", due); err != nil {
		t.Fatalf("ScheduleAction() error = %v", err)
	}

	actions, err := sys.ScheduledActions(ctx, 10)
	if err != nil {
		t.Fatalf("ScheduledActions() error = %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("ScheduledActions() len = %d", len(actions))
	}
	if a := actions[0]; a.ActionName != "follow_up_call" || a.Status != leads.StatusPending || !a.ScheduledFor.Equal(due) {
		t.Errorf("scheduled action = %+v", a)
	}
}

func TestListFilters(t *testing.T) {
	sys, _ := openStore(t)
	ctx := context.Background()

	insert(t, sys, "wf_1", sampleLead(), 80)

	other := sampleLead()
	other.Name = "Priya Patel"
	other.Email = "priya@example.com"
	other.Source = "referral"
	other.Interest = "Bentley Flying Spur"
	insert(t, sys, "wf_2", other, 55)

	tests := []struct {
		name    string
		search  string
		filters leads.Filters
		want    int
	}{
		{"all", "", leads.Filters{}, 2},
		{"search name", "priya", leads.Filters{}, 1},
		{"source", "", leads.Filters{Source: ptr("referral")}, 1},
		{"interest contains", "", leads.Filters{Interest: ptr("phantom")}, 1},
		{"classification", "", leads.Filters{Classification: ptr(string(leads.ClassCold))}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := pagination.PageRequest{Page: 1, PageSize: 10}
			if tt.search != "" {
				page.Search = &tt.search
			}
			result, err := sys.List(ctx, page, tt.filters)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if result.Total != tt.want || len(result.Data) != tt.want {
				t.Errorf("List() total = %d, len = %d, want %d", result.Total, len(result.Data), tt.want)
			}
		})
	}
}

func TestStageControls(t *testing.T) {
	sys, _ := openStore(t)
	ctx := context.Background()
	id := insert(t, sys, "wf_1", sampleLead(), 80)

	change, err := sys.ApplyAction(ctx, id, "close_won", "signed at showroom")
	if err != nil {
		t.Fatalf("ApplyAction() error = %v", err)
	}
	if change.NewStage != leads.StageClosedWon {
		t.Errorf("NewStage = %s", change.NewStage)
	}

	if _, err := sys.SetStage(ctx, id, leads.StageQualified, "manual", ""); err != nil {
		t.Fatalf("SetStage() error = %v", err)
	}

	items, _ := sys.Interactions(ctx, id, 10)
	if len(items) != 2 {
		t.Fatalf("audit entries = %d, want 2", len(items))
	}
	actions := map[string]bool{}
	for _, i := range items {
		if i.Agent != leads.AgentSalesManager {
			t.Errorf("Agent = %s", i.Agent)
		}
		actions[i.Action] = true
	}
	if !actions["action_close_won"] || !actions["stage_update_manual"] {
		t.Errorf("audit actions = %v", actions)
	}

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"bad stage", func() error { _, err := sys.SetStage(ctx, id, "proposal", "x", ""); return err }, leads.ErrInvalidStage},
		{"bad action", func() error { _, err := sys.ApplyAction(ctx, id, "escalate", ""); return err }, leads.ErrInvalidAction},
		{"nil id", func() error { _, err := sys.ApplyAction(ctx, uuid.Nil, "hold", ""); return err }, leads.ErrInvalidID},
		{"unknown id", func() error { _, err := sys.ApplyAction(ctx, uuid.New(), "hold", ""); return err }, leads.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	sys, _ := openStore(t)
	ctx := context.Background()

	hot := insert(t, sys, "wf_1", sampleLead(), 85)
	warm := sampleLead()
	warm.BudgetRange = "2-3 crore"
	warmID := insert(t, sys, "wf_2", warm, 60)
	lost := sampleLead()
	lost.BudgetRange = "50 lakh"
	lostID := insert(t, sys, "wf_3", lost, 30)

	mustAct := func(id uuid.UUID, action string) {
		if _, err := sys.ApplyAction(ctx, id, action, ""); err != nil {
			t.Fatalf("ApplyAction(%s) error = %v", action, err)
		}
	}
	mustAct(hot, "opportunity")
	mustAct(warmID, "close_won")
	mustAct(lostID, "close_lost")

	m, err := sys.Metrics(ctx)
	if err != nil {
		t.Fatalf("Metrics() error = %v", err)
	}

	s := m.Stats
	if s.TotalLeads != 3 || s.HotLeads != 1 {
		t.Errorf("total/hot = %d/%d", s.TotalLeads, s.HotLeads)
	}
	if s.RecentInteractions != 3 {
		t.Errorf("RecentInteractions = %d, want 3", s.RecentInteractions)
	}
	if s.ConversionRate != 50 {
		t.Errorf("ConversionRate = %v, want 50", s.ConversionRate)
	}
	if s.PipelineValue != 9+2.5 {
		t.Errorf("PipelineValue = %v, want 11.5", s.PipelineValue)
	}
	if m.PipelineCounts[string(leads.StageOpportunity)] != 1 {
		t.Errorf("PipelineCounts = %v", m.PipelineCounts)
	}
	if m.Forecast.EstimatedRevenue != 2.5 || m.Forecast.Currency != "INR Crores" {
		t.Errorf("Forecast = %+v", m.Forecast)
	}

	board, err := sys.Kanban(ctx)
	if err != nil || len(board) != 3 {
		t.Errorf("Kanban() = %d items, %v", len(board), err)
	}
}

func ptr[T any](v T) *T {
	return &v
}
