package workflow_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/concierge/internal/documents"
	"github.com/JaimeStill/concierge/internal/leads"
	"github.com/JaimeStill/concierge/internal/mail"
	"github.com/JaimeStill/concierge/internal/scoring"
	"github.com/JaimeStill/concierge/internal/workflow"
)

var (
	ist       = time.FixedZone("IST", 5*3600+1800)
	fixedTime = time.Date(2026, 3, 14, 4, 30, 0, 0, time.UTC)
)

type scheduled struct {
	leadID uuid.UUID
	action string
	at     time.Time
}

type logged struct {
	leadID uuid.UUID
	agent  string
	action string
	status string
}

type fakeStore struct {
	mu           sync.Mutex
	inserted     []uuid.UUID
	classes      map[uuid.UUID]leads.Classification
	stages       map[uuid.UUID]leads.Stage
	schedules    []scheduled
	interactions []logged
	stats        leads.DashboardStats
	insertErr    error
	statsErr     error
	// honorCtx fails writes on a done context the way database/sql does.
	honorCtx bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		classes: map[uuid.UUID]leads.Classification{},
		stages:  map[uuid.UUID]leads.Stage{},
		stats:   leads.DashboardStats{TotalLeads: 10, HotLeads: 5},
	}
}

func (f *fakeStore) done(ctx context.Context) error {
	if f.honorCtx {
		return ctx.Err()
	}
	return nil
}

func (f *fakeStore) InsertLead(ctx context.Context, _ string, _ leads.LeadData, _ int, class leads.Classification) (uuid.UUID, error) {
	if f.insertErr != nil {
		return uuid.Nil, f.insertErr
	}
	if err := f.done(ctx); err != nil {
		return uuid.Nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.inserted = append(f.inserted, id)
	f.classes[id] = class
	f.stages[id] = leads.StageNew
	return id, nil
}

func (f *fakeStore) UpdateLead(ctx context.Context, id uuid.UUID, u leads.Update) (bool, error) {
	if err := f.done(ctx); err != nil {
		return false, err
	}
	if id == uuid.Nil {
		return false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.Classification != nil {
		f.classes[id] = *u.Classification
	}
	if u.Stage != nil {
		f.stages[id] = *u.Stage
	}
	return true, nil
}

func (f *fakeStore) LogInteraction(ctx context.Context, leadID uuid.UUID, agent, action, status string, _ map[string]any) error {
	if err := f.done(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interactions = append(f.interactions, logged{leadID, agent, action, status})
	return nil
}

func (f *fakeStore) ScheduleAction(ctx context.Context, leadID uuid.UUID, action string, at time.Time) error {
	if err := f.done(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedules = append(f.schedules, scheduled{leadID, action, at})
	return nil
}

func (f *fakeStore) DashboardStats(ctx context.Context) (*leads.DashboardStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	if err := f.done(ctx); err != nil {
		return nil, err
	}
	stats := f.stats
	return &stats, nil
}

func (f *fakeStore) scheduledFor(action string) (scheduled, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.schedules {
		if s.action == action {
			return s, true
		}
	}
	return scheduled{}, false
}

type fixedScorer int

func (f fixedScorer) Score(context.Context, string, string, string) int { return int(f) }

type panicScorer struct{}

func (panicScorer) Score(context.Context, string, string, string) int { panic("model exploded") }

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	// failPlain fails messages without attachments.
	failPlain bool
	onSend    func()
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) (bool, map[string]any) {
	if m.onSend != nil {
		m.onSend()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	if m.failPlain && len(msg.Attachments) == 0 {
		return false, map[string]any{"error": "relay refused"}
	}
	return true, map[string]any{"email_sent_at": fixedTime.Format(time.RFC3339)}
}

func (m *fakeMailer) plain() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []mail.Message
	for _, msg := range m.sent {
		if len(msg.Attachments) == 0 {
			out = append(out, msg)
		}
	}
	return out
}

func (m *fakeMailer) withAttachments() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []mail.Message
	for _, msg := range m.sent {
		if len(msg.Attachments) > 0 {
			out = append(out, msg)
		}
	}
	return out
}

type fakeDocs struct {
	renderErr  error
	archive    bool
	archiveErr error
	archived   []string
	mu         sync.Mutex
}

func (d *fakeDocs) Render(_ context.Context, _ documents.Customer, kinds []documents.Kind) ([]documents.Rendered, error) {
	if d.renderErr != nil {
		return nil, d.renderErr
	}
	out := make([]documents.Rendered, len(kinds))
	for i, k := range kinds {
		out[i] = documents.Rendered{Kind: k, Data: []byte("%PDF-1.3"), Pages: 1}
	}
	return out, nil
}

func (d *fakeDocs) ArchiveEnabled() bool { return d.archive }

func (d *fakeDocs) Archive(_ context.Context, leadID uuid.UUID, name string, _ []byte) (string, error) {
	if d.archiveErr != nil {
		return "", d.archiveErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	key := "leads/" + leadID.String() + "/" + name
	d.archived = append(d.archived, key)
	return key, nil
}

type fakeCaller struct {
	ok      bool
	payload map[string]any
	to      string
}

func (c *fakeCaller) Provider() string { return "vapi" }

func (c *fakeCaller) InitiateCall(_ context.Context, to string, payload map[string]any) (bool, map[string]any) {
	c.to = to
	c.payload = payload
	if !c.ok {
		return false, map[string]any{"error": "Vapi HTTP 500"}
	}
	return true, map[string]any{"id": "call-1"}
}

var errStore = errors.New("store offline")

type harness struct {
	store  *fakeStore
	mailer *fakeMailer
	docs   *fakeDocs
	rt     *workflow.Runtime
}

func newHarness(scorer scoring.Scorer) *harness {
	h := &harness{
		store:  newFakeStore(),
		mailer: &fakeMailer{},
		docs:   &fakeDocs{},
	}
	h.rt = &workflow.Runtime{
		Leads:     h.store,
		Scorer:    scorer,
		Mailer:    h.mailer,
		Brand:     mail.Brand{Company: "Luxury Automotive", Tagline: "Excellence in Every Detail", ContactEmail: "sales@example.com"},
		Documents: h.docs,
		Location:  ist,
		Clock:     func() time.Time { return fixedTime },
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return h
}

func lead() leads.LeadData {
	return leads.LeadData{
		Name:        "Rajesh Sharma",
		Phone:       "+919876543210",
		Email:       "rajesh@example.com",
		Source:      "website_form",
		Interest:    "Rolls-Royce Phantom",
		BudgetRange: "8-10 crore",
	}
}
