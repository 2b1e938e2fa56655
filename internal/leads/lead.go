// Package leads implements the lead store for the CRM: lead records, the
// interaction audit trail, scheduled follow-up actions, dashboard aggregates,
// and the sales-manager stage controls exposed over HTTP.
package leads

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// Classification is the priority tier derived from a lead's score.
type Classification string

const (
	ClassCold Classification = "cold_lead"
	ClassWarm Classification = "warm_prospect"
	ClassHot  Classification = "hot_lead"
	ClassVIP  Classification = "vip_client"
)

// Score thresholds for Classify.
const (
	HotThreshold  = 75
	WarmThreshold = 50
)

// Classify derives the score-based tier. VIP is never score-derived; it is
// applied by the caller for existing customers.
func Classify(score int) Classification {
	switch {
	case score >= HotThreshold:
		return ClassHot
	case score >= WarmThreshold:
		return ClassWarm
	default:
		return ClassCold
	}
}

// Stage is a lead's position in the sales pipeline.
type Stage string

const (
	StageNew         Stage = "new"
	StageContacted   Stage = "contacted"
	StageQualified   Stage = "qualified"
	StageOpportunity Stage = "opportunity"
	StageClosedWon   Stage = "closed_won"
	StageClosedLost  Stage = "closed_lost"
)

// Stages lists every pipeline stage in board order.
var Stages = []Stage{
	StageNew,
	StageContacted,
	StageQualified,
	StageOpportunity,
	StageClosedWon,
	StageClosedLost,
}

// Valid reports whether s is a known pipeline stage.
func (s Stage) Valid() bool {
	for _, known := range Stages {
		if s == known {
			return true
		}
	}
	return false
}

// LeadData is the contact and interest information captured for a prospect.
type LeadData struct {
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Source           string `json:"source"`
	Interest         string `json:"interest"`
	BudgetRange      string `json:"budget_range"`
	ExistingCustomer bool   `json:"existing_customer"`
}

var textPolicy = bluemonday.StrictPolicy()

// Sanitize strips markup and surrounding whitespace from every text field.
// The result is plain text: entities escaped by the policy are decoded.
func (d LeadData) Sanitize() LeadData {
	clean := func(s string) string {
		return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
	}
	d.Name = clean(d.Name)
	d.Phone = clean(d.Phone)
	d.Email = clean(d.Email)
	d.Source = clean(d.Source)
	d.Interest = clean(d.Interest)
	d.BudgetRange = clean(d.BudgetRange)
	return d
}

// Validate requires every text field to be present.
func (d LeadData) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"name", d.Name},
		{"phone", d.Phone},
		{"email", d.Email},
		{"source", d.Source},
		{"interest", d.Interest},
		{"budget_range", d.BudgetRange},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

// Lead is a persisted prospect.
type Lead struct {
	ID               uuid.UUID      `json:"id"`
	WorkflowID       string         `json:"workflow_id"`
	Name             string         `json:"name"`
	Phone            string         `json:"phone"`
	Email            string         `json:"email"`
	Source           string         `json:"source"`
	Interest         string         `json:"interest"`
	BudgetRange      string         `json:"budget_range"`
	ExistingCustomer bool           `json:"existing_customer"`
	Score            int            `json:"score"`
	Classification   Classification `json:"classification"`
	Stage            Stage          `json:"stage"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Data returns the captured contact fields of the lead.
func (l Lead) Data() LeadData {
	return LeadData{
		Name:             l.Name,
		Phone:            l.Phone,
		Email:            l.Email,
		Source:           l.Source,
		Interest:         l.Interest,
		BudgetRange:      l.BudgetRange,
		ExistingCustomer: l.ExistingCustomer,
	}
}

// Update carries the optional lead fields to change. Nil fields are left as is.
type Update struct {
	Score          *int
	Classification *Classification
	Stage          *Stage
}

// IsZero reports whether no field is set.
func (u Update) IsZero() bool {
	return u.Score == nil && u.Classification == nil && u.Stage == nil
}

// Interaction is one audit-trail record written by an agent or a person.
// LeadID is nil for events that could not be tied to a lead.
type Interaction struct {
	ID        uuid.UUID      `json:"id"`
	LeadID    *uuid.UUID     `json:"lead_id"`
	LeadName  *string        `json:"lead_name,omitempty"`
	Agent     string         `json:"agent"`
	Action    string         `json:"action"`
	Status    string         `json:"status"`
	Details   map[string]any `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}

// ScheduledAction is a deferred follow-up recorded for a lead.
type ScheduledAction struct {
	ID           uuid.UUID  `json:"id"`
	LeadID       *uuid.UUID `json:"lead_id"`
	LeadName     *string    `json:"lead_name,omitempty"`
	ActionName   string     `json:"action_name"`
	ScheduledFor time.Time  `json:"scheduled_for"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DashboardStats aggregates the lead table for dashboards and the
// conversion-probability estimate.
type DashboardStats struct {
	TotalLeads           int            `json:"total_leads"`
	HotLeads             int            `json:"hot_leads"`
	StageCounts          map[string]int `json:"stage_counts"`
	ClassificationCounts map[string]int `json:"classification_counts"`
	RecentInteractions   int            `json:"recent_interactions"`
	ConversionRate       float64        `json:"conversion_rate"`
	PipelineValue        float64        `json:"pipeline_value"`
}

// Forecast estimates revenue from leads in late pipeline stages.
type Forecast struct {
	EstimatedRevenue float64        `json:"estimated_revenue"`
	BudgetBreakdown  map[string]int `json:"budget_breakdown"`
	Currency         string         `json:"currency"`
}

// Metrics is the combined payload served to the dashboard.
type Metrics struct {
	Stats          DashboardStats `json:"stats"`
	PipelineCounts map[string]int `json:"pipeline_counts"`
	Forecast       Forecast       `json:"forecast_revenue"`
}

// StageChange reports the outcome of a manual stage update or action.
type StageChange struct {
	LeadID   uuid.UUID `json:"lead_id"`
	Action   string    `json:"action"`
	NewStage Stage     `json:"new_stage"`
	Notes    string    `json:"notes,omitempty"`
}
