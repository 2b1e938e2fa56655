package leads

import (
	"database/sql"
	"encoding/json"
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/concierge/pkg/query"
	"github.com/JaimeStill/concierge/pkg/repository"
)

var leadProjection = query.
	NewProjectionMap("leads", "l").
	Project("id", "ID").
	Project("workflow_id", "WorkflowID").
	Project("name", "Name").
	Project("phone", "Phone").
	Project("email", "Email").
	Project("source", "Source").
	Project("interest", "Interest").
	Project("budget_range", "BudgetRange").
	Project("existing_customer", "ExistingCustomer").
	Project("score", "Score").
	Project("classification", "Classification").
	Project("stage", "Stage").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var interactionProjection = query.
	NewProjectionMap("interactions", "i").
	Project("id", "ID").
	Project("lead_id", "LeadID").
	ProjectFrom("l", "name", "LeadName").
	Project("agent", "Agent").
	Project("action", "Action").
	Project("status", "Status").
	Project("details", "Details").
	Project("created_at", "CreatedAt").
	Join("LEFT JOIN", "leads", "l", "i.lead_id = l.id")

var scheduleProjection = query.
	NewProjectionMap("scheduled_actions", "s").
	Project("id", "ID").
	Project("lead_id", "LeadID").
	ProjectFrom("l", "name", "LeadName").
	Project("action_name", "ActionName").
	Project("scheduled_for", "ScheduledFor").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Join("LEFT JOIN", "leads", "l", "s.lead_id = l.id")

var newestFirst = query.SortField{Field: "CreatedAt", Descending: true}

// Filters narrows lead listings. Nil fields are ignored.
type Filters struct {
	Stage          *string `json:"stage,omitempty"`
	Classification *string `json:"classification,omitempty"`
	Source         *string `json:"source,omitempty"`
	Interest       *string `json:"interest,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Stage", f.Stage).
		WhereEquals("Classification", f.Classification).
		WhereEquals("Source", f.Source).
		WhereContains("Interest", f.Interest)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if v := values.Get("stage"); v != "" {
		f.Stage = &v
	}
	if v := values.Get("classification"); v != "" {
		f.Classification = &v
	}
	if v := values.Get("source"); v != "" {
		f.Source = &v
	}
	if v := values.Get("interest"); v != "" {
		f.Interest = &v
	}
	return f
}

func scanLead(s repository.Scanner) (Lead, error) {
	var l Lead
	err := s.Scan(
		&l.ID,
		&l.WorkflowID,
		&l.Name,
		&l.Phone,
		&l.Email,
		&l.Source,
		&l.Interest,
		&l.BudgetRange,
		&l.ExistingCustomer,
		&l.Score,
		&l.Classification,
		&l.Stage,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	return l, err
}

func scanInteraction(s repository.Scanner) (Interaction, error) {
	var (
		i        Interaction
		leadID   uuid.NullUUID
		leadName sql.NullString
		details  []byte
	)
	err := s.Scan(
		&i.ID,
		&leadID,
		&leadName,
		&i.Agent,
		&i.Action,
		&i.Status,
		&details,
		&i.CreatedAt,
	)
	if err != nil {
		return i, err
	}

	if leadID.Valid {
		i.LeadID = &leadID.UUID
	}
	if leadName.Valid {
		i.LeadName = &leadName.String
	}
	i.Details = decodeDetails(details)
	return i, nil
}

func scanScheduledAction(s repository.Scanner) (ScheduledAction, error) {
	var (
		a        ScheduledAction
		leadID   uuid.NullUUID
		leadName sql.NullString
	)
	err := s.Scan(
		&a.ID,
		&leadID,
		&leadName,
		&a.ActionName,
		&a.ScheduledFor,
		&a.Status,
		&a.CreatedAt,
	)
	if err != nil {
		return a, err
	}

	if leadID.Valid {
		a.LeadID = &leadID.UUID
	}
	if leadName.Valid {
		a.LeadName = &leadName.String
	}
	return a, nil
}

// Undecodable details are surfaced under "raw" rather than dropped.
func decodeDetails(data []byte) map[string]any {
	if len(data) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{"raw": string(data)}
	}
	return m
}

func encodeDetails(details map[string]any) (any, error) {
	if len(details) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// nullableID maps uuid.Nil to SQL NULL.
func nullableID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}
