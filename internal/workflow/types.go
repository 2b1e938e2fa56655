package workflow

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/concierge/internal/leads"
)

// KeyState is the graph state key that carries the workflow State value.
const KeyState = "lead_workflow"

// Trigger names the event that started a workflow. Every trigger runs the
// same six stages.
type Trigger string

const (
	TriggerNewLead          Trigger = "new_lead"
	TriggerFollowUp         Trigger = "follow_up"
	TriggerQuotationRequest Trigger = "quotation_request"
	TriggerDealClosing      Trigger = "deal_closing"
)

// Triggers lists the accepted triggers.
var Triggers = []Trigger{
	TriggerNewLead,
	TriggerFollowUp,
	TriggerQuotationRequest,
	TriggerDealClosing,
}

// ParseTrigger validates a trigger name.
func ParseTrigger(name string) (Trigger, error) {
	t := Trigger(name)
	if !slices.Contains(Triggers, t) {
		return "", ErrInvalidTrigger
	}
	return t, nil
}

// Stage names, in execution order.
const (
	StageLeadIntelligence = "lead_intelligence"
	StageVoice            = "voice"
	StageEmail            = "email"
	StageDocument         = "document"
	StageAnalytics        = "analytics"
	StageAutomation       = "automation"
)

// Agent labels written to the interaction log.
const (
	AgentLeadIntelligence = "LEAD_INTELLIGENCE_AGENT"
	AgentVoice            = "VOICE_AGENT"
	AgentEmail            = "EMAIL_ORCHESTRATION_AGENT"
	AgentDocument         = "DOCUMENT_GENERATION_AGENT"
	AgentAnalytics        = "CRM_ANALYTICS_AGENT"
	AgentAutomation       = "WORKFLOW_AUTOMATION_AGENT"
)

// Stage outcome statuses.
const (
	StatusExecuted  = "executed"
	StatusScheduled = "scheduled"
	StatusPending   = "pending"
	StatusFailed    = "failed"
)

// Aggregate run statuses.
const (
	RunCompleted  = "completed"
	RunInProgress = "in_progress"
	RunFailed     = "failed"
)

// LogEntry is one stage's record in the executed-agents log.
type LogEntry struct {
	Stage     string         `json:"stage"`
	Agent     string         `json:"agent"`
	Action    string         `json:"action"`
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details"`
}

// ScheduledAction is a follow-up planned by the automation stage.
type ScheduledAction struct {
	Action        string    `json:"action"`
	ScheduledTime time.Time `json:"scheduled_time"`
}

// State is the value threaded through the stages. Stages return a new State
// rather than mutating shared data; the slices are clipped before append so
// two State values never share a backing array.
type State struct {
	LeadData                       leads.LeadData       `json:"lead_data"`
	LeadID                         uuid.UUID            `json:"lead_id"`
	LeadScore                      int                  `json:"lead_score"`
	Classification                 leads.Classification `json:"classification"`
	LeadStage                      leads.Stage          `json:"lead_stage"`
	EmailStatus                    map[string]any       `json:"email_status,omitempty"`
	DocumentStatus                 map[string]any       `json:"document_status,omitempty"`
	ScheduledActions               []ScheduledAction    `json:"scheduled_actions"`
	ExecutedAgents                 []LogEntry           `json:"executed_agents"`
	EstimatedConversionProbability float64              `json:"estimated_conversion_probability"`
}

func (s State) record(entry LogEntry) State {
	s.ExecutedAgents = append(slices.Clip(s.ExecutedAgents), entry)
	return s
}

// Failed counts the failed entries in the executed-agents log.
func (s State) Failed() int {
	n := 0
	for _, e := range s.ExecutedAgents {
		if e.Status == StatusFailed {
			n++
		}
	}
	return n
}

// NextActions returns the names of the scheduled follow-ups.
func (s State) NextActions() []string {
	names := make([]string, len(s.ScheduledActions))
	for i, a := range s.ScheduledActions {
		names[i] = a.Action
	}
	return names
}

// WorkflowResult is the response of a completed run.
type WorkflowResult struct {
	WorkflowID                     string               `json:"workflow_id"`
	Trigger                        Trigger              `json:"trigger"`
	Status                         string               `json:"status"`
	LeadID                         uuid.UUID            `json:"lead_id"`
	ExecutedAgents                 []LogEntry           `json:"executed_agents"`
	LeadStage                      leads.Stage          `json:"lead_stage"`
	LeadScore                      int                  `json:"lead_score"`
	Classification                 leads.Classification `json:"classification"`
	NextActions                    []string             `json:"next_actions"`
	EstimatedConversionProbability float64              `json:"estimated_conversion_probability"`
}

// AggregateStatus maps a failure count to the run status: three or more
// failures fail the run, one or two leave it in progress.
func AggregateStatus(failures int) string {
	switch {
	case failures >= 3:
		return RunFailed
	case failures >= 1:
		return RunInProgress
	default:
		return RunCompleted
	}
}
