package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Stage is one step of the lead workflow. A Stage never fails: any fault is
// recorded as a failed entry on the returned State.
type Stage func(ctx context.Context, rt *Runtime, workflowID string, s State) State

// outcome is a successful stage body's result. audit, when set, replaces
// details in the persisted interaction.
type outcome struct {
	status  string
	details map[string]any
	audit   map[string]any
}

type body func(ctx context.Context, rt *Runtime, workflowID string, s State) (State, outcome, error)

type step struct {
	name   string
	agent  string
	action string
	body   body
}

// node pairs a stage with its graph node name.
type node struct {
	name string
	run  Stage
}

// stages is the fixed execution order.
var stages = []node{
	newStep(StageLeadIntelligence, AgentLeadIntelligence, "capture_and_score", captureAndScore),
	newStep(StageVoice, AgentVoice, "schedule_and_call", scheduleAndCall),
	newStep(StageEmail, AgentEmail, "send_welcome_email", sendWelcome),
	newStep(StageDocument, AgentDocument, "generate_documents", generateDocuments),
	newStep(StageAnalytics, AgentAnalytics, "update_metrics", updateMetrics),
	newStep(StageAutomation, AgentAutomation, "schedule_followups", scheduleFollowUps),
}

func newStep(name, agent, action string, b body) node {
	st := step{name: name, agent: agent, action: action, body: b}
	return node{name: name, run: st.run}
}

func (st step) run(ctx context.Context, rt *Runtime, workflowID string, s State) State {
	next, out, err := st.safely(ctx, rt, workflowID, s)
	if err != nil {
		return st.fail(ctx, rt, workflowID, s, err)
	}

	audit := out.audit
	if audit == nil {
		audit = out.details
	}
	if err := rt.Leads.LogInteraction(ctx, next.LeadID, st.agent, st.action, out.status, audit); err != nil {
		return st.fail(ctx, rt, workflowID, s, err)
	}

	rt.Logger.InfoContext(
		ctx, st.name+" stage complete",
		"workflow_id", workflowID,
		"lead_id", next.LeadID,
		"status", out.status,
	)

	return next.record(st.entry(rt, out.status, out.details))
}

func (st step) safely(ctx context.Context, rt *Runtime, workflowID string, s State) (next State, out outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrStagePanic, r)
		}
	}()
	return st.body(ctx, rt, workflowID, s)
}

// fail records a failed entry on the stage's input state. The failure is
// persisted only when the lead already exists.
func (st step) fail(ctx context.Context, rt *Runtime, workflowID string, s State, err error) State {
	rt.Logger.ErrorContext(
		ctx, st.name+" stage failed",
		"workflow_id", workflowID,
		"lead_id", s.LeadID,
		"error", err,
	)

	details := map[string]any{"error": err.Error()}
	if s.LeadID != uuid.Nil {
		if lerr := rt.Leads.LogInteraction(ctx, s.LeadID, st.agent, st.action, StatusFailed, details); lerr != nil {
			rt.Logger.WarnContext(ctx, "failed to persist stage failure", "stage", st.name, "error", lerr)
		}
	}

	return s.record(st.entry(rt, StatusFailed, details))
}

func (st step) entry(rt *Runtime, status string, details map[string]any) LogEntry {
	return LogEntry{
		Stage:     st.name,
		Agent:     st.agent,
		Action:    st.action,
		Status:    status,
		Timestamp: rt.now(),
		Details:   details,
	}
}
