package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/concierge/internal/leads"
)

const (
	hotCallbackHours     = 4
	defaultCallbackHours = 24
)

// scheduleAndCall books the qualification call and, when a call provider is
// configured, dials the lead immediately. A failed call does not fail the stage.
func scheduleAndCall(ctx context.Context, rt *Runtime, workflowID string, s State) (State, outcome, error) {
	hours := defaultCallbackHours
	if s.Classification == leads.ClassHot {
		hours = hotCallbackHours
	}
	when := rt.after(hours)

	if err := rt.Leads.ScheduleAction(ctx, s.LeadID, "qualification_call", when); err != nil {
		return s, outcome{}, err
	}

	contacted := leads.StageContacted
	if _, err := rt.Leads.UpdateLead(ctx, s.LeadID, leads.Update{Stage: &contacted}); err != nil {
		return s, outcome{}, fmt.Errorf("advance stage: %w", err)
	}
	s.LeadStage = contacted

	details := map[string]any{"scheduled_time": when.Format(time.RFC3339)}

	if rt.Voice != nil {
		ok, info := rt.Voice.InitiateCall(ctx, s.LeadData.Phone, map[string]any{
			"lead_name":     s.LeadData.Name,
			"lead_interest": s.LeadData.Interest,
			"workflow_id":   workflowID,
			"lead_id":       s.LeadID.String(),
		})
		details["call_initiated"] = ok
		details["call_info"] = info
		details["provider"] = rt.Voice.Provider()
	}

	return s, outcome{status: StatusScheduled, details: details}, nil
}
