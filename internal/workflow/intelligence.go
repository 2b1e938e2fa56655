package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/concierge/internal/leads"
	"github.com/JaimeStill/concierge/internal/scoring"
)

// captureAndScore scores the lead, persists it and applies the VIP override
// for existing customers.
func captureAndScore(ctx context.Context, rt *Runtime, workflowID string, s State) (State, outcome, error) {
	d := s.LeadData
	score := scoring.Clamp(rt.Scorer.Score(ctx, d.BudgetRange, d.Interest, d.Source))
	class := leads.Classify(score)

	id, err := rt.Leads.InsertLead(ctx, workflowID, d, score, class)
	if err != nil {
		return s, outcome{}, fmt.Errorf("insert lead: %w", err)
	}

	if d.ExistingCustomer {
		class = leads.ClassVIP
		if _, err := rt.Leads.UpdateLead(ctx, id, leads.Update{Classification: &class}); err != nil {
			return s, outcome{}, fmt.Errorf("apply vip classification: %w", err)
		}
	}

	s.LeadScore = score
	s.Classification = class
	s.LeadID = id
	s.LeadStage = leads.StageNew

	return s, outcome{
		status: StatusExecuted,
		details: map[string]any{
			"score":          score,
			"classification": class,
		},
	}, nil
}
