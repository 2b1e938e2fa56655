package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/concierge/internal/leads"
)

// Conversion probability bounds.
const (
	MinProbability = 0.05
	MaxProbability = 0.95
)

// ConversionProbability estimates the chance a lead converts from its score
// and the share of hot leads across the whole store.
func ConversionProbability(score, hotLeads, totalLeads int) float64 {
	var hotRatio float64
	if totalLeads > 0 {
		hotRatio = float64(hotLeads) / float64(totalLeads)
	}
	p := 0.2 + 0.5*hotRatio + float64(score)/200.0
	return min(MaxProbability, max(MinProbability, p))
}

func updateMetrics(ctx context.Context, rt *Runtime, _ string, s State) (State, outcome, error) {
	next := leads.StageQualified
	if s.Classification == leads.ClassHot {
		next = leads.StageOpportunity
	}

	if _, err := rt.Leads.UpdateLead(ctx, s.LeadID, leads.Update{Stage: &next}); err != nil {
		return s, outcome{}, fmt.Errorf("advance stage: %w", err)
	}
	s.LeadStage = next

	stats, err := rt.Leads.DashboardStats(ctx)
	if err != nil {
		return s, outcome{}, fmt.Errorf("dashboard stats: %w", err)
	}

	p := ConversionProbability(s.LeadScore, stats.HotLeads, stats.TotalLeads)
	s.EstimatedConversionProbability = p

	details := map[string]any{
		"lead_stage":  next,
		"probability": p,
	}
	return s, outcome{
		status:  StatusExecuted,
		details: details,
		audit: map[string]any{
			"lead_stage":  next,
			"probability": p,
			"dashboard":   stats,
		},
	}, nil
}
