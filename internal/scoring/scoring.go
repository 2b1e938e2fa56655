// Package scoring rates automotive leads on a 0-100 scale. A model-backed
// scorer asks a chat model for the score and falls back to a keyword
// heuristic whenever the model is unavailable or answers without a number.
package scoring

import (
	"context"
	"slices"
	"strings"
)

// Scorer produces a lead score in [0, 100]. Implementations never fail; a
// scorer that cannot reach its backend degrades to the heuristic.
type Scorer interface {
	Score(ctx context.Context, budgetRange, interest, source string) int
}

const heuristicBase = 50

var (
	budgetMarkers  = []string{"10", "12", "15", "crore"}
	premiumSources = []string{"referral", "website_form"}
	marqueeModels  = []string{"rolls", "bentley", "ghost", "phantom", "flying spur"}
)

// Heuristic scores leads from keywords in the budget, source and vehicle of interest.
type Heuristic struct{}

func (Heuristic) Score(_ context.Context, budgetRange, interest, source string) int {
	score := heuristicBase

	if containsAny(strings.ToLower(budgetRange), budgetMarkers) {
		score += 20
	}
	if slices.Contains(premiumSources, source) {
		score += 10
	}
	if containsAny(strings.ToLower(interest), marqueeModels) {
		score += 10
	}

	return Clamp(score)
}

// Clamp bounds a score to [0, 100].
func Clamp(score int) int {
	return max(0, min(100, score))
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
