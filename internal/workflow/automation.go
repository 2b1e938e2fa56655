package workflow

import (
	"context"
	"strings"

	"github.com/JaimeStill/concierge/internal/leads"
)

var followUps = map[leads.Classification][]string{
	leads.ClassHot: {
		"qualification_call_in_4h",
		"quotation_generation_after_call",
		"followup_email_in_1_day",
	},
	leads.ClassWarm: {
		"qualification_call_in_24h",
		"brochure_email_in_2_days",
		"followup_email_in_3_days",
	},
	leads.ClassCold: {
		"nurture_email_sequence_weekly",
	},
	leads.ClassVIP: {
		"vip_concierge_outreach_in_4h",
		"private_viewing_invite_in_2_days",
		"bespoke_configuration_session_in_3_days",
	},
}

// hourHints are matched in order against the action name.
var hourHints = []struct {
	marker string
	hours  int
}{
	{"4h", 4},
	{"1_day", 24},
	{"2_days", 48},
	{"3_days", 72},
}

const defaultFollowUpHours = 168

// FollowUps returns the follow-up actions for a classification. Unknown
// classifications get the cold-lead sequence.
func FollowUps(class leads.Classification) []string {
	actions, ok := followUps[class]
	if !ok {
		actions = followUps[leads.ClassCold]
	}
	return actions
}

// HoursUntil reads the delay embedded in an action name. Names are matched
// by substring, so "in_24h" resolves to 4 hours.
func HoursUntil(action string) int {
	for _, h := range hourHints {
		if strings.Contains(action, h.marker) {
			return h.hours
		}
	}
	return defaultFollowUpHours
}

func scheduleFollowUps(ctx context.Context, rt *Runtime, _ string, s State) (State, outcome, error) {
	actions := FollowUps(s.Classification)
	scheduled := make([]ScheduledAction, 0, len(actions))

	for _, name := range actions {
		when := rt.after(HoursUntil(name))
		if err := rt.Leads.ScheduleAction(ctx, s.LeadID, name, when); err != nil {
			return s, outcome{}, err
		}
		scheduled = append(scheduled, ScheduledAction{Action: name, ScheduledTime: when})
	}
	s.ScheduledActions = scheduled

	return s, outcome{
		status:  StatusScheduled,
		details: map[string]any{"actions": scheduled},
	}, nil
}
