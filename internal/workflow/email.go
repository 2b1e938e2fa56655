package workflow

import (
	"context"
	"maps"

	"github.com/JaimeStill/concierge/internal/leads"
	"github.com/JaimeStill/concierge/internal/mail"
)

// Welcome template tiers.
const (
	TemplateVIP      = string(mail.TierVIP)
	TemplateHot      = string(mail.TierHot)
	TemplateStandard = string(mail.TierStandard)
)

const defaultCustomerName = "Valued Customer"

// WelcomeTemplate selects the welcome tier for a classification.
func WelcomeTemplate(class leads.Classification) string {
	switch class {
	case leads.ClassVIP:
		return TemplateVIP
	case leads.ClassHot:
		return TemplateHot
	default:
		return TemplateStandard
	}
}

func sendWelcome(ctx context.Context, rt *Runtime, _ string, s State) (State, outcome, error) {
	template := WelcomeTemplate(s.Classification)
	content, err := mail.Welcome(rt.Brand, mail.Tier(template), customerName(s.LeadData), s.LeadData.Interest)
	if err != nil {
		return s, outcome{}, err
	}

	ok, info := rt.Mailer.Send(ctx, content.Message(s.LeadData.Email))

	status := map[string]any{
		"template": template,
		"sent":     ok,
	}
	maps.Copy(status, info)
	s.EmailStatus = status

	return s, outcome{status: sentStatus(ok), details: status}, nil
}

func customerName(d leads.LeadData) string {
	if d.Name == "" {
		return defaultCustomerName
	}
	return d.Name
}

func sentStatus(ok bool) string {
	if ok {
		return StatusExecuted
	}
	return StatusFailed
}
