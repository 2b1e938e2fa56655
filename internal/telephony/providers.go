package telephony

import "strings"

type vapiDialer struct{ cfg VapiConfig }

func vapi(cfg VapiConfig) dialer { return vapiDialer{cfg: cfg} }

func (vapiDialer) label() string { return "Vapi" }

func (d vapiDialer) request(toPhone, webhookURL string, payload map[string]any) (callRequest, string) {
	if d.cfg.BaseURL == "" || d.cfg.APIKey == "" || d.cfg.FlowID == "" {
		return callRequest{}, "vapi base_url/api_key/flow_id"
	}
	return callRequest{
		url: strings.TrimRight(d.cfg.BaseURL, "/") + "/calls",
		body: map[string]any{
			"to":         toPhone,
			"from":       d.cfg.CallerID,
			"flowId":     d.cfg.FlowID,
			"variables":  payload,
			"webhookUrl": webhookURL,
		},
	}, ""
}

type sensyDialer struct{ cfg SensyConfig }

func sensy(cfg SensyConfig) dialer { return sensyDialer{cfg: cfg} }

func (sensyDialer) label() string { return "Sensy" }

func (d sensyDialer) request(toPhone, webhookURL string, payload map[string]any) (callRequest, string) {
	if d.cfg.BaseURL == "" || d.cfg.APIKey == "" || d.cfg.CampaignID == "" {
		return callRequest{}, "sensy base_url/api_key/campaign_id"
	}
	return callRequest{
		url: strings.TrimRight(d.cfg.BaseURL, "/") + "/outbound",
		body: map[string]any{
			"campaignId": d.cfg.CampaignID,
			"to":         toPhone,
			"callerId":   d.cfg.CallerID,
			"meta":       payload,
			"webhookUrl": webhookURL,
		},
	}, ""
}
