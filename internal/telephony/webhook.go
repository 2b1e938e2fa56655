package telephony

import (
	"fmt"
	"strconv"
)

// AgentVoiceProvider labels interactions recorded from provider callbacks.
const AgentVoiceProvider = "VOICE_PROVIDER"

// Event is a provider callback reduced to the fields the CRM records.
type Event struct {
	CallID     string         `json:"call_id,omitempty"`
	Status     string         `json:"status,omitempty"`
	Event      string         `json:"event,omitempty"`
	Transcript any            `json:"transcript,omitempty"`
	Raw        map[string]any `json:"raw"`
}

// Details returns the event as an interaction details map.
func (e Event) Details() map[string]any {
	d := map[string]any{"raw": e.Raw}
	if e.CallID != "" {
		d["call_id"] = e.CallID
	}
	if e.Status != "" {
		d["status"] = e.Status
	}
	if e.Event != "" {
		d["event"] = e.Event
	}
	if e.Transcript != nil {
		d["transcript"] = e.Transcript
	}
	return d
}

// InteractionStatus is the event status, or "received" when the provider sent none.
func (e Event) InteractionStatus() string {
	if e.Status == "" {
		return "received"
	}
	return e.Status
}

// NormalizeWebhook maps a Vapi or AiSensy callback body onto Event. Bodies
// from unknown providers are kept only as Raw.
func NormalizeWebhook(provider string, body map[string]any) Event {
	if body == nil {
		body = map[string]any{}
	}
	ev := Event{Raw: body}

	p, err := ResolveProvider(provider)
	if err != nil {
		return ev
	}

	switch p {
	case ProviderVapi:
		ev.CallID = first(body, "id", "callId")
		ev.Event = first(body, "event")
	case ProviderSensy:
		ev.CallID = first(body, "call_id", "id")
		ev.Event = first(body, "event_type", "event")
	}
	ev.Status = first(body, "status")
	ev.Transcript = body["transcript"]
	return ev
}

// first returns the first non-empty value among keys, as a string.
func first(body map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := body[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case float64:
			s = strconv.FormatFloat(t, 'f', -1, 64)
		default:
			s = fmt.Sprint(t)
		}
		if s != "" {
			return s
		}
	}
	return ""
}
