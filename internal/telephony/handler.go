package telephony

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/concierge/internal/leads"
	"github.com/JaimeStill/concierge/pkg/handlers"
	"github.com/JaimeStill/concierge/pkg/routes"
)

// Recorder persists webhook events to the interaction audit trail. Find
// confirms that a callback's lead exists before the event is tied to it.
type Recorder interface {
	Find(ctx context.Context, id uuid.UUID) (*leads.Lead, error)
	LogInteraction(ctx context.Context, leadID uuid.UUID, agent, action, status string, details map[string]any) error
}

// Handler serves manual outbound calls and provider webhooks.
type Handler struct {
	caller   Caller
	recorder Recorder
	logger   *slog.Logger
}

type manualCall struct {
	ToPhone   string         `json:"to_phone"`
	Variables map[string]any `json:"variables"`
}

type callResponse struct {
	Provider string         `json:"provider"`
	OK       bool           `json:"ok"`
	Info     map[string]any `json:"info"`
}

// NewHandler creates a Handler. caller may be nil when no provider is configured.
func NewHandler(caller Caller, recorder Recorder, logger *slog.Logger) *Handler {
	return &Handler{
		caller:   caller,
		recorder: recorder,
		logger:   logger.With("handler", "voice"),
	}
}

// Routes returns the voice endpoints. guard wraps the call endpoint only;
// providers reach the webhook without credentials.
func (h *Handler) Routes(guard ...func(http.Handler) http.Handler) routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/webhook/{provider}", Handler: h.Webhook},
		},
		Children: []routes.Group{
			{
				Middleware: guard,
				Routes: []routes.Route{
					{Method: "POST", Pattern: "/call", Handler: h.Call},
				},
			},
		},
	}
}

func (h *Handler) Call(w http.ResponseWriter, r *http.Request) {
	if h.caller == nil {
		handlers.RespondError(w, h.logger, http.StatusServiceUnavailable, ErrNotConfigured)
		return
	}

	var req manualCall
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), fmt.Errorf("%w: %w", ErrMissingPhone, err))
		return
	}
	if req.ToPhone == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingPhone)
		return
	}

	ok, info := h.caller.InitiateCall(r.Context(), req.ToPhone, req.Variables)
	status := http.StatusOK
	if !ok {
		status = http.StatusBadGateway
	}

	handlers.RespondJSON(w, status, callResponse{Provider: h.caller.Provider(), OK: ok, Info: info})
}

// Webhook records a provider callback. Malformed bodies are recorded as
// empty events. ?lead_id= ties the event to a lead when it names a stored
// one; otherwise the event is recorded without a lead and the id is kept in
// the details.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		body = map[string]any{}
	}

	ev := NormalizeWebhook(r.PathValue("provider"), body)
	details := ev.Details()

	leadID, err := h.resolveLead(r.Context(), r.URL.Query().Get("lead_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	if leadID == uuid.Nil && r.URL.Query().Has("lead_id") {
		details["unmatched_lead_id"] = r.URL.Query().Get("lead_id")
	}

	err = h.recorder.LogInteraction(
		r.Context(), leadID,
		AgentVoiceProvider, "webhook_event", ev.InteractionStatus(),
		details,
	)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// resolveLead returns the id of a stored lead, or uuid.Nil when raw does not
// parse or names no lead.
func (h *Handler) resolveLead(ctx context.Context, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, nil
	}

	if _, err := h.recorder.Find(ctx, id); err != nil {
		if errors.Is(err, leads.ErrNotFound) {
			h.logger.WarnContext(ctx, "webhook names unknown lead", "lead_id", id)
			return uuid.Nil, nil
		}
		return uuid.Nil, fmt.Errorf("find lead: %w", err)
	}
	return id, nil
}
