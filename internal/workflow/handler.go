package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/JaimeStill/concierge/internal/leads"
	"github.com/JaimeStill/concierge/pkg/handlers"
	"github.com/JaimeStill/concierge/pkg/routes"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// SampleLead is the prospect used by the test endpoint when the request
// does not override it.
var SampleLead = leads.LeadData{
	Name:        "Rajesh Sharma",
	Phone:       "+919876543210",
	Email:       "rajesh@example.com",
	Source:      "website_form",
	Interest:    "Rolls-Royce Phantom",
	BudgetRange: "8-10 crore",
}

// NewWorkflowID formats wf_<UTC yyyymmddhhmmss + microseconds>_<6 random chars>.
func NewWorkflowID(at time.Time) string {
	at = at.UTC()
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return fmt.Sprintf("wf_%s%06d_%s", at.Format("20060102150405"), at.Nanosecond()/1000, suffix)
}

// Request is the body accepted by the run and test endpoints.
type Request struct {
	Trigger  string         `json:"trigger"`
	LeadData leads.LeadData `json:"lead_data"`
}

// Handler serves the workflow endpoints.
type Handler struct {
	rt          *Runtime
	logger      *slog.Logger
	maxBodySize int64
}

// NewHandler creates a Handler that runs workflows against rt.
func NewHandler(rt *Runtime, logger *slog.Logger, maxBodySize int64) *Handler {
	return &Handler{
		rt:          rt,
		logger:      logger.With("handler", "workflows"),
		maxBodySize: maxBodySize,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/workflows",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/run", Handler: h.Run},
			{Method: "POST", Pattern: "/test", Handler: h.Test},
		},
	}
}

// Run executes a workflow for the submitted lead.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := h.decode(w, r, &req, false); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	h.execute(w, r, req)
}

// Test executes a workflow for the sample lead, overlaid with any fields
// present in the request body.
func (h *Handler) Test(w http.ResponseWriter, r *http.Request) {
	req := Request{Trigger: string(TriggerNewLead), LeadData: SampleLead}
	if err := h.decode(w, r, &req, true); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	h.execute(w, r, req)
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request, req Request) {
	trigger, err := ParseTrigger(req.Trigger)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), fmt.Errorf("%w: %q", err, req.Trigger))
		return
	}

	data := req.LeadData.Sanitize()
	if err := data.Validate(); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	id := NewWorkflowID(time.Now())
	result := Execute(r.Context(), h.rt, id, trigger, data)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst *Request, allowEmpty bool) error {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && allowEmpty:
		return nil
	default:
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
}
