package leads

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/concierge/pkg/handlers"
	"github.com/JaimeStill/concierge/pkg/pagination"
	"github.com/JaimeStill/concierge/pkg/routes"
)

// Handler provides HTTP endpoints for the lead store.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

type stageRequest struct {
	Stage  Stage  `json:"stage"`
	Action string `json:"action"`
	Notes  string `json:"notes"`
}

type actionRequest struct {
	Action string `json:"action"`
	Notes  string `json:"notes"`
}

// NewHandler creates a Handler for the given lead system.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "leads"),
		pagination: pagination,
	}
}

// Routes returns the lead endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/leads",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/interactions", Handler: h.Interactions},
			{Method: "PUT", Pattern: "/{id}/stage", Handler: h.UpdateStage},
			{Method: "POST", Pattern: "/{id}/actions", Handler: h.Action},
		},
	}
}

// DashboardRoutes returns the metrics and pipeline board endpoints.
func (h *Handler) DashboardRoutes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/metrics", Handler: h.Metrics},
			{Method: "GET", Pattern: "/kanban", Handler: h.Kanban},
		},
	}
}

// List returns a page of leads filtered by query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.leadID(w, r)
	if !ok {
		return
	}

	lead, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, lead)
}

// Interactions returns a lead's audit trail, newest first. ?limit caps the count.
func (h *Handler) Interactions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.leadID(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.sys.Interactions(r.Context(), id, limit)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// UpdateStage moves a lead to an explicit stage on behalf of a sales manager.
func (h *Handler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.leadID(w, r)
	if !ok {
		return
	}

	var req stageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), fmt.Errorf("%w: %w", ErrInvalidStage, err))
		return
	}
	if req.Stage == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidStage)
		return
	}

	change, err := h.sys.SetStage(r.Context(), id, req.Stage, req.Action, req.Notes)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, change)
}

// Action applies a named sales-manager action (hold, qualify, close_won, ...).
func (h *Handler) Action(w http.ResponseWriter, r *http.Request) {
	id, ok := h.leadID(w, r)
	if !ok {
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), fmt.Errorf("%w: %w", ErrInvalidAction, err))
		return
	}
	if req.Action == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidAction)
		return
	}

	change, err := h.sys.ApplyAction(r.Context(), id, req.Action, req.Notes)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, change)
}

func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.sys.Metrics(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, m)
}

func (h *Handler) Kanban(w http.ResponseWriter, r *http.Request) {
	items, err := h.sys.Kanban(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

func (h *Handler) leadID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
