// Package workflow implements the lead workflow: six fixed stages
// (lead intelligence, voice, email, document, analytics, automation) run in
// order over a go-agents-orchestration state graph. Each stage records its
// own outcome and the run reports an aggregate status from those records.
package workflow

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/concierge/internal/leads"
)

// Sentinel errors for workflow operations.
var (
	ErrInvalidTrigger = errors.New("invalid trigger")
	ErrMissingState   = errors.New("workflow state missing from graph state")
	ErrStagePanic     = errors.New("stage panicked")
	ErrInvalidRequest = errors.New("invalid workflow request")
)

// MapHTTPStatus maps workflow request errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidTrigger),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, leads.ErrMissingField):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
