package leads

import (
	"errors"
	"net/http"
)

// Domain errors for lead operations.
var (
	ErrNotFound      = errors.New("lead not found")
	ErrDuplicate     = errors.New("lead already exists for workflow")
	ErrMissingField  = errors.New("missing required field")
	ErrInvalidStage  = errors.New("invalid stage")
	ErrInvalidAction = errors.New("invalid action")
	ErrInvalidID     = errors.New("invalid lead id")
	ErrEmptyUpdate   = errors.New("no fields to update")
)

// MapHTTPStatus maps lead domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrMissingField),
		errors.Is(err, ErrInvalidStage),
		errors.Is(err, ErrInvalidAction),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrEmptyUpdate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
