package telephony

import (
	"errors"
	"net/http"
)

var (
	ErrUnknownProvider = errors.New("unknown voice provider")
	ErrNotConfigured   = errors.New("voice provider not configured")
	ErrMissingPhone    = errors.New("to_phone is required")
)

// MapHTTPStatus maps telephony errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrMissingPhone), errors.Is(err, ErrUnknownProvider):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
