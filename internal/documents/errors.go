package documents

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/concierge/pkg/storage"
)

var (
	ErrRenderFailed    = errors.New("document render failed")
	ErrInvalidPDF      = errors.New("generated document is not a valid pdf")
	ErrArchiveDisabled = errors.New("document archive not configured")
)

// MapHTTPStatus maps document and storage errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrArchiveDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, storage.ErrEmptyKey),
		errors.Is(err, storage.ErrInvalidKey):
		return storage.MapHTTPStatus(err)
	default:
		return http.StatusInternalServerError
	}
}
