package mail

import "errors"

var (
	ErrNotConfigured = errors.New("smtp credentials not configured")
	ErrNoRecipient   = errors.New("message has no recipient")
)
