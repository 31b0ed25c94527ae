package domain

import "errors"

// Sentinel errors shared across services and repositories. Controllers map
// these to HTTP status codes at the transport boundary.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrHostNotFound       = errors.New("host not found")
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateRSVP      = errors.New("already RSVP'd to this event")
	ErrDuplicateSlug      = errors.New("slug already in use")
	ErrValidation         = errors.New("invalid input")

	// Guest self-service actions blocked by the event's policy flags.
	ErrModificationsClosed = errors.New("modifications are not allowed for this event")
	ErrCancellationsClosed = errors.New("cancellations are not allowed for this event")
)
