package domain

import "errors"

// Typed failures the service returns. Handlers translate these into HTTP
// status codes; nothing else escapes the core as an untyped error.
var (
	// ErrInvalidParameter rejects construction parameters before any
	// session state exists.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotFound is returned for lookups of unknown session ids.
	ErrNotFound = errors.New("session not found")

	// ErrInvalidAction is returned for action names outside the enumeration.
	ErrInvalidAction = errors.New("invalid action")
)
