package livesource

import "errors"

// Typed connect failures. The supervisor's retry table keys off these
// via errors.Is; anything else is treated as a generic failure.
var (
	// ErrUserOffline means the handle exists but is not broadcasting.
	// Terminal: retrying won't help until a human starts a stream.
	ErrUserOffline = errors.New("live source: user is offline")

	// ErrUserNotFound means the user or room could not be resolved,
	// usually because the broadcast has not started yet.
	ErrUserNotFound = errors.New("live source: user or room not found")

	// ErrSignature is a transient signing/auth failure at the source
	ErrSignature = errors.New("live source: signature request failed")
)
