package session

import "errors"

var (
	// ErrNotFound covers both a missing session and a session owned by
	// someone else, so responses never leak existence.
	ErrNotFound = errors.New("session: not found")
)
