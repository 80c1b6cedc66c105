package models

import "errors"

// Sentinel errors shared across layers. Handlers map these to HTTP statuses;
// lower layers wrap them with context via fmt.Errorf("...: %w", err).
var (
	// ErrUnauthorized means no credential or an invalid one was presented.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the credential is valid but lacks privilege.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means the referenced user or entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a uniqueness constraint was violated on create.
	ErrConflict = errors.New("already exists")
	// ErrValidation means the request payload failed a business check.
	ErrValidation = errors.New("validation failed")
)
