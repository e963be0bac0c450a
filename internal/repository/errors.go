// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// lifecycle engine and handlers to distinguish between failure scenarios
// without inspecting driver error codes. ErrForbidden in particular is
// returned for every tenant or ownership mismatch so that callers can
// surface a single flat denial message regardless of which predicate
// failed.
package repository

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource belonging to another tenant or owned by someone else.
// Handlers should translate this into an HTTP 403 response with a
// flat "forbidden" message.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because
// of conflicting state, such as confirming onboarding for a company
// that never provisioned a connected account. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when registration collides with an
// existing account. Handlers should translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")
