// Package repository holds the data access layer. Sentinel errors defined
// here are shared across repositories so higher layers can map failures
// to HTTP responses without inspecting SQL errors. For example
// ErrForbidden means the calling player tried to touch a resource owned
// by someone else, while ErrConflict means state prevents the operation
// (joining a full room, unlocking an already unlocked product).
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. Handlers should
// translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert or update cannot proceed due to
// existing state, such as joining a room that is already full. Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
