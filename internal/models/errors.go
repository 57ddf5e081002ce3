package models

import "errors"

// Error kinds surfaced by the stores, the session layer and the guards.
// Callers match them with errors.Is.
var (
	ErrDuplicateEmail  = errors.New("a user with that email already exists")
	ErrDuplicateTitle  = errors.New("a post with that title already exists")
	ErrNotFound        = errors.New("not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrAuthorNotFound  = errors.New("author not found")
	ErrUnauthenticated = errors.New("not logged in")
	ErrUnauthorized    = errors.New("not allowed")
	ErrValidation      = errors.New("validation failed")
)
