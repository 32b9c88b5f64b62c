package store

import "errors"

// ErrNotFound is returned when a record does not exist, or exists but is
// owned by another user. Callers cannot tell the two apart.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert would violate a uniqueness
// constraint, such as a duplicate email.
var ErrConflict = errors.New("conflict")
