package store

import "errors"

// Sentinel errors returned by entity operations.
var (
	// ErrNotFound is returned when an entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned on ID or unique index collisions.
	ErrAlreadyExists = errors.New("already exists")
)
