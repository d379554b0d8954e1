package storage

import "errors"

var (
	// ErrNotFound is returned when an entity does not exist or is not
	// owned by the requesting user.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a uniqueness constraint is violated,
	// e.g. a duplicate task name for the same user.
	ErrConflict = errors.New("already exists")
)
