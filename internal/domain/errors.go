package domain

import "errors"

var (
	// ErrNotFound indicates a lookup by id matched no stored entity.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates an atomic commit lost a race with a concurrent
	// write; the whole operation was rolled back and may be retried.
	ErrConflict = errors.New("concurrent update conflict")
)
