package store

import "errors"

var (
	// ErrConflict reports that a scheduled appointment already occupies the
	// requested slot. Insert must return it atomically with respect to
	// concurrent inserts on the same (date, time).
	ErrConflict = errors.New("slot conflict")

	// ErrNotFound reports that no scheduled appointment exists at the key.
	ErrNotFound = errors.New("not found")
)
