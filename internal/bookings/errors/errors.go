package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrLockHeld means another request holds the approval lock for the
	// same resource or user; callers translate it to a retryable conflict.
	ErrLockHeld = errors.New("approval lock already held")
)
