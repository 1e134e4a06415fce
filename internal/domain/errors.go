package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyTaskID is returned when a task record has no identifier.
	ErrEmptyTaskID = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)

	// ErrInvalidStatusPolicy is returned for an unknown status policy name.
	ErrInvalidStatusPolicy = errors.New("invalid status policy")
)
