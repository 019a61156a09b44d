package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrMissingField  = errors.New("missing required field")
	ErrNotFound      = errors.New("not found")
	ErrQueueFull     = errors.New("dispatch queue is at capacity")
	ErrInvalidLoan   = errors.New("invalid loan parameters")
	ErrInvalidStages = errors.New("invalid stage table")
)

// ValidationError names the submission field that failed validation.
// It unwraps to ErrMissingField so callers can match with errors.Is.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
}

func (e *ValidationError) Unwrap() error { return ErrMissingField }
