package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the gobridge library

var (
	// ErrUnavailable indicates that the bridge cannot accept work, either
	// because it has been shut down or because its dispatch loop has died.
	ErrUnavailable = errors.New("bridge is unavailable")

	// ErrAborted indicates that an invocation resolved without producing
	// an outcome (the unit was abandoned before completing).
	ErrAborted = errors.New("invocation aborted")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// IsFatal returns true if the error is fatal to the invocation and will
// not be resolved by retrying through the same bridge instance.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrAborted)
}

// IsRetryable returns true if the error indicates a condition that might
// be resolved by retrying the operation
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// ValidationError describes a rejected configuration value.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError for the given module and field.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a remediation hint to the error.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap allows errors.Is(err, ErrInvalidConfiguration) to match.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}
