package types

import (
	"errors"
	"fmt"
)

// ValidationError rejects malformed snapshot or outcome input before any
// write happens. Storage errors are never wrapped in it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Reason)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a field-scoped validation error.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PublishError means the artifact or metadata write failed. The current
// pointer is never swapped when one of these is returned.
type PublishError struct {
	Stage string // "artifact", "metadata", "pointer"
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s failed: %v", e.Stage, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
