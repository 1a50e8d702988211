package core

import "fmt"

// NewError creates a new error from a format string.
func NewError(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// WrappedError wraps an underlying error with additional context.
// The original error remains available through errors.Unwrap.
func WrappedError(err error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
