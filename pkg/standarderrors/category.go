package standarderrors

import "errors"

// ErrorCategory indicates how the boundary layer should respond to an error
// surfaced by the monitor.
type ErrorCategory int

const (
	// CategoryRecoverable indicates a failure condition the recovery
	// coordinator can clear. Everything except a broken state invariant
	// falls in this category.
	CategoryRecoverable ErrorCategory = iota

	// CategoryUnrecoverable indicates a programming-logic fault: the state
	// machine's own invariant has already been broken and further operation
	// is unsafe. This is the only category the boundary layer is allowed to
	// treat as fatal.
	CategoryUnrecoverable
)

// CategorizedError wraps an error with its category.
type CategorizedError struct {
	Err      error
	Category ErrorCategory
}

// Error returns the original error message.
func (ce *CategorizedError) Error() string {
	return ce.Err.Error()
}

// Unwrap returns the underlying wrapped error.
func (ce *CategorizedError) Unwrap() error {
	return ce.Err
}

// NewRecoverableError wraps err as CategoryRecoverable.
func NewRecoverableError(err error) error {
	return &CategorizedError{Err: err, Category: CategoryRecoverable}
}

// NewUnrecoverableError wraps err as CategoryUnrecoverable.
func NewUnrecoverableError(err error) error {
	return &CategorizedError{Err: err, Category: CategoryUnrecoverable}
}

// IsUnrecoverableError reports whether err carries CategoryUnrecoverable
// anywhere in its chain.
func IsUnrecoverableError(err error) bool {
	var ce *CategorizedError

	return errors.As(err, &ce) && ce.Category == CategoryUnrecoverable
}

// IsRecoverableError reports whether err carries CategoryRecoverable
// anywhere in its chain.
func IsRecoverableError(err error) bool {
	var ce *CategorizedError

	return errors.As(err, &ce) && ce.Category == CategoryRecoverable
}
