// Package apperror defines the error taxonomy shared by the billing core.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a required field is missing or malformed.
	// Nothing has been changed when it is returned.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientStock is returned when a sale asks for more units than are on hand.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidAmount is returned when a payment amount is out of range.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNotFound is returned when a referenced document or item does not exist.
	ErrNotFound = errors.New("not found")
)

// Error wraps one of the sentinel errors with the failing operation and details.
type Error struct {
	// Op is the operation that failed (e.g. "ReserveForSale", "GetBill").
	Op string

	// Err is the underlying sentinel.
	Err error

	// Details is a human readable explanation.
	Details string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.Details)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error so errors.Is matches the sentinel.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error for op wrapping err, with printf-style details.
func New(op string, err error, format string, args ...any) *Error {
	return &Error{
		Op:      op,
		Err:     err,
		Details: fmt.Sprintf(format, args...),
	}
}

// InvalidInput is shorthand for New(op, ErrInvalidInput, ...).
func InvalidInput(op, format string, args ...any) *Error {
	return New(op, ErrInvalidInput, format, args...)
}

// NotFound is shorthand for New(op, ErrNotFound, ...).
func NotFound(op, format string, args ...any) *Error {
	return New(op, ErrNotFound, format, args...)
}
