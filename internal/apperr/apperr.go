// Package apperr defines the error taxonomy shared by every layer.
// Callers classify with errors.Is against the kind sentinels below.
package apperr

import "errors"

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrStorage            = errors.New("storage failure")
)

// Error is a classified error with a caller-facing reason.
type Error struct {
	Kind   error
	Reason string
}

func (e *Error) Error() string { return e.Reason }

func (e *Error) Unwrap() error { return e.Kind }

// New returns an error of the given kind whose message is reason.
func New(kind error, reason string) error {
	return &Error{Kind: kind, Reason: reason}
}

// Invalid is shorthand for New(ErrInvalidArgument, reason).
func Invalid(reason string) error {
	return New(ErrInvalidArgument, reason)
}

// Reason returns the innermost caller-facing reason, or err.Error() when
// the chain carries no *Error.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return err.Error()
}
