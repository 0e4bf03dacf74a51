// Package services holds the business rules of the food ordering API.
// Handlers translate their errors with KindOf.
package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service error for transport mapping
type Kind string

const (
	KindValidation        Kind = "validation"
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInvalidTransition Kind = "invalid_transition"
	KindInternal          Kind = "internal"
)

var (
	ErrMissingDeliveryInfo = errors.New("missing delivery info")
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrMenuItemUnavailable = errors.New("menu item unavailable")
	ErrInvalidToken        = errors.New("invalid token")
	ErrUnauthorized        = errors.New("missing bearer token")
	ErrPrincipalNotFound   = errors.New("principal not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

// Error is the typed error every service method returns on failure.
// Message is safe to show to clients; Err carries the cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
	// Extra is merged into the JSON error body (e.g. valid_next_states)
	Extra map[string]any
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func validationError(format string, args ...any) *Error {
	return newError(KindValidation, nil, format, args...)
}

func notFound(err error, format string, args ...any) *Error {
	return newError(KindNotFound, err, format, args...)
}

// internalError hides the cause from clients
func internalError(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: fmt.Errorf("%s: %w", op, err)}
}

// KindOf reports the Kind of err, treating untyped errors as internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
