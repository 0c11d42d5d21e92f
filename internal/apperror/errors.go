// Package apperror defines the error kinds shared by the services and the
// HTTP boundary that turns them into status codes.
package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrConflict             = errors.New("conflict")
	ErrNotFound             = errors.New("not found")
	ErrUnauthenticated      = errors.New("not authorized")
	ErrInvalidToken         = errors.New("invalid token")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrForbidden            = errors.New("forbidden")
	ErrSubscriptionInactive = errors.New("subscription inactive")
	ErrSubscriptionExpired  = errors.New("subscription expired")
)

// Error pairs a kind with the message shown to the client.
type Error struct {
	kind    error
	message string
	cause   error
}

func New(kind error, message string) *Error {
	return &Error{kind: kind, message: message}
}

func Wrap(kind error, message string, cause error) *Error {
	return &Error{kind: kind, message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *Error) Message() string { return e.message }

func (e *Error) Kind() error { return e.kind }

func (e *Error) Is(target error) bool { return target == e.kind }

func (e *Error) Unwrap() error { return e.cause }

func Validation(message string) *Error   { return New(ErrValidation, message) }
func Conflict(message string) *Error     { return New(ErrConflict, message) }
func NotFound(message string) *Error     { return New(ErrNotFound, message) }
func Forbidden(message string) *Error    { return New(ErrForbidden, message) }
func Unauthorized(message string) *Error { return New(ErrUnauthenticated, message) }

var statusByKind = []struct {
	kind   error
	status int
}{
	{ErrValidation, http.StatusBadRequest},
	{ErrConflict, http.StatusConflict},
	{ErrNotFound, http.StatusNotFound},
	{ErrUnauthenticated, http.StatusUnauthorized},
	{ErrInvalidToken, http.StatusUnauthorized},
	{ErrInvalidCredentials, http.StatusUnauthorized},
	{ErrForbidden, http.StatusForbidden},
	{ErrSubscriptionInactive, http.StatusForbidden},
	{ErrSubscriptionExpired, http.StatusUnauthorized},
}

// StatusCode maps an error to its HTTP status. Unknown errors are 500.
func StatusCode(err error) int {
	for _, m := range statusByKind {
		if errors.Is(err, m.kind) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// Message returns the client-facing message. Internal errors never leak
// their text.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.message
	}
	return "Internal server error"
}
