package usecase

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers match them with errors.Is and pick the status code.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrConflict              = errors.New("conflict")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrForbidden             = errors.New("forbidden")
	ErrAccountDisabled       = errors.New("account disabled")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrUserNotFound          = errors.New("user not found")
	ErrNotFound              = errors.New("not found")
	ErrInternal              = errors.New("internal error")
)

// Error is what every service operation fails with. Message is safe to show
// to the client; Fields optionally carries per-field validation messages.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func invalidInput(message string) *Error {
	return newError(ErrInvalidInput, message)
}

func invalidFields(fields map[string]string) *Error {
	return &Error{Kind: ErrInvalidInput, Message: "Validation failed", Fields: fields}
}

// internal hides cause from the client. The caller logs it.
func internal() *Error {
	return newError(ErrInternal, "Internal server error")
}
