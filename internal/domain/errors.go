package domain

import (
	"errors"
	"net/http"
)

// Error kinds. Concrete errors wrap one of these so callers can branch with errors.Is.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

var ErrImageRequired = &ValidationError{Message: "listing image is required"}

const (
	DefaultErrorStatus  = http.StatusInternalServerError
	DefaultErrorMessage = "Something went wrong!"
)

// kindError is a sentinel with its own message that still matches its kind.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// ValidationError describes a rejected payload. Message is shown to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return ErrValidation }

// HTTPError carries a status code and message to the error page.
// Zero values fall back to DefaultErrorStatus and DefaultErrorMessage.
type HTTPError struct {
	Status  int
	Message string
}

func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

func (e *HTTPError) Error() string {
	return e.Message
}

// StatusOrDefault returns the carried status, or 500 when unset.
func (e *HTTPError) StatusOrDefault() int {
	if e.Status == 0 {
		return DefaultErrorStatus
	}
	return e.Status
}

// MessageOrDefault returns the carried message, or the generic one when unset.
func (e *HTTPError) MessageOrDefault() string {
	if e.Message == "" {
		return DefaultErrorMessage
	}
	return e.Message
}
