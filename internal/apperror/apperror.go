// Package apperror defines the domain error taxonomy shared between the
// service layer and the HTTP layer. Services return these; handlers map
// them to status codes. Raw collaborator errors never cross this boundary —
// they are logged and replaced with one of the sentinels below.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input the caller can fix (HTTP 400).
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks an identifier that resolves to nothing (HTTP 404).
	ErrNotFound = errors.New("not found")
	// ErrUnavailable marks a collaborator failure (HTTP 500).
	ErrUnavailable = errors.New("unavailable")
)

// AppError carries a sentinel for errors.Is matching plus the message that
// is safe to show to the client.
type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationFailed builds a client-input error.
func ValidationFailed(message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message}
}

// NotFound builds an entity-not-found error.
func NotFound(message string) *AppError {
	return &AppError{Err: ErrNotFound, Message: message}
}

// Unavailable builds a collaborator-failure error. detail is kept in the
// wrapped chain for logs; the client only ever sees the generic message.
func Unavailable(detail string) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s", ErrUnavailable, detail),
		Message: "Failed to fetch entity information",
	}
}
