// Package apperror defines the error taxonomy shared by services and handlers.
// Every kind maps to one HTTP status code; handlers never inspect message text.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error
type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnauthenticated Kind = "unauthenticated"
	KindAuthorization   Kind = "authorization"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindUpload          Kind = "upload"
	KindPersistence     Kind = "persistence"
	KindInternal        Kind = "internal"
)

// Phase tells which upload of a multi-asset operation failed
type Phase string

const (
	// PhasePrimary is the first upload (the video file, the avatar)
	PhasePrimary Phase = "primary"
	// PhaseSecondary is any upload after the primary one (thumbnail, cover image)
	PhaseSecondary Phase = "secondary"
)

var statusByKind = map[Kind]int{
	KindValidation:      http.StatusBadRequest,
	KindUnauthenticated: http.StatusUnauthorized,
	KindAuthorization:   http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusConflict,
	KindUpload:          http.StatusInternalServerError,
	KindPersistence:     http.StatusInternalServerError,
	KindInternal:        http.StatusInternalServerError,
}

// Error is a classified application error.
// Message is safe to show to clients, Err is the internal cause and is never serialized.
type Error struct {
	Kind    Kind
	Message string
	Phase   Phase
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap returns the wrapped cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error kind
func (e *Error) Status() int {
	if status, ok := statusByKind[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Validation creates an error for bad or missing input
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Unauthenticated creates an error for missing or invalid credentials
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// Authorization creates an error for a requester acting on a resource it does not own
func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NotFound creates an error for an absent resource
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict creates an error for a uniqueness violation
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Upload creates an error for a failed media upload in the given phase
func Upload(phase Phase, message string, err error) *Error {
	return &Error{Kind: KindUpload, Phase: phase, Message: message, Err: err}
}

// Persistence creates an error for a failed record store write
func Persistence(message string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: message, Err: err}
}

// Internal creates an error for any other failure
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// From extracts an *Error from the chain of err.
// Errors outside the taxonomy are reported as internal errors with a generic message.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("internal server error", err)
}

// Is reports whether err carries an *Error of the given kind
func Is(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// Status returns the HTTP status code for any error
func Status(err error) int {
	return From(err).Status()
}
