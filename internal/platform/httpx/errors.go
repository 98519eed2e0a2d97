// Package httpx provides HTTP response utilities.
package httpx

import (
	"context"
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer. Domain packages wrap these with %w so
// RespondError can pick the status code without knowing the domain.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("resource not found")
)

// TimeoutMessage is sent when a request outlives its deadline.
const TimeoutMessage = "Request timed out"

// StatusFor returns the HTTP status code for err.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// RespondError maps domain errors to HTTP responses. Unclassified errors never
// leak their message to the client.
func RespondError(w http.ResponseWriter, err error) {
	switch status := StatusFor(err); status {
	case http.StatusInternalServerError:
		Error(w, status, "Internal server error")
	case http.StatusGatewayTimeout:
		Error(w, status, TimeoutMessage)
	default:
		Error(w, status, Message(err))
	}
}

// Message strips the sentinel prefix from a wrapped error so the client sees
// only the domain detail.
func Message(err error) string {
	var detail *detailError
	if errors.As(err, &detail) {
		return detail.msg
	}
	return err.Error()
}

type detailError struct {
	kind error
	msg  string
}

func (e *detailError) Error() string { return e.kind.Error() + ": " + e.msg }

func (e *detailError) Unwrap() error { return e.kind }

// Errorf wraps kind with a client-facing message.
func Errorf(kind error, msg string) error {
	return &detailError{kind: kind, msg: msg}
}
