// Package apperr defines the single failure type returned by request handlers.
package apperr

import (
	"fmt"
	"net/http"
)

// Error carries the HTTP status and the message rendered as {"error": Message}.
// Message is either a string or a structured list of field errors.
type Error struct {
	Status  int
	Message any
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if s, ok := e.Message.(string); ok {
		return fmt.Sprintf("app error (status=%d): %s", e.Status, s)
	}
	return fmt.Sprintf("app error (status=%d): %v", e.Status, e.Message)
}

// New returns an Error with the given status and message.
func New(status int, message any) *Error {
	return &Error{Status: status, Message: message}
}

// BadRequest returns a 400 Error. message may be a list of field errors.
func BadRequest(message any) *Error {
	return New(http.StatusBadRequest, message)
}

// Unauthorized returns a 401 Error.
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// NotFound returns a 404 Error.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Conflict returns a 409 Error.
func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// ServiceUnavailable returns a 503 Error.
func ServiceUnavailable(message string) *Error {
	return New(http.StatusServiceUnavailable, message)
}
