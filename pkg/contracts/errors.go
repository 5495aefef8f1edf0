package contracts

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the one failure shape that crosses component boundaries:
// authentication and authorization rejections, and normalized backend
// failures produced at the proxy-client boundary. Transport-library error
// shapes never leak past that boundary.
type APIError struct {
	// Status is the HTTP status the gateway responds with.
	Status int `json:"statusCode"`

	// Message is human-readable and safe for the public client. Never a
	// stack trace or an internal identifier.
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Unauthenticated — no or invalid credential (401).
func Unauthenticated(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: message}
}

// Forbidden — credential valid, action disallowed (403).
func Forbidden(message string) *APIError {
	return &APIError{Status: http.StatusForbidden, Message: message}
}

// NotFound — declared absence of a resource (404).
func NotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: message}
}

// BackendError — opaque failure relayed from a downstream service; status
// and message pass through unchanged.
func BackendError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message}
}

// Unavailable — no response reached the backend (network, DNS, timeout).
// Mapped to 500 with the caller-supplied generic message.
func Unavailable(message string) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Message: message}
}

// AsAPIError extracts an *APIError from err, wrapping anything else as an
// internal error so the caller-facing layer only ever formats, never
// reinterprets.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Status: http.StatusInternalServerError, Message: "Internal server error"}
}
