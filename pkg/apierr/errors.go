// Package apierr defines the API error vocabulary and the single place
// where domain failures become HTTP responses. Handlers map service
// sentinel errors onto these values; nothing else writes error bodies.
package apierr

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes carried in the "error" field of failure responses.
const (
	CodeInvalidRequest     = "invalid_request"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidToken       = "invalid_token"
	CodeValidationFailed   = "validation_failed"
	CodeConflict           = "conflict"
	CodeNotFound           = "not_found"
	CodeTooManyAttempts    = "too_many_attempts"
	CodeServerError        = "server_error"
)

// Error is a client-facing API error. It implements the error interface and
// knows how to write itself as an HTTP response.
type Error struct {
	// StatusCode is the HTTP status code for this error.
	StatusCode int `json:"-"`

	// Code is the machine-readable error code.
	Code string `json:"error"`

	// Description is a human-readable description. It must never carry
	// internal diagnostic detail; that belongs in the log.
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this error to an HTTP response writer. 401 responses
// carry a bearer challenge per RFC 6750.
func (e *Error) WriteError(w http.ResponseWriter) {
	if e.StatusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer error="`+e.Code+`", error_description="`+e.Description+`"`)
	}
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	// ErrInvalidRequest is returned for bodies that cannot be parsed.
	ErrInvalidRequest = &Error{
		StatusCode:  http.StatusBadRequest,
		Code:        CodeInvalidRequest,
		Description: "the request body is malformed",
	}

	// ErrInvalidCredentials is returned when signin fails. The description
	// stays identical for unknown email and wrong password so the endpoint
	// does not leak which accounts exist.
	ErrInvalidCredentials = &Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        CodeInvalidCredentials,
		Description: "incorrect email or password",
	}

	// ErrInvalidToken is returned when a presented bearer token is missing,
	// malformed, expired, or revoked.
	ErrInvalidToken = &Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        CodeInvalidToken,
		Description: "the access token is missing, invalid, expired or revoked",
	}

	// ErrEmailTaken is returned when signup hits an existing email.
	ErrEmailTaken = &Error{
		StatusCode:  http.StatusConflict,
		Code:        CodeConflict,
		Description: "email already registered",
	}

	// ErrNotFound is returned for missing resources. Not-owned resources
	// produce the same response so existence never leaks across tenants.
	ErrNotFound = &Error{
		StatusCode:  http.StatusNotFound,
		Code:        CodeNotFound,
		Description: "resource not found",
	}

	// ErrTooManyAttempts is returned when the brute-force guard has blocked
	// the source address.
	ErrTooManyAttempts = &Error{
		StatusCode:  http.StatusTooManyRequests,
		Code:        CodeTooManyAttempts,
		Description: "too many failed attempts, try again later",
	}

	// ErrServerError is returned for persistence or other unexpected
	// failures.
	ErrServerError = &Error{
		StatusCode:  http.StatusInternalServerError,
		Code:        CodeServerError,
		Description: "internal server error",
	}
)

// Validation creates a 422 for a specific validation failure.
func Validation(description string) *Error {
	return &Error{
		StatusCode:  http.StatusUnprocessableEntity,
		Code:        CodeValidationFailed,
		Description: description,
	}
}
