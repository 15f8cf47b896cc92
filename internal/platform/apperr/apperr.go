// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for Trailhead.

It provides a rich error type that bridges the gap between low-level storage
and token errors and the JSON envelope returned by the API.

Architecture:

  - AppError: An operational error with a machine-readable code and a client-safe message.
  - Taxonomy: One constructor per failure kind the API can surface.
  - Mapping: Every constructor fixes the HTTP status code of its kind.

Anything that is not an [AppError] is treated as non-operational by the
response layer and flattened to a generic internal error.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the canonical operational error type for the Trailhead API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging and development-mode responses
// only. Production responses never include it.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "CONFLICT").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"message"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_FAILED responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause returns a copy of e carrying cause.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// Status returns the envelope status for the error: "fail" for client
// errors and "error" for server errors.
func (e *AppError) Status() string {
	if e.HTTPStatus >= http.StatusInternalServerError {
		return "error"
	}
	return "fail"
}

// # Error Codes

const (
	CodeValidationFailed      = "VALIDATION_FAILED"
	CodeBadRequest            = "BAD_REQUEST"
	CodeNotFound              = "NOT_FOUND"
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeInvalidToken          = "INVALID_TOKEN"
	CodeExpired               = "TOKEN_EXPIRED"
	CodeSubjectGone           = "SUBJECT_GONE"
	CodeCredentialsChanged    = "CREDENTIALS_CHANGED"
	CodeForbidden             = "FORBIDDEN"
	CodeConflict              = "CONFLICT"
	CodeInvalidOrExpiredToken = "INVALID_OR_EXPIRED_TOKEN"
	CodeRateLimited           = "RATE_LIMITED"
	CodePayloadTooLarge       = "PAYLOAD_TOO_LARGE"
	CodeNotificationFailed    = "NOTIFICATION_FAILED"
	CodeNotCreated            = "NOT_CREATED"
	CodeUnhandled             = "UNHANDLED"
)

// # Client Errors (4xx)

// ValidationFailed creates a 400 [AppError] with optional per-field details.
func ValidationFailed(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidationFailed,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// BadRequest creates a 400 [AppError] for malformed requests.
func BadRequest(msg string) *AppError {
	return &AppError{
		Code:       CodeBadRequest,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("tour") // Returns "No tour found with that id"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("No %s found with that id", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthenticated creates a 401 [AppError] for requests without a session.
func Unauthenticated() *AppError {
	return &AppError{
		Code:       CodeUnauthenticated,
		Message:    "You are not logged in, please log in to get access",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidCredentials creates a 401 [AppError].
//
// The message never reveals which half of the credential pair was wrong.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:       CodeInvalidCredentials,
		Message:    "Incorrect email or password",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// WrongPassword creates a 401 [AppError] for a failed re-authentication of
// an already identified subject.
func WrongPassword() *AppError {
	return &AppError{
		Code:       CodeInvalidCredentials,
		Message:    "Your current password is wrong",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidToken creates a 401 [AppError] for a token that failed verification.
func InvalidToken() *AppError {
	return &AppError{
		Code:       CodeInvalidToken,
		Message:    "Invalid token, please log in again",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Expired creates a 401 [AppError] for a token past its expiry.
func Expired() *AppError {
	return &AppError{
		Code:       CodeExpired,
		Message:    "Your token has expired, please log in again",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// SubjectGone creates a 401 [AppError] for a token whose user no longer exists.
func SubjectGone() *AppError {
	return &AppError{
		Code:       CodeSubjectGone,
		Message:    "The user belonging to this token no longer exists",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// CredentialsChanged creates a 401 [AppError] for a token issued before the
// last password change.
func CredentialsChanged() *AppError {
	return &AppError{
		Code:       CodeCredentialsChanged,
		Message:    "User recently changed password, please log in again",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden() *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    "You do not have permission to perform this action",
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// InvalidOrExpiredToken creates a 400 [AppError] for an unusable password reset token.
func InvalidOrExpiredToken() *AppError {
	return &AppError{
		Code:       CodeInvalidOrExpiredToken,
		Message:    "Token is invalid or has expired",
		HTTPStatus: http.StatusBadRequest,
	}
}

// PayloadTooLarge creates a 413 [AppError].
func PayloadTooLarge(limit int64) *AppError {
	return &AppError{
		Code:       CodePayloadTooLarge,
		Message:    fmt.Sprintf("Request body must not exceed %d bytes", limit),
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("Too many requests from this IP, please try again in %ds", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// NotificationFailed creates a 500 [AppError] for a mail that could not be sent.
func NotificationFailed(cause error) *AppError {
	return &AppError{
		Code:       CodeNotificationFailed,
		Message:    "There was an error sending the email, try again later",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NotCreated creates a 500 [AppError] for a store that returned no entity after create.
func NotCreated(resource string) *AppError {
	return &AppError{
		Code:       CodeNotCreated,
		Message:    fmt.Sprintf("The %s could not be created", resource),
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to clients in production.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeUnhandled,
		Message:    "Something went wrong",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
