// Package errors provides structured error handling for the application
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"
	CodeInput            ErrorCode = "INPUT_ERROR"

	// Server errors (5xx)
	CodeInternal ErrorCode = "INTERNAL_ERROR"
	CodeStore    ErrorCode = "STORE_ERROR"
	CodeUpstream ErrorCode = "UPSTREAM_ERROR"

	// Business logic errors
	CodeRecipeNotFound ErrorCode = "RECIPE_NOT_FOUND"
)

// AppError represents an application error with structured information
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed, CodeInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeRecipeNotFound:
		return http.StatusNotFound
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewStoreError wraps a record or blob store failure
func NewStoreError(op string, cause error) *AppError {
	return NewAppError(CodeStore, op+" failed", "").WithCause(cause)
}

// NewNotFoundError reports a missing recipe
func NewNotFoundError(id string) *AppError {
	return NewAppError(CodeRecipeNotFound, "recipe not found", id)
}

// NewUpstreamError reports a completion provider failure
func NewUpstreamError(status int, body string) *AppError {
	return NewAppError(CodeUpstream, fmt.Sprintf("upstream returned status %d", status), "").
		WithMetadata("status", status).
		WithMetadata("body", body)
}

// NewInputError reports a malformed request body
func NewInputError(message string, cause error) *AppError {
	return NewAppError(CodeInput, message, "").WithCause(cause)
}

// NewValidationError reports invalid caller-supplied fields
func NewValidationError(message string) *AppError {
	return NewAppError(CodeValidationFailed, message, "")
}

// NewTooManyRequestsError reports a rate limit rejection
func NewTooManyRequestsError(message string) *AppError {
	return NewAppError(CodeTooManyRequests, message, "")
}

// As extracts an *AppError from err
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an *AppError with the given code
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// IsStoreError reports a store failure, including not found
func IsStoreError(err error) bool {
	return HasCode(err, CodeStore) || HasCode(err, CodeRecipeNotFound)
}

// IsNotFound reports a missing recipe
func IsNotFound(err error) bool {
	return HasCode(err, CodeRecipeNotFound)
}

// IsUpstreamError reports a non-success response from the completion provider
func IsUpstreamError(err error) bool {
	return HasCode(err, CodeUpstream)
}

// IsInputError reports a malformed request
func IsInputError(err error) bool {
	return HasCode(err, CodeInput)
}

// StatusCode returns the HTTP status for any error
func StatusCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}
