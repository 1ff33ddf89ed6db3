package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an error for the tool layer, which maps each type to a
// fixed user-facing outcome rather than inspecting causes.
type ErrorType string

const (
	// ErrorTypeValidation marks malformed input rejected before any store call.
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeNotFound marks a successful query with zero matching records.
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeCredential marks an expired or missing store credential. The
	// store client retries these once before converting them to UNAVAILABLE.
	ErrorTypeCredential ErrorType = "CREDENTIAL"

	// ErrorTypeUnavailable marks any store-side failure surfaced to the user
	// as a generic system error: throughput, missing resource, malformed
	// response, or a credential failure that survived the retry.
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"

	// ErrorTypeRuleViolation marks a business-rule rejection, such as the
	// 24-hour meal-change cutoff. Not a technical failure.
	ErrorTypeRuleViolation ErrorType = "RULE_VIOLATION"

	// ErrorTypeInternal marks a bug in this service.
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError is the application error carrying its classification plus the
// store's code/message when one is available.
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode attaches the store-side error code.
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause wraps an underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

// NewNotFoundError creates a not-found error for the given search key.
func NewNotFoundError(searchValue string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: fmt.Sprintf("no booking records for %s", searchValue)}
}

// NewCredentialError creates a credential error.
func NewCredentialError(message string) *AppError {
	return &AppError{Type: ErrorTypeCredential, Message: message}
}

// NewUnavailableError creates a system-unavailable error.
func NewUnavailableError(message string) *AppError {
	return &AppError{Type: ErrorTypeUnavailable, Message: message}
}

// NewRuleViolationError creates a business-rule rejection.
func NewRuleViolationError(message string) *AppError {
	return &AppError{Type: ErrorTypeRuleViolation, Message: message}
}

// NewInternalError creates an internal error.
func NewInternalError(message string) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message}
}

// TypeOf returns the classification of err, or ErrorTypeInternal when err is
// not an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err carries the given classification.
func IsType(err error, t ErrorType) bool {
	return TypeOf(err) == t
}
