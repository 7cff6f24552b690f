package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNetwork indicates a transport-level failure
	ErrorTypeNetwork ErrorType = "NETWORK"

	// ErrorTypeServer indicates a non-2xx response from a backend service
	ErrorTypeServer ErrorType = "SERVER"

	// ErrorTypeValidation indicates a client-side precondition failed before any request
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeUnauthenticated indicates no valid session is held
	ErrorTypeUnauthenticated ErrorType = "UNAUTHENTICATED"

	// ErrorTypeForbidden indicates the session lacks the required privileges
	ErrorTypeForbidden ErrorType = "FORBIDDEN"

	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeNetwork,
		Message: message,
		Err:     err,
	}
}

// NewServerError creates a new server error carrying the server-provided message
func NewServerError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeServer,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewUnauthenticatedError creates a new unauthenticated error
func NewUnauthenticatedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnauthenticated,
		Message: message,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeForbidden,
		Message: message,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// TypeOf returns the error type of err, or ErrorTypeServer for untyped errors.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeServer
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

// UserMessage returns the human-readable message carried by err.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
