// Package contextutils provides error handling utilities and standardized error types
// for consistent error management across the vocabulary client.
package contextutils

import (
	"errors"
	"fmt"
)

// ErrorCode represents a standardized error code for failures surfaced to the user
type ErrorCode string

const (
	// Authentication error codes

	// ErrorCodeAuthFailure indicates the server rejected the bearer token (HTTP 401)
	ErrorCodeAuthFailure ErrorCode = "AUTH_FAILURE"
	// ErrorCodeInvalidCredentials indicates that the provided credentials are invalid
	ErrorCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// ErrorCodeForbidden indicates that the user is forbidden from accessing the resource
	ErrorCodeForbidden ErrorCode = "FORBIDDEN"

	// Validation error codes

	// ErrorCodeValidationFailed indicates invalid local input, caught before any request is sent
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	// ErrorCodeMissingRequired indicates that a required field or precondition is missing
	ErrorCodeMissingRequired ErrorCode = "MISSING_REQUIRED_FIELD"
	// ErrorCodeInvalidPayload indicates a server payload that violates its documented shape
	ErrorCodeInvalidPayload ErrorCode = "INVALID_PAYLOAD"

	// Transport error codes

	// ErrorCodeConnection indicates a network or response-parse failure
	ErrorCodeConnection ErrorCode = "CONNECTION_ERROR"
	// ErrorCodeServer indicates a non-2xx, non-401 response from the server
	ErrorCodeServer ErrorCode = "SERVER_ERROR"
	// ErrorCodeSuperseded indicates a response that arrived after a newer request was issued
	ErrorCodeSuperseded ErrorCode = "REQUEST_SUPERSEDED"

	// ErrorCodeInternalError indicates an unexpected internal failure
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// SeverityLevel represents the severity of an error for logging and notices
type SeverityLevel string

const (
	// SeverityInfo indicates informational errors
	SeverityInfo SeverityLevel = "info"
	// SeverityWarn indicates warning-level errors
	SeverityWarn SeverityLevel = "warn"
	// SeverityError indicates error-level issues
	SeverityError SeverityLevel = "error"
)

// AppError represents a structured error with code, severity, and context
type AppError struct {
	Code     ErrorCode
	Severity SeverityLevel
	Message  string
	Details  string
	Cause    error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison for errors.Is
func (e *AppError) Is(target error) bool {
	if appErr, ok := target.(*AppError); ok {
		return e.Code == appErr.Code
	}
	return false
}

// Error types for consistent error handling with associated codes and severity
var (
	ErrAuthFailure = &AppError{
		Code:     ErrorCodeAuthFailure,
		Severity: SeverityWarn,
		Message:  "Session expired or invalid",
	}

	ErrInvalidCredentials = &AppError{
		Code:     ErrorCodeInvalidCredentials,
		Severity: SeverityWarn,
		Message:  "Invalid credentials",
	}

	ErrForbidden = &AppError{
		Code:     ErrorCodeForbidden,
		Severity: SeverityWarn,
		Message:  "Forbidden",
	}

	ErrValidationFailed = &AppError{
		Code:     ErrorCodeValidationFailed,
		Severity: SeverityWarn,
		Message:  "Validation failed",
	}

	ErrMissingRequired = &AppError{
		Code:     ErrorCodeMissingRequired,
		Severity: SeverityWarn,
		Message:  "Missing required field",
	}

	ErrInvalidPayload = &AppError{
		Code:     ErrorCodeInvalidPayload,
		Severity: SeverityError,
		Message:  "Server payload failed validation",
	}

	ErrConnection = &AppError{
		Code:     ErrorCodeConnection,
		Severity: SeverityError,
		Message:  "Connection error",
	}

	ErrServer = &AppError{
		Code:     ErrorCodeServer,
		Severity: SeverityError,
		Message:  "Server error",
	}

	ErrSuperseded = &AppError{
		Code:     ErrorCodeSuperseded,
		Severity: SeverityInfo,
		Message:  "Response superseded by a newer request",
	}

	ErrInternalError = &AppError{
		Code:     ErrorCodeInternalError,
		Severity: SeverityError,
		Message:  "Internal error",
	}
)

// NewAppError creates a new AppError with the specified code, severity, message and details
func NewAppError(code ErrorCode, severity SeverityLevel, message, details string) *AppError {
	return &AppError{
		Code:     code,
		Severity: severity,
		Message:  message,
		Details:  details,
	}
}

// NewAppErrorWithCause creates a new AppError with an underlying cause
func NewAppErrorWithCause(code ErrorCode, severity SeverityLevel, message, details string, cause error) *AppError {
	return &AppError{
		Code:     code,
		Severity: severity,
		Message:  message,
		Details:  details,
		Cause:    cause,
	}
}

// WrapError wraps an error with additional context, preserving AppError structure if possible
func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:     appErr.Code,
			Severity: appErr.Severity,
			Message:  context,
			Details:  appErr.Error(),
			Cause:    appErr,
		}
	}

	return &AppError{
		Code:     ErrorCodeInternalError,
		Severity: SeverityError,
		Message:  context,
		Details:  err.Error(),
		Cause:    err,
	}
}

// ErrorWithContextf creates a new error with formatted context
func ErrorWithContextf(format string, args ...interface{}) error {
	return &AppError{
		Code:     ErrorCodeInternalError,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
	}
}

// IsError checks if an error matches a specific AppError type
func IsError(err error, target *AppError) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == target.Code
	}
	return false
}

// GetErrorCode returns the error code from an error if it's an AppError, otherwise returns a default code
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrorCodeInternalError
}

// GetErrorSeverity returns the severity level from an error if it's an AppError, otherwise returns error
func GetErrorSeverity(err error) SeverityLevel {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Severity
	}
	return SeverityError
}

// UserMessage returns the text suitable for a transient user-facing notice.
// Server-supplied detail is shown verbatim when present.
func UserMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return "An error occurred"
	}
	if appErr.Code == ErrorCodeServer && appErr.Details != "" {
		return appErr.Details
	}
	return appErr.Message
}
