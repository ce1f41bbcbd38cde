package core

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatValidation ErrorCategory = "validation" // Invalid input or response shape
	ErrCatTimeout    ErrorCategory = "timeout"    // Bounded wait elapsed
	ErrCatAuth       ErrorCategory = "auth"       // Authentication or permission failure
	ErrCatNetwork    ErrorCategory = "network"    // No response from the service
	ErrCatNotFound   ErrorCategory = "not_found"  // Resource not found
	ErrCatTransport  ErrorCategory = "transport"  // Non-success status from the service
	ErrCatJobFailed  ErrorCategory = "job_failed" // Monitored job ended unsuccessfully
	ErrCatInternal   ErrorCategory = "internal"   // Unexpected internal error
)

// DomainError represents a structured error from the domain layer.
type DomainError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Cause    error
	Details  map[string]interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds contextual information.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ErrValidation creates a validation error.
func ErrValidation(code, message string) *DomainError {
	return &DomainError{
		Category: ErrCatValidation,
		Code:     code,
		Message:  message,
	}
}

// ErrTimeout creates a timeout error.
func ErrTimeout(message string) *DomainError {
	return &DomainError{
		Category: ErrCatTimeout,
		Code:     CodeTimeout,
		Message:  message,
	}
}

// ErrAuth creates an authentication error.
func ErrAuth(message string) *DomainError {
	return &DomainError{
		Category: ErrCatAuth,
		Code:     CodeAuthFailed,
		Message:  message,
	}
}

// ErrNetwork creates a network error.
func ErrNetwork(message string) *DomainError {
	return &DomainError{
		Category: ErrCatNetwork,
		Code:     CodeRequestFailed,
		Message:  message,
	}
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) *DomainError {
	return &DomainError{
		Category: ErrCatNotFound,
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrTransport creates an error for a non-success response.
func ErrTransport(code, message string) *DomainError {
	return &DomainError{
		Category: ErrCatTransport,
		Code:     code,
		Message:  message,
	}
}

// ErrJobFailed creates an error for a job that reached an unsuccessful terminal state.
func ErrJobFailed(jobID int, status JobStatus) *DomainError {
	return &DomainError{
		Category: ErrCatJobFailed,
		Code:     CodeJobFailed,
		Message:  fmt.Sprintf("workflow job %d finished with status %s", jobID, status),
		Details: map[string]interface{}{
			"id":     jobID,
			"status": string(status),
		},
	}
}

// GetCategory extracts the error category.
func GetCategory(err error) ErrorCategory {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Category
	}
	return ErrCatInternal
}

// IsCategory checks if an error belongs to a category.
func IsCategory(err error, cat ErrorCategory) bool {
	return GetCategory(err) == cat
}

// Predefined error codes
const (
	CodeTimeout        = "TIMEOUT"
	CodeAuthFailed     = "AUTH_FAILED"
	CodeRequestFailed  = "REQUEST_FAILED"
	CodeNotFound       = "NOT_FOUND"
	CodeBadRequest     = "BAD_REQUEST"
	CodeServerError    = "SERVER_ERROR"
	CodeUnexpectedCode = "UNEXPECTED_STATUS"
	CodeJobFailed      = "JOB_FAILED"

	// Validation error codes
	CodeInvalidResponse   = "INVALID_RESPONSE"
	CodeInvalidExtraVars  = "INVALID_EXTRA_VARS"
	CodeInvalidTemplate   = "INVALID_TEMPLATE"
	CodeInvalidJobID      = "INVALID_JOB_ID"
	CodeMonitorMissing    = "MONITOR_UNAVAILABLE"
	CodePageLimitExceeded = "PAGE_LIMIT_EXCEEDED"
	CodeForeignURL        = "FOREIGN_URL"
	CodeInvalidConfig     = "INVALID_CONFIG"
)
