package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Transport conditions ---

// Network creates an AppError for a failed exchange with the remote host.
func Network(url string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeNetwork, Message: "The request could not be completed.",
		Retryable: true, Cause: cause,
		Details: map[string]any{"url": url},
	}
}

// Aborted creates an AppError for a request cancelled before completion.
func Aborted(url string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeAborted, Message: "The request was aborted.",
		Retryable: false, Cause: cause,
		Details: map[string]any{"url": url},
	}
}

// Timeout creates an AppError for a request that exceeded its timeout.
func Timeout(url string, timeoutMS int64) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The request took too long.",
		Retryable: true,
		Details:   map[string]any{"url": url, "timeout_ms": timeoutMS},
	}
}

// MalformedJSON creates an AppError for a JSON content-type whose body does not parse.
func MalformedJSON(contentType string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeMalformedJSON, Message: "The response body is not valid JSON.",
		Retryable: false, Cause: cause,
		Details: map[string]any{"content_type": contentType},
	}
}

// --- Usage errors ---

// InvalidState creates an AppError for an operation not allowed in the current state.
func InvalidState(operation, state string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidState, Message: fmt.Sprintf("Cannot %s while %s.", operation, state),
		Retryable: false,
		Details:   map[string]any{"operation": operation, "state": state},
	}
}

// InvalidInput creates an AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		Retryable: false,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		Retryable: false,
		Details:   map[string]any{"field": field},
	}
}

// Unsupported creates an AppError for an operation a backend cannot perform.
func Unsupported(backend, feature string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupported, Message: fmt.Sprintf("%s does not support %s.", backend, feature),
		Retryable: false,
		Details:   map[string]any{"backend": backend, "feature": feature},
	}
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Retryable: false, Cause: cause,
	}
}

// --- Classification ---

// CodeOf returns the code of the first AppError in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// IsNetwork reports whether err is a network failure.
func IsNetwork(err error) bool { return CodeOf(err) == ErrCodeNetwork }

// IsAborted reports whether err is a cancellation.
func IsAborted(err error) bool { return CodeOf(err) == ErrCodeAborted }

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool { return CodeOf(err) == ErrCodeTimeout }

// IsMalformedJSON reports whether err is a JSON body parse failure.
func IsMalformedJSON(err error) bool { return CodeOf(err) == ErrCodeMalformedJSON }

// IsRetryable reports whether any AppError in err's chain is retryable.
func IsRetryable(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Retryable
}

func asAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
