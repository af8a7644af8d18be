package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Transport terminal conditions. All of them are absorbed by the adapter
// and surface only through Response fields.
const (
	// ErrCodeNetwork indicates the transport failed before a response completed.
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"
	// ErrCodeAborted indicates the request was cancelled by the caller.
	ErrCodeAborted ErrorCode = "ABORTED"
	// ErrCodeTimeout indicates the configured request timeout elapsed.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeMalformedJSON indicates a JSON content-type with an unparseable body.
	ErrCodeMalformedJSON ErrorCode = "MALFORMED_JSON_BODY"
)

// Usage errors
const (
	// ErrCodeInvalidState indicates a transport handle was used out of order.
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeUnsupported indicates the backend cannot perform the operation.
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeNetwork:  true,
	ErrCodeTimeout:  true,
	ErrCodeAborted:  false,
	ErrCodeInternal: false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// The adapter never retries; the flag is informational for the layers above.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
