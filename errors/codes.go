package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Engine errors
const (
	// ErrCodeEngineUnavailable indicates an engine is unreachable or misconfigured.
	ErrCodeEngineUnavailable ErrorCode = "ENGINE_UNAVAILABLE"
	// ErrCodeEngineFailed indicates an engine run raised an exception.
	ErrCodeEngineFailed ErrorCode = "ENGINE_FAILED"
	// ErrCodeMissingCredentials indicates a required API key or token is not configured.
	ErrCodeMissingCredentials ErrorCode = "MISSING_CREDENTIALS"
	// ErrCodeTimeout indicates an engine call timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested record was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeConflict indicates a conflict with the current state of the record.
	ErrCodeConflict ErrorCode = "CONFLICT"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeDatabaseError indicates a persistence error.
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeEngineUnavailable: true,
	ErrCodeTimeout:           true,
	ErrCodeDatabaseError:     true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
//
// Note that nothing in the transcription core retries on its own; retryable
// here is advisory for callers that schedule their own re-runs.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
