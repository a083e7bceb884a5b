package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Resource errors
const (
	// ErrCodeNotFound indicates a path or resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodePermissionDenied indicates the caller may not access the resource.
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	// ErrCodeAlreadyExists indicates the resource already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeResourceAcquire indicates a guarded resource could not be acquired.
	ErrCodeResourceAcquire ErrorCode = "RESOURCE_ACQUIRE"
	// ErrCodeResourceRelease indicates a guarded resource failed to release.
	ErrCodeResourceRelease ErrorCode = "RESOURCE_RELEASE"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidPattern indicates a pattern expression could not be compiled.
	ErrCodeInvalidPattern ErrorCode = "INVALID_PATTERN"
)

// Process errors
const (
	// ErrCodeProcessStart indicates a subprocess could not be started.
	ErrCodeProcessStart ErrorCode = "PROCESS_START"
	// ErrCodeProcessKilled indicates a subprocess was terminated by cancellation.
	ErrCodeProcessKilled ErrorCode = "PROCESS_KILLED"
	// ErrCodeTimeout indicates an operation exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:       true,
	ErrCodeProcessKilled: false,
	ErrCodeInternal:      false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// shellkit never retries on its own; the hint is for callers.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
