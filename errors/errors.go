package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
)

// AppError is the unified shellkit error type.
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

// --- Constructors ---

// NotFound creates an AppError for a missing path or resource.
func NotFound(resource, path string) *AppError {
	details := map[string]any{"resource": resource}
	if path != "" {
		details["path"] = path
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found", resource),
		Details: details,
	}
}

// PermissionDenied creates an AppError for a path the caller may not access.
func PermissionDenied(path string) *AppError {
	return &AppError{
		Code: ErrCodePermissionDenied, Message: fmt.Sprintf("permission denied: %s", path),
		Details: map[string]any{"path": path},
	}
}

// AlreadyExists creates an AppError for a path that already exists.
func AlreadyExists(path string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("already exists: %s", path),
		Details: map[string]any{"path": path},
	}
}

// InvalidInput creates an AppError for an invalid argument.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates an AppError for a failed struct validation.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// InvalidPattern creates an AppError for a pattern expression that does not compile.
func InvalidPattern(expr string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeInvalidPattern, Message: fmt.Sprintf("invalid pattern %q", expr),
		Details: map[string]any{"pattern": expr}, Cause: cause,
	}
}

// ProcessStart creates an AppError for a subprocess that could not be started.
func ProcessStart(command string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeProcessStart, Message: fmt.Sprintf("cannot start %s", command),
		Details: map[string]any{"command": command}, Cause: cause,
	}
}

// ProcessKilled creates an AppError for a subprocess terminated by cancellation.
func ProcessKilled(command string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeProcessKilled, Message: fmt.Sprintf("%s killed by context", command),
		Details: map[string]any{"command": command}, Cause: cause,
	}
}

// ResourceAcquire creates an AppError for a guarded resource that failed to acquire.
func ResourceAcquire(kind string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeResourceAcquire, Message: fmt.Sprintf("acquire %s", kind),
		Details: map[string]any{"resource": kind}, Cause: cause,
	}
}

// ResourceRelease creates an AppError for a guarded resource that failed to release.
func ResourceRelease(kind string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeResourceRelease, Message: fmt.Sprintf("release %s", kind),
		Details: map[string]any{"resource": kind}, Cause: cause,
	}
}

// Timeout creates an AppError for an operation that exceeded its deadline.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s timed out", operation),
		Retryable: true, Details: map[string]any{"operation": operation},
	}
}

// Internal creates an AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "unexpected error", Cause: cause,
	}
}

// FromOS classifies an error returned by the os and io/fs packages.
// Errors that are already AppErrors pass through untouched; nil stays nil.
func FromOS(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if IsAppError(err) {
		return err
	}
	var appErr *AppError
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		appErr = NotFound("path", path)
	case stderrors.Is(err, fs.ErrPermission):
		appErr = PermissionDenied(path)
	case stderrors.Is(err, fs.ErrExist):
		appErr = AlreadyExists(path)
	case stderrors.Is(err, os.ErrDeadlineExceeded):
		appErr = Timeout(op)
	default:
		appErr = Internal(nil)
		appErr.Message = fmt.Sprintf("%s %s failed", op, path)
	}
	return appErr.WithDetail("op", op).WithCause(err)
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err carries an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
