// Package errors provides the structured error type shared by shellkit packages.
// Errors carry a machine-readable code, a retryable hint and an optional cause,
// and classify filesystem failures so callers can branch on NOT_FOUND or
// PERMISSION_DENIED without inspecting syscall errors.
package errors
