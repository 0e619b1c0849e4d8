// Package errors provides the structured error type shared by rxhttp
// packages. An AppError carries a machine-readable code, a retryable hint,
// optional details and the underlying cause, and unwraps to that cause so
// callers can keep using errors.Is and errors.As.
package errors
