// Package errors provides structured errors with machine-readable codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Remote API errors
	CodeRemote    Code = "REMOTE_ERROR"
	CodeTransport Code = "TRANSPORT_ERROR"

	// Precondition errors
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
)

// Retryable reports whether the next tick may succeed without intervention.
func (c Code) Retryable() bool {
	switch c {
	case CodeRemote, CodeTransport:
		return true
	default:
		return false
	}
}
