// Package errors provides the structured error types for the platform layer.
//
// Every fallible operation reports one Code from a closed enumeration; the
// Error type adds context: the operation name, the path or address involved,
// a detail message, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.CodeIO, "copy").
//		Path(dst).
//		Cause(werr).
//		Detail("short write at %d", n).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound("connect", "host", host)
//	err := errors.Timeout("recv")
//
// All errors implement the standard error interface and support errors.Is/As.
// CodeOf collapses any error, platform-built or foreign, onto the closed
// code set, so callers can switch on outcomes without type assertions:
//
//	switch errors.CodeOf(err) {
//	case errors.CodeOK:
//	case errors.CodeWouldBlock:
//		// retry later
//	default:
//		// hard failure
//	}
package errors
