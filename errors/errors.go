package errors

import (
	"fmt"
	"strings"
)

// Code is the closed set of operation outcomes. Every fallible operation
// in the platform layer reports exactly one of these; no other code ever
// reaches a caller.
type Code string

const (
	CodeOK               Code = "ok"                // success, never carried by an error
	CodeError            Code = "error"             // generic failure
	CodeInvalidArgument  Code = "invalid_argument"  // caller-side validation failure
	CodeOutOfMemory      Code = "out_of_memory"     // allocation exhaustion
	CodeNotFound         Code = "not_found"         // missing path, host, or symbol
	CodeAlreadyExists    Code = "already_exists"    // destination or address conflict
	CodePermissionDenied Code = "permission_denied" // access refused by the OS
	CodeIO               Code = "io"                // transfer or device failure
	CodeTimeout          Code = "timeout"           // deadline expired
	CodeWouldBlock       Code = "would_block"       // cannot complete without blocking
	CodeNotSupported     Code = "not_supported"     // operation unavailable on this target
)

// Error is the structured error type used throughout the platform layer.
type Error struct {
	Value  any
	Cause  error
	Code   Code
	Op     string
	Path   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(e.Op)
	b.WriteString("] ")
	b.WriteString(string(e.Code))

	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Codes must be equal; an
// empty Op on the target acts as a wildcard, so
// errors.Is(err, &Error{Code: CodeNotFound}) matches any not-found failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Code != t.Code {
		return false
	}
	return t.Op == "" || e.Op == t.Op
}

// CodeOf extracts the outcome code from any error. A nil error is CodeOK;
// an error that is not a platform *Error collapses to CodeError, keeping
// the enumeration closed for callers.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return CodeError
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(code Code, op string) *Builder {
	return &Builder{
		err: Error{
			Code: code,
			Op:   op,
		},
	}
}

// Path sets the path or address the operation touched
func (b *Builder) Path(path string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common failure patterns

// Invalid creates an argument-validation error
func Invalid(op, detail string) *Error {
	return &Error{
		Code:   CodeInvalidArgument,
		Op:     op,
		Detail: detail,
	}
}

// NotFound creates a not-found error for a named thing
func NotFound(op, what, name string) *Error {
	return &Error{
		Code:   CodeNotFound,
		Op:     op,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// PathNotFound creates a not-found error for a filesystem path
func PathNotFound(op, path string) *Error {
	return &Error{
		Code: CodeNotFound,
		Op:   op,
		Path: path,
	}
}

// AlreadyExists creates a destination-conflict error
func AlreadyExists(op, path string) *Error {
	return &Error{
		Code: CodeAlreadyExists,
		Op:   op,
		Path: path,
	}
}

// PermissionDenied creates an access error
func PermissionDenied(op, path string, cause error) *Error {
	return &Error{
		Code:  CodePermissionDenied,
		Op:    op,
		Path:  path,
		Cause: cause,
	}
}

// IO creates a transfer or device error
func IO(op string, cause error) *Error {
	return &Error{
		Code:  CodeIO,
		Op:    op,
		Cause: cause,
	}
}

// Timeout creates a deadline-expired error
func Timeout(op string) *Error {
	return &Error{
		Code: CodeTimeout,
		Op:   op,
	}
}

// WouldBlock creates a cannot-complete-now error for non-blocking handles
func WouldBlock(op string) *Error {
	return &Error{
		Code: CodeWouldBlock,
		Op:   op,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(op string, size uint64) *Error {
	return &Error{
		Code:   CodeOutOfMemory,
		Op:     op,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Value:  size,
	}
}

// NotSupported creates an unsupported-operation error
func NotSupported(op, what string) *Error {
	return &Error{
		Code:   CodeNotSupported,
		Op:     op,
		Detail: what,
	}
}

// NotInitialized creates an error for use of a subsystem before its init
func NotInitialized(op, subsystem string) *Error {
	return &Error{
		Code:   CodeError,
		Op:     op,
		Detail: fmt.Sprintf("%s not initialized", subsystem),
	}
}

// Closed creates the defined use-after-close error. Every handle method
// returns this once the handle's destroy/close/unload has run.
func Closed(op, what string) *Error {
	return &Error{
		Code:   CodeInvalidArgument,
		Op:     op,
		Detail: fmt.Sprintf("%s used after close", what),
	}
}

// Wrap wraps an existing error with a code and operation
func Wrap(code Code, op string, cause error, detail string) *Error {
	return &Error{
		Code:   code,
		Op:     op,
		Detail: detail,
		Cause:  cause,
	}
}
