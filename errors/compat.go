package errors

import "errors"

// Standard-library matching helpers, re-exported so callers inspecting
// platform errors do not need a second errors import.

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling Unwrap on err, if any.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
