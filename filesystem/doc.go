// Package filesystem implements portable file and directory operations.
//
// Provides:
//   - existence, type, and size queries that treat absence as an answer
//   - create, remove, rename, copy, and whole-file read/write/append
//   - pure path transforms on the native separator
//   - a forward-only directory cursor with scanner-style iteration
//
// Every OS failure is folded into the shared platform error taxonomy, so
// callers branch on errors.Code rather than on GOOS-specific errno
// values.
package filesystem
