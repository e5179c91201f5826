package filesystem

import (
	"path/filepath"
	"strings"
)

// Path helpers are pure string transforms on the native separator. None
// of them touch the filesystem.

// Normalize rewrites foreign separators to the native one and cleans dot
// segments. Cleaning follows filepath.Clean, so an empty path comes back
// as ".".
func Normalize(path string) string {
	if filepath.Separator == '/' {
		path = strings.ReplaceAll(path, "\\", "/")
	}
	return filepath.Clean(filepath.FromSlash(path))
}

// Join connects elements with the native separator and cleans the result.
// Empty elements are skipped.
func Join(elem ...string) string {
	return filepath.Join(elem...)
}

// Ext returns the extension of the final element, dot included, or ""
// when there is none.
func Ext(path string) string {
	return filepath.Ext(path)
}

// Base returns the final element of path.
func Base(path string) string {
	return filepath.Base(path)
}

// Dir returns path with its final element removed, cleaned.
func Dir(path string) string {
	return filepath.Dir(path)
}
