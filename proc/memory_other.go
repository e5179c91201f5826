//go:build !linux && !darwin && !windows

package proc

import "github.com/docketworks/platform/errors"

// Memory has no probe on this target.
func Memory() (MemoryStats, error) {
	return MemoryStats{}, errors.NotSupported("proc.memory", "memory statistics unavailable on this platform")
}
