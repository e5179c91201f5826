//go:build linux

package proc

import (
	"golang.org/x/sys/unix"

	"github.com/docketworks/platform/errors"
)

// Memory reads physical memory totals from sysinfo(2). Available is the
// kernel's free-page count, which undercounts reclaimable cache.
func Memory() (MemoryStats, error) {
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		return MemoryStats{}, errors.Wrap(errors.CodeError, "proc.memory", err, "sysinfo failed")
	}
	unit := uint64(si.Unit)
	return MemoryStats{
		Total:     uint64(si.Totalram) * unit,
		Available: uint64(si.Freeram) * unit,
	}, nil
}
