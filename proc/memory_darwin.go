//go:build darwin

package proc

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/docketworks/platform/errors"
)

// Memory reads physical memory totals from sysctl. Available is the free
// page count times the page size, which undercounts purgeable memory.
func Memory() (MemoryStats, error) {
	total, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return MemoryStats{}, errors.Wrap(errors.CodeError, "proc.memory", err, "sysctl hw.memsize failed")
	}

	freePages, err := unix.SysctlUint32("vm.page_free_count")
	if err != nil {
		return MemoryStats{}, errors.Wrap(errors.CodeError, "proc.memory", err, "sysctl vm.page_free_count failed")
	}

	return MemoryStats{
		Total:     total,
		Available: uint64(freePages) * uint64(os.Getpagesize()),
	}, nil
}
