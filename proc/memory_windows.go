//go:build windows

package proc

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/docketworks/platform/errors"
)

// Memory reads physical memory totals from GlobalMemoryStatusEx.
func Memory() (MemoryStats, error) {
	var status windows.MemoryStatusEx
	status.Length = uint32(unsafe.Sizeof(status))
	if err := windows.GlobalMemoryStatusEx(&status); err != nil {
		return MemoryStats{}, errors.Wrap(errors.CodeError, "proc.memory", err, "GlobalMemoryStatusEx failed")
	}
	return MemoryStats{
		Total:     status.TotalPhys,
		Available: status.AvailPhys,
	}, nil
}
