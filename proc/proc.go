// Package proc reports facts about the running process and its host:
// identity (pid, hostname, executable path), compute shape (logical CPU
// count, physical memory), the environment table, and whether the
// standard streams are attached to a terminal.
//
// Memory is the only per-OS surface; its body is selected by build tags
// and reports not_supported on targets without a probe.
package proc

import (
	"os"
	"runtime"

	"github.com/docketworks/platform/errors"
)

// MemoryStats describes physical memory on the host, in bytes.
type MemoryStats struct {
	Total     uint64
	Available uint64
}

// PID returns the operating system process identifier.
func PID() int {
	return os.Getpid()
}

// NumCPU returns the number of logical CPUs usable by the process.
func NumCPU() int {
	return runtime.NumCPU()
}

// Hostname returns the host's reported name.
func Hostname() (string, error) {
	name, err := os.Hostname()
	if err != nil {
		return "", errors.Wrap(errors.CodeError, "proc.hostname", err, "hostname unavailable")
	}
	return name, nil
}

// Getenv looks up a single environment variable. The second result
// distinguishes an empty value from an absent key.
func Getenv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Setenv sets an environment variable for this process and its future
// children.
func Setenv(key, value string) error {
	if key == "" {
		return errors.Invalid("proc.setenv", "empty variable name")
	}
	if err := os.Setenv(key, value); err != nil {
		return errors.Wrap(errors.CodeError, "proc.setenv", err, "cannot set "+key)
	}
	return nil
}

// Unsetenv removes an environment variable. Removing an absent key
// succeeds.
func Unsetenv(key string) error {
	if key == "" {
		return errors.Invalid("proc.unsetenv", "empty variable name")
	}
	if err := os.Unsetenv(key); err != nil {
		return errors.Wrap(errors.CodeError, "proc.unsetenv", err, "cannot unset "+key)
	}
	return nil
}

// Environ returns a copy of the full environment as "key=value" strings.
func Environ() []string {
	return os.Environ()
}

// WorkingDir returns the process's current working directory.
func WorkingDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(errors.CodeError, "proc.workingdir", err, "working directory unavailable")
	}
	return dir, nil
}

// Executable returns the path of the running binary.
func Executable() (string, error) {
	path, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(errors.CodeError, "proc.executable", err, "executable path unavailable")
	}
	return path, nil
}
