package proc

import (
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

var (
	stdinIsTerminal  int32 = -1 // -1 = unchecked, 0 = no, 1 = yes
	stdoutIsTerminal int32 = -1
	stderrIsTerminal int32 = -1
)

func isTerminalCached(fd int, cached *int32) bool {
	if v := atomic.LoadInt32(cached); v >= 0 {
		return v == 1
	}
	result := term.IsTerminal(fd)
	if result {
		atomic.StoreInt32(cached, 1)
	} else {
		atomic.StoreInt32(cached, 0)
	}
	return result
}

// IsTerminal reports whether fd refers to a terminal. The standard-stream
// variants below cache their answer; this one asks the OS every call.
func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// StdinIsTerminal reports whether stdin is attached to a terminal.
func StdinIsTerminal() bool {
	return isTerminalCached(int(os.Stdin.Fd()), &stdinIsTerminal)
}

// StdoutIsTerminal reports whether stdout is attached to a terminal.
func StdoutIsTerminal() bool {
	return isTerminalCached(int(os.Stdout.Fd()), &stdoutIsTerminal)
}

// StderrIsTerminal reports whether stderr is attached to a terminal.
func StderrIsTerminal() bool {
	return isTerminalCached(int(os.Stderr.Fd()), &stderrIsTerminal)
}
