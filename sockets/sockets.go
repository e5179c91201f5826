package sockets

import (
	"context"
	"net"

	"github.com/docketworks/platform/atomics"
	"github.com/docketworks/platform/errors"
)

// Kind selects the transport for a new socket.
type Kind string

const (
	TCP Kind = "tcp"
	UDP Kind = "udp"
)

type socketState uint8

const (
	stateInitial socketState = iota
	stateBound
	stateListening
	stateConnected
	stateClosed
)

func (s socketState) String() string {
	switch s {
	case stateInitial:
		return "initial"
	case stateBound:
		return "bound"
	case stateListening:
		return "listening"
	case stateConnected:
		return "connected"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var initCount atomics.Int32

// Init marks the socket subsystem in use. Calls nest; each one needs a
// matching Cleanup. The Go runtime readies the network stack on demand,
// so this is a logical gate rather than a WSAStartup-style call, but the
// bracket discipline is still enforced.
func Init() error {
	initCount.Add(1)
	return nil
}

// Cleanup undoes one Init. The subsystem stays usable while any bracket
// remains open.
func Cleanup() error {
	for {
		n := initCount.Load()
		if n <= 0 {
			return errors.New(errors.CodeError, "sockets.cleanup").
				Detail("cleanup without matching init").Build()
		}
		if initCount.CompareAndSwap(n, n-1) {
			return nil
		}
	}
}

func initialized() bool {
	return initCount.Load() > 0
}

// Resolve looks up host through the system resolver and returns its
// addresses as strings. An unresolvable name is not_found.
func Resolve(ctx context.Context, host string) ([]string, error) {
	if !initialized() {
		return nil, errors.NotInitialized("sockets.resolve", "socket subsystem")
	}
	if host == "" {
		return nil, errors.Invalid("sockets.resolve", "empty host name")
	}

	resolver := net.Resolver{}
	addrs, err := resolver.LookupHost(ctx, host)
	if err != nil {
		return nil, mapNetError("sockets.resolve", err, false)
	}
	return addrs, nil
}
