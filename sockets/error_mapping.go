package sockets

import (
	"net"
	"os"
	"syscall"

	"github.com/docketworks/platform/errors"
)

// mapNetError folds a net package failure into the platform taxonomy.
// nonblocking selects how a deadline expiry reads: would_block when the
// caller asked for an immediate attempt, timeout when a configured
// deadline ran out.
func mapNetError(op string, err error, nonblocking bool) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, net.ErrClosed) {
		return errors.Closed(op, "socket")
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return errors.Timeout(op)
		}
		return errors.New(errors.CodeNotFound, op).
			Cause(err).Detail("host %q not resolvable", dnsErr.Name).Build()
	}

	var addrErr *net.AddrError
	if errors.As(err, &addrErr) {
		return errors.New(errors.CodeInvalidArgument, op).Cause(err).Build()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		if nonblocking {
			return errors.WouldBlock(op)
		}
		return errors.Timeout(op)
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return mapSocketErrno(op, err, errno)
	}

	if os.IsPermission(err) {
		return errors.New(errors.CodePermissionDenied, op).Cause(err).Build()
	}

	return errors.New(errors.CodeIO, op).Cause(err).Build()
}

// EAGAIN aliases EWOULDBLOCK on the unix targets, so only the latter may
// appear as a case value.
func mapSocketErrno(op string, cause error, errno syscall.Errno) error {
	var code errors.Code
	switch errno {
	case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ECONNABORTED, syscall.EPIPE,
		syscall.EHOSTUNREACH, syscall.ENETUNREACH, syscall.ENETDOWN:
		code = errors.CodeIO
	case syscall.EACCES, syscall.EPERM:
		code = errors.CodePermissionDenied
	case syscall.EADDRINUSE:
		code = errors.CodeAlreadyExists
	case syscall.EADDRNOTAVAIL, syscall.EINVAL:
		code = errors.CodeInvalidArgument
	case syscall.ENOMEM, syscall.ENOBUFS:
		code = errors.CodeOutOfMemory
	case syscall.ETIMEDOUT:
		code = errors.CodeTimeout
	case syscall.EWOULDBLOCK, syscall.EINPROGRESS:
		code = errors.CodeWouldBlock
	case syscall.EAFNOSUPPORT, syscall.EPROTONOSUPPORT:
		code = errors.CodeNotSupported
	default:
		code = errors.CodeIO
	}
	return errors.New(code, op).Cause(cause).Build()
}
