package sockets

import (
	"context"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/docketworks/platform/errors"
	"github.com/docketworks/platform/resource"
)

// Socket is a TCP or UDP endpoint. It begins unbound and unconnected and
// moves through initial -> (bound -> listening | connected) -> closed;
// every method validates the state first, so a wrong-state call is an
// invalid_argument error and a call after Close is the defined closed
// error, never a crash.
//
// Methods are safe to call from multiple goroutines. Transfers apply the
// timeout and blocking mode in force when they start.
type Socket struct {
	mu    sync.Mutex
	kind  Kind
	state socketState

	conn     net.Conn         // connected TCP, or UDP connected by dial
	listener *net.TCPListener // listening TCP
	pconn    net.PacketConn   // bound UDP
	peer     *net.UDPAddr     // default peer for UDP connected after bind

	bindHost string // TCP bind is recorded here and applied at listen or connect
	bindPort uint16

	sendTimeout time.Duration // zero means no deadline
	recvTimeout time.Duration
	nonblocking bool

	handle resource.Handle
}

// New creates an unbound socket of the given kind. The socket subsystem
// must be initialized first.
func New(kind Kind) (*Socket, error) {
	if !initialized() {
		return nil, errors.NotInitialized("sockets.new", "socket subsystem")
	}
	switch kind {
	case TCP, UDP:
	default:
		return nil, errors.Invalid("sockets.new", "unknown socket kind "+string(kind))
	}

	return &Socket{
		kind:   kind,
		state:  stateInitial,
		handle: resource.Default().Register(resource.KindSocket, string(kind)),
	}, nil
}

func (s *Socket) require(op string, want ...socketState) error {
	if s.state == stateClosed {
		return errors.Closed(op, "socket")
	}
	for _, st := range want {
		if s.state == st {
			return nil
		}
	}
	return errors.Invalid(op, "socket is "+s.state.String())
}

func joinHostPort(host string, port uint16) string {
	return net.JoinHostPort(host, strconv.Itoa(int(port)))
}

func addrHostPort(a net.Addr) (string, uint16) {
	switch t := a.(type) {
	case *net.TCPAddr:
		return t.IP.String(), uint16(t.Port)
	case *net.UDPAddr:
		return t.IP.String(), uint16(t.Port)
	}
	host, portStr, err := net.SplitHostPort(a.String())
	if err != nil {
		return a.String(), 0
	}
	p, _ := strconv.Atoi(portStr)
	return host, uint16(p)
}

// Bind attaches the socket to a local address. An empty host binds the
// wildcard address; port zero asks the OS for an ephemeral port. For TCP
// the address is recorded and the OS socket appears at Listen or Connect;
// for UDP the packet endpoint opens immediately.
func (s *Socket) Bind(host string, port uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("sockets.bind", stateInitial); err != nil {
		return err
	}

	if s.kind == TCP {
		s.bindHost, s.bindPort = host, port
		s.state = stateBound
		return nil
	}

	pc, err := net.ListenPacket("udp", joinHostPort(host, port))
	if err != nil {
		return mapNetError("sockets.bind", err, false)
	}
	s.pconn = pc
	s.state = stateBound
	return nil
}

// Connect establishes a connection to host:port, resolving the name
// first. Resolution failure is not_found; connection failure is io. For
// UDP the call sets the default peer: datagrams then flow through Send
// and Recv, and traffic from other sources is dropped.
func (s *Socket) Connect(ctx context.Context, host string, port uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("sockets.connect", stateInitial, stateBound); err != nil {
		return err
	}

	// A UDP socket that is already bound keeps its endpoint; connecting
	// just fixes the peer address.
	if s.kind == UDP && s.state == stateBound {
		peer, err := resolveUDPPeer(ctx, host, port)
		if err != nil {
			return err
		}
		s.peer = peer
		s.state = stateConnected
		return nil
	}

	dialer := net.Dialer{}
	if s.kind == TCP && s.state == stateBound && (s.bindHost != "" || s.bindPort != 0) {
		laddr, err := net.ResolveTCPAddr("tcp", joinHostPort(s.bindHost, s.bindPort))
		if err != nil {
			return mapNetError("sockets.connect", err, false)
		}
		dialer.LocalAddr = laddr
	}

	conn, err := dialer.DialContext(ctx, string(s.kind), joinHostPort(host, port))
	if err != nil {
		return mapNetError("sockets.connect", err, false)
	}

	s.conn = conn
	s.state = stateConnected
	Logger().Debug("socket connected",
		zap.String("kind", string(s.kind)),
		zap.String("remote", conn.RemoteAddr().String()))
	return nil
}

func resolveUDPPeer(ctx context.Context, host string, port uint16) (*net.UDPAddr, error) {
	resolver := net.Resolver{}
	addrs, err := resolver.LookupHost(ctx, host)
	if err != nil {
		return nil, mapNetError("sockets.connect", err, false)
	}
	ip := net.ParseIP(addrs[0])
	if ip == nil {
		return nil, errors.New(errors.CodeNotFound, "sockets.connect").
			Detail("host %q not resolvable", host).Build()
	}
	return &net.UDPAddr{IP: ip, Port: int(port)}, nil
}

// Listen starts accepting TCP connections on the bound address. The
// backlog must be non-negative; the accept queue itself uses the OS
// default depth.
func (s *Socket) Listen(backlog int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.kind != TCP {
		return errors.NotSupported("sockets.listen", "listen on a datagram socket")
	}
	if backlog < 0 {
		return errors.Invalid("sockets.listen", "negative backlog")
	}
	if err := s.require("sockets.listen", stateBound); err != nil {
		return err
	}

	lc := net.ListenConfig{}
	ln, err := lc.Listen(context.Background(), "tcp", joinHostPort(s.bindHost, s.bindPort))
	if err != nil {
		return mapNetError("sockets.listen", err, false)
	}

	tl, ok := ln.(*net.TCPListener)
	if !ok {
		_ = ln.Close()
		return errors.New(errors.CodeError, "sockets.listen").
			Detail("unexpected listener type %T", ln).Build()
	}

	s.listener = tl
	s.state = stateListening
	Logger().Debug("socket listening", zap.String("addr", tl.Addr().String()))
	return nil
}

// Accept waits for the next inbound connection and returns it as a new
// connected socket. The listener stays usable for further accepts. In
// non-blocking mode an empty queue reports would_block; an expired
// receive timeout reports timeout.
func (s *Socket) Accept() (*Socket, error) {
	s.mu.Lock()
	if err := s.require("sockets.accept", stateListening); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	ln := s.listener
	nonblocking := s.nonblocking
	timeout := s.recvTimeout
	s.mu.Unlock()

	applyDeadline(ln.SetDeadline, nonblocking, timeout)

	conn, err := ln.Accept()
	if err != nil {
		return nil, mapNetError("sockets.accept", err, nonblocking)
	}

	Logger().Debug("connection accepted", zap.String("remote", conn.RemoteAddr().String()))
	return &Socket{
		kind:   TCP,
		state:  stateConnected,
		conn:   conn,
		handle: resource.Default().Register(resource.KindSocket, conn.RemoteAddr().String()),
	}, nil
}

func applyDeadline(set func(time.Time) error, nonblocking bool, d time.Duration) {
	switch {
	case nonblocking:
		_ = set(time.Now())
	case d > 0:
		_ = set(time.Now().Add(d))
	default:
		_ = set(time.Time{})
	}
}

// Send writes bytes to the connected peer. The returned count may be
// less than len(p); callers loop for full delivery. When some bytes went
// out before a failure, the count is returned and the failure surfaces
// on the next call.
func (s *Socket) Send(p []byte) (int, error) {
	s.mu.Lock()
	if err := s.require("sockets.send", stateConnected); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	conn, pc, peer := s.conn, s.pconn, s.peer
	nonblocking := s.nonblocking
	timeout := s.sendTimeout
	s.mu.Unlock()

	if conn != nil {
		applyDeadline(conn.SetWriteDeadline, nonblocking, timeout)
		n, err := conn.Write(p)
		if err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, mapNetError("sockets.send", err, nonblocking)
		}
		return n, nil
	}

	applyDeadline(pc.SetWriteDeadline, nonblocking, timeout)
	n, err := pc.WriteTo(p, peer)
	if err != nil {
		return 0, mapNetError("sockets.send", err, nonblocking)
	}
	return n, nil
}

// Recv reads into p and returns the byte count, which may be less than
// len(p). Orderly shutdown by the peer returns (0, nil). An expired
// receive timeout is timeout; non-blocking mode with nothing buffered is
// would_block.
func (s *Socket) Recv(p []byte) (int, error) {
	s.mu.Lock()
	if err := s.require("sockets.recv", stateConnected); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	conn, pc, peer := s.conn, s.pconn, s.peer
	nonblocking := s.nonblocking
	timeout := s.recvTimeout
	s.mu.Unlock()

	if conn != nil {
		applyDeadline(conn.SetReadDeadline, nonblocking, timeout)
		n, err := conn.Read(p)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, nil
			}
			if n > 0 {
				return n, nil
			}
			return 0, mapNetError("sockets.recv", err, nonblocking)
		}
		return n, nil
	}

	// Bound-then-connected UDP keeps the packet endpoint and filters by
	// peer, the same discard a kernel-connected socket performs. The
	// deadline is absolute, so dropped foreign datagrams do not extend it.
	applyDeadline(pc.SetReadDeadline, nonblocking, timeout)
	for {
		n, from, err := pc.ReadFrom(p)
		if err != nil {
			return 0, mapNetError("sockets.recv", err, nonblocking)
		}
		if ua, ok := from.(*net.UDPAddr); ok && ua.IP.Equal(peer.IP) && ua.Port == peer.Port {
			return n, nil
		}
	}
}

// SendTo sends one datagram to host:port from a bound UDP socket.
func (s *Socket) SendTo(p []byte, host string, port uint16) (int, error) {
	s.mu.Lock()
	if s.kind != UDP {
		s.mu.Unlock()
		return 0, errors.NotSupported("sockets.sendto", "sendto on a stream socket")
	}
	if err := s.require("sockets.sendto", stateBound); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	pc := s.pconn
	nonblocking := s.nonblocking
	timeout := s.sendTimeout
	s.mu.Unlock()

	raddr, err := net.ResolveUDPAddr("udp", joinHostPort(host, port))
	if err != nil {
		return 0, mapNetError("sockets.sendto", err, false)
	}

	applyDeadline(pc.SetWriteDeadline, nonblocking, timeout)
	n, err := pc.WriteTo(p, raddr)
	if err != nil {
		return 0, mapNetError("sockets.sendto", err, nonblocking)
	}
	return n, nil
}

// RecvFrom receives one datagram on a bound UDP socket and reports the
// sender's address. A datagram longer than p is truncated to fit.
func (s *Socket) RecvFrom(p []byte) (int, string, uint16, error) {
	s.mu.Lock()
	if s.kind != UDP {
		s.mu.Unlock()
		return 0, "", 0, errors.NotSupported("sockets.recvfrom", "recvfrom on a stream socket")
	}
	if err := s.require("sockets.recvfrom", stateBound); err != nil {
		s.mu.Unlock()
		return 0, "", 0, err
	}
	pc := s.pconn
	nonblocking := s.nonblocking
	timeout := s.recvTimeout
	s.mu.Unlock()

	applyDeadline(pc.SetReadDeadline, nonblocking, timeout)
	n, from, err := pc.ReadFrom(p)
	if err != nil {
		return 0, "", 0, mapNetError("sockets.recvfrom", err, nonblocking)
	}
	host, port := addrHostPort(from)
	return n, host, port, nil
}

// SetTimeout configures independent send and receive deadlines in
// milliseconds, applied per call. Zero disables the deadline.
func (s *Socket) SetTimeout(sendMS, recvMS uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateClosed {
		return errors.Closed("sockets.settimeout", "socket")
	}
	s.sendTimeout = time.Duration(sendMS) * time.Millisecond
	s.recvTimeout = time.Duration(recvMS) * time.Millisecond
	return nil
}

// SetNonblocking switches the socket between blocking and non-blocking
// transfer modes.
func (s *Socket) SetNonblocking(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateClosed {
		return errors.Closed("sockets.setnonblocking", "socket")
	}
	s.nonblocking = enabled
	return nil
}

// LocalAddr reports the bound local address. For a TCP socket between
// Bind and Listen it returns the recorded request, ephemeral port still
// zero; once an OS socket exists it returns the real assignment.
func (s *Socket) LocalAddr() (string, uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateClosed {
		return "", 0, errors.Closed("sockets.localaddr", "socket")
	}

	switch {
	case s.conn != nil:
		host, port := addrHostPort(s.conn.LocalAddr())
		return host, port, nil
	case s.listener != nil:
		host, port := addrHostPort(s.listener.Addr())
		return host, port, nil
	case s.pconn != nil:
		host, port := addrHostPort(s.pconn.LocalAddr())
		return host, port, nil
	case s.kind == TCP && s.state == stateBound:
		return s.bindHost, s.bindPort, nil
	}
	return "", 0, errors.Invalid("sockets.localaddr", "socket is not bound")
}

// Close shuts the socket down and releases its tracker entry. Any
// blocked transfer or accept on this socket unblocks with the closed
// error.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateClosed {
		return errors.Closed("sockets.close", "socket")
	}
	s.state = stateClosed
	resource.Default().Release(s.handle)

	var firstErr error
	if s.conn != nil {
		firstErr = s.conn.Close()
	}
	if s.listener != nil {
		if err := s.listener.Close(); firstErr == nil {
			firstErr = err
		}
	}
	if s.pconn != nil {
		if err := s.pconn.Close(); firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return mapNetError("sockets.close", firstErr, false)
	}
	return nil
}
