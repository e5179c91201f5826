package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/docketworks/platform/clocks"
	"github.com/docketworks/platform/errors"
	"github.com/docketworks/platform/filesystem"
	"github.com/docketworks/platform/mem"
	"github.com/docketworks/platform/random"
	"github.com/docketworks/platform/sockets"
	"github.com/docketworks/platform/thread"
)

// A probe exercises one slice of the layer end to end and reports the
// first failure. Each probe brackets whatever setup it needs, so they
// can run individually from the dashboard.
type probe struct {
	name string
	run  func() error
}

func probes() []probe {
	return []probe{
		{"tcp echo", probeTCPEcho},
		{"udp round trip", probeUDPRoundTrip},
		{"directory cursor", probeDirCursor},
		{"arena allocator", probeArena},
		{"clock round trip", probeClocks},
		{"thread join", probeThread},
		{"condition handoff", probeCond},
		{"random entropy", probeRandom},
	}
}

func runSelftest(w io.Writer) error {
	fmt.Fprintln(w, titleStyle.Render("platform self-test"))
	fmt.Fprintln(w)

	all := probes()
	failed := 0
	for _, p := range all {
		if err := p.run(); err != nil {
			failed++
			fmt.Fprintf(w, "%s %-18s %v\n", errorStyle.Render("FAIL"), p.name, err)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", resultStyle.Render("ok  "), p.name)
	}

	fmt.Fprintln(w)
	if failed > 0 {
		return fmt.Errorf("%d of %d probes failed", failed, len(all))
	}
	fmt.Fprintf(w, "all %d probes passed\n", len(all))
	return nil
}

func probeTCPEcho() error {
	if err := sockets.Init(); err != nil {
		return err
	}
	defer sockets.Cleanup()

	listener, err := sockets.New(sockets.TCP)
	if err != nil {
		return err
	}
	defer listener.Close()
	if err := listener.Bind("127.0.0.1", 0); err != nil {
		return err
	}
	if err := listener.Listen(1); err != nil {
		return err
	}
	_, port, err := listener.LocalAddr()
	if err != nil {
		return err
	}

	echoer, err := thread.Spawn(func() error {
		conn, err := listener.Accept()
		if err != nil {
			return err
		}
		defer conn.Close()
		buf := make([]byte, 64)
		n, err := conn.Recv(buf)
		if err != nil {
			return err
		}
		_, err = conn.Send(buf[:n])
		return err
	})
	if err != nil {
		return err
	}

	client, err := sockets.New(sockets.TCP)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Connect(ctx, "127.0.0.1", port); err != nil {
		return err
	}
	if _, err := client.Send([]byte("probe")); err != nil {
		return err
	}

	client.SetTimeout(0, 3000)
	buf := make([]byte, 64)
	n, err := client.Recv(buf)
	if err != nil {
		return err
	}
	if string(buf[:n]) != "probe" {
		return fmt.Errorf("echoed %q", buf[:n])
	}

	res, err := echoer.Join()
	if err != nil {
		return err
	}
	return res
}

func probeUDPRoundTrip() error {
	if err := sockets.Init(); err != nil {
		return err
	}
	defer sockets.Cleanup()

	a, err := sockets.New(sockets.UDP)
	if err != nil {
		return err
	}
	defer a.Close()
	b, err := sockets.New(sockets.UDP)
	if err != nil {
		return err
	}
	defer b.Close()

	if err := a.Bind("127.0.0.1", 0); err != nil {
		return err
	}
	if err := b.Bind("127.0.0.1", 0); err != nil {
		return err
	}
	_, bPort, err := b.LocalAddr()
	if err != nil {
		return err
	}

	if _, err := a.SendTo([]byte("datagram"), "127.0.0.1", bPort); err != nil {
		return err
	}

	b.SetTimeout(0, 2000)
	buf := make([]byte, 64)
	n, host, fromPort, err := b.RecvFrom(buf)
	if err != nil {
		return err
	}
	if string(buf[:n]) != "datagram" {
		return fmt.Errorf("received %q", buf[:n])
	}

	if _, err := b.SendTo(buf[:n], host, fromPort); err != nil {
		return err
	}
	a.SetTimeout(0, 2000)
	if n, _, _, err = a.RecvFrom(buf); err != nil {
		return err
	}
	if string(buf[:n]) != "datagram" {
		return fmt.Errorf("reply was %q", buf[:n])
	}
	return nil
}

func probeDirCursor() error {
	dir, err := os.MkdirTemp("", "platprobe")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	want := map[string]bool{"a.txt": true, "b.txt": true}
	for name := range want {
		if err := filesystem.WriteFile(filepath.Join(dir, name), []byte(name)); err != nil {
			return err
		}
	}

	cursor, err := filesystem.OpenDir(dir)
	if err != nil {
		return err
	}
	defer cursor.Close()

	seen := 0
	for cursor.Next() {
		if !want[cursor.Entry().Name] {
			return fmt.Errorf("unexpected entry %q", cursor.Entry().Name)
		}
		seen++
	}
	if err := cursor.Err(); err != nil {
		return err
	}
	if seen != len(want) {
		return fmt.Errorf("cursor saw %d entries, want %d", seen, len(want))
	}
	return nil
}

func probeArena() error {
	arena, err := mem.New(1 << 16)
	if err != nil {
		return err
	}
	defer arena.Close()

	ptr, err := arena.DupString("platform probe")
	if err != nil {
		return err
	}
	s, err := arena.String(ptr)
	if err != nil {
		return err
	}
	if s != "platform probe" {
		return fmt.Errorf("read back %q", s)
	}

	if err := arena.Free(ptr); err != nil {
		return err
	}
	if err := arena.Free(ptr); errors.CodeOf(err) != errors.CodeInvalidArgument {
		return fmt.Errorf("double free slipped through: %v", err)
	}
	return nil
}

func probeClocks() error {
	sec := clocks.WallMillis() / 1000
	stamp := clocks.FormatTime(sec, true)
	back, err := clocks.ParseTime(stamp)
	if err != nil {
		return err
	}
	if back != sec {
		return fmt.Errorf("round trip drifted: %d became %d", sec, back)
	}

	before := clocks.Monotonic()
	clocks.Sleep(10 * time.Millisecond)
	if elapsed := clocks.Monotonic() - before; elapsed < int64(5*time.Millisecond) {
		return fmt.Errorf("monotonic advanced only %dns across a 10ms sleep", elapsed)
	}
	return nil
}

func probeThread() error {
	th, err := thread.Spawn(func() int { return 21 * 2 })
	if err != nil {
		return err
	}
	v, err := th.Join()
	if err != nil {
		return err
	}
	if v != 42 {
		return fmt.Errorf("joined %d, want 42", v)
	}
	return nil
}

func probeCond() error {
	m := thread.NewMutex()
	defer m.Destroy()
	c := thread.NewCond()
	defer c.Destroy()

	ready := false
	waiter, err := thread.Spawn(func() error {
		if err := m.Lock(); err != nil {
			return err
		}
		defer m.Unlock()
		for !ready {
			if err := c.Wait(m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	clocks.Sleep(10 * time.Millisecond)
	if err := m.Lock(); err != nil {
		return err
	}
	ready = true
	if err := c.Signal(); err != nil {
		m.Unlock()
		return err
	}
	if err := m.Unlock(); err != nil {
		return err
	}

	res, err := waiter.Join()
	if err != nil {
		return err
	}
	return res
}

func probeRandom() error {
	buf := make([]byte, 64)
	if err := random.Bytes(buf); err != nil {
		return err
	}
	for _, b := range buf {
		if b != 0 {
			return nil
		}
	}
	return fmt.Errorf("64 bytes of zeroes is not randomness")
}
