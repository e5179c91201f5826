package mem

import (
	"bytes"
	"sync"
	"testing"

	"github.com/docketworks/platform/errors"
)

func TestArena_AllocFree(t *testing.T) {
	a, err := New(4096)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close()

	ptr, err := a.Alloc(100)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if ptr == 0 {
		t.Fatal("Alloc returned the null pointer")
	}

	p, err := a.Bytes(ptr)
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if len(p) != 100 {
		t.Errorf("expected 100-byte block, got %d", len(p))
	}

	if err := a.Free(ptr); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
	if _, err := a.Bytes(ptr); errors.CodeOf(err) != errors.CodeInvalidArgument {
		t.Errorf("Bytes after free: expected invalid_argument, got %v", err)
	}
}

func TestArena_FreeNull(t *testing.T) {
	a, _ := New(256)
	defer a.Close()

	if err := a.Free(0); err != nil {
		t.Errorf("Free(0) should be a no-op, got %v", err)
	}
}

func TestArena_DoubleFree(t *testing.T) {
	a, _ := New(256)
	defer a.Close()

	ptr, _ := a.Alloc(16)
	if err := a.Free(ptr); err != nil {
		t.Fatalf("first Free failed: %v", err)
	}
	err := a.Free(ptr)
	if errors.CodeOf(err) != errors.CodeInvalidArgument {
		t.Errorf("double free: expected invalid_argument, got %v", err)
	}

	// Foreign pointer.
	if err := a.Free(12345); errors.CodeOf(err) != errors.CodeInvalidArgument {
		t.Errorf("foreign free: expected invalid_argument, got %v", err)
	}
}

func TestArena_Exhaustion(t *testing.T) {
	a, _ := New(128)
	defer a.Close()

	_, err := a.Alloc(4096)
	if errors.CodeOf(err) != errors.CodeOutOfMemory {
		t.Fatalf("expected out_of_memory, got %v", err)
	}

	// The arena stays usable after a failed allocation.
	ptr, err := a.Alloc(32)
	if err != nil {
		t.Fatalf("Alloc after exhaustion failed: %v", err)
	}
	if err := a.Free(ptr); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
}

func TestArena_AllocZeroed(t *testing.T) {
	a, _ := New(4096)
	defer a.Close()

	// Dirty a block, free it, then calloc over the same region.
	ptr, _ := a.Alloc(64)
	p, _ := a.Bytes(ptr)
	for i := range p {
		p[i] = 0xAA
	}
	a.Free(ptr)

	zp, err := a.AllocZeroed(8, 8)
	if err != nil {
		t.Fatalf("AllocZeroed failed: %v", err)
	}
	zb, _ := a.Bytes(zp)
	for i, b := range zb {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: %#x", i, b)
		}
	}
}

func TestArena_AllocZeroedOverflow(t *testing.T) {
	a, _ := New(256)
	defer a.Close()

	_, err := a.AllocZeroed(1<<20, 1<<20)
	if errors.CodeOf(err) != errors.CodeOutOfMemory {
		t.Errorf("overflowing calloc: expected out_of_memory, got %v", err)
	}
}

func TestArena_Realloc(t *testing.T) {
	a, _ := New(4096)
	defer a.Close()

	ptr, _ := a.DupString("docket-2024-001")
	grown, err := a.Realloc(ptr, 64)
	if err != nil {
		t.Fatalf("Realloc grow failed: %v", err)
	}
	p, _ := a.Bytes(grown)
	if !bytes.HasPrefix(p, []byte("docket-2024-001")) {
		t.Errorf("grow did not preserve contents: %q", p[:15])
	}
	if len(p) != 64 {
		t.Errorf("expected 64-byte block, got %d", len(p))
	}

	shrunk, err := a.Realloc(grown, 6)
	if err != nil {
		t.Fatalf("Realloc shrink failed: %v", err)
	}
	if shrunk != grown {
		t.Errorf("shrink should stay in place: %d != %d", shrunk, grown)
	}
	p, _ = a.Bytes(shrunk)
	if string(p) != "docket" {
		t.Errorf("shrink did not preserve prefix: %q", p)
	}

	// Realloc(0, n) allocates, Realloc(p, 0) frees.
	fresh, err := a.Realloc(0, 32)
	if err != nil || fresh == 0 {
		t.Fatalf("Realloc(0, n) failed: %v", err)
	}
	if end, err := a.Realloc(fresh, 0); err != nil || end != 0 {
		t.Fatalf("Realloc(p, 0) failed: ptr=%d err=%v", end, err)
	}

	a.Free(shrunk)
}

func TestArena_ReuseAfterFree(t *testing.T) {
	a, _ := New(1024)
	defer a.Close()

	first, _ := a.Alloc(512)
	if _, err := a.Alloc(512); errors.CodeOf(err) != errors.CodeOutOfMemory {
		t.Fatal("second large alloc should exhaust the slab")
	}

	a.Free(first)
	again, err := a.Alloc(512)
	if err != nil {
		t.Fatalf("Alloc after Free failed: %v", err)
	}
	if again != first {
		t.Errorf("expected freed space to be reused at %d, got %d", first, again)
	}
}

func TestArena_Coalescing(t *testing.T) {
	a, _ := New(1024)
	defer a.Close()

	p1, _ := a.Alloc(128)
	p2, _ := a.Alloc(128)
	p3, _ := a.Alloc(128)

	// Free in an order that only coalescing can survive.
	a.Free(p1)
	a.Free(p3)
	a.Free(p2)

	big, err := a.Alloc(384)
	if err != nil {
		t.Fatalf("Alloc spanning coalesced spans failed: %v", err)
	}
	a.Free(big)
}

func TestArena_DupRoundTrip(t *testing.T) {
	a, _ := New(1024)
	defer a.Close()

	in := []byte{0x01, 0x02, 0x03, 0xFF}
	ptr, err := a.Dup(in)
	if err != nil {
		t.Fatalf("Dup failed: %v", err)
	}
	out, _ := a.Bytes(ptr)
	if !bytes.Equal(in, out) {
		t.Errorf("Dup mismatch: %x != %x", in, out)
	}

	sp, err := a.DupString("filing deadline")
	if err != nil {
		t.Fatalf("DupString failed: %v", err)
	}
	s, err := a.String(sp)
	if err != nil || s != "filing deadline" {
		t.Errorf("String round trip failed: %q %v", s, err)
	}
}

func TestArena_InvalidArguments(t *testing.T) {
	if _, err := New(0); errors.CodeOf(err) != errors.CodeInvalidArgument {
		t.Errorf("New(0): expected invalid_argument, got %v", err)
	}

	a, _ := New(256)
	defer a.Close()

	if _, err := a.Alloc(0); errors.CodeOf(err) != errors.CodeInvalidArgument {
		t.Errorf("Alloc(0): expected invalid_argument, got %v", err)
	}
	if _, err := a.Dup(nil); errors.CodeOf(err) != errors.CodeInvalidArgument {
		t.Errorf("Dup(nil): expected invalid_argument, got %v", err)
	}
}

func TestArena_Stats(t *testing.T) {
	a, _ := New(1024)
	defer a.Close()

	s := a.Stats()
	if s.Capacity != 1024 || s.Blocks != 0 {
		t.Fatalf("fresh arena stats off: %+v", s)
	}
	total := s.Used + s.Free

	a.Alloc(100)
	s = a.Stats()
	if s.Blocks != 1 || s.Used < 100 {
		t.Errorf("stats after alloc off: %+v", s)
	}
	if s.Used+s.Free != total {
		t.Errorf("accounting drift: used %d + free %d != %d", s.Used, s.Free, total)
	}
}

func TestArena_UseAfterClose(t *testing.T) {
	a, _ := New(256)
	ptr, _ := a.Alloc(16)

	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := a.Alloc(16); errors.CodeOf(err) != errors.CodeInvalidArgument {
		t.Errorf("Alloc after close: expected invalid_argument, got %v", err)
	}
	if err := a.Free(ptr); errors.CodeOf(err) != errors.CodeInvalidArgument {
		t.Errorf("Free after close: expected invalid_argument, got %v", err)
	}
	if err := a.Close(); errors.CodeOf(err) != errors.CodeInvalidArgument {
		t.Errorf("second Close: expected invalid_argument, got %v", err)
	}
}

func TestArena_Concurrent(t *testing.T) {
	a, _ := New(1 << 16)
	defer a.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				ptr, err := a.Alloc(32)
				if err != nil {
					continue // transient exhaustion under contention is fine
				}
				if err := a.Free(ptr); err != nil {
					t.Errorf("Free failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if s := a.Stats(); s.Blocks != 0 {
		t.Errorf("expected no live blocks after churn, got %d", s.Blocks)
	}
}
