package mem

import (
	"fmt"
	"sync"

	"github.com/docketworks/platform/errors"
	"github.com/docketworks/platform/resource"
)

// blockAlign is the platform default alignment. Every block offset and
// size is rounded to it; nothing stronger is promised.
const blockAlign = 8

// Arena is an explicit allocator over a fixed byte slab. Pointers are
// uint32 offsets into the slab; 0 is the null pointer and is never handed
// out. All methods are safe for concurrent use.
type Arena struct {
	buf    []byte
	blocks map[uint32]block
	free   []span
	handle resource.Handle
	mu     sync.Mutex
	closed bool
}

type block struct {
	size  uint32 // requested
	rsize uint32 // rounded, as carved from the free list
}

type span struct {
	off  uint32
	size uint32
}

// New creates an arena with the given slab capacity in bytes.
func New(capacity uint32) (*Arena, error) {
	if capacity == 0 {
		return nil, errors.Invalid("mem.new", "zero capacity")
	}

	a := &Arena{
		buf:    make([]byte, capacity),
		blocks: make(map[uint32]block),
	}
	// Offset 0 is reserved so that no valid block is the null pointer.
	if capacity > blockAlign {
		a.free = []span{{off: blockAlign, size: capacity - blockAlign}}
	}
	a.handle = resource.Default().Register(resource.KindArena, fmt.Sprintf("%d bytes", capacity))
	return a, nil
}

// Alloc carves size bytes out of the slab and returns the block pointer.
// The memory is not zeroed. Exhaustion is reported, never fatal.
func (a *Arena) Alloc(size uint32) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocLocked("mem.alloc", size)
}

// AllocZeroed allocates count*size bytes, overflow-checked, and zeroes them.
func (a *Arena) AllocZeroed(count, size uint32) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return 0, errors.Closed("mem.alloc_zeroed", "arena")
	}
	if count == 0 || size == 0 {
		return 0, errors.Invalid("mem.alloc_zeroed", "zero size")
	}

	total := uint64(count) * uint64(size)
	if total > uint64(^uint32(0)) {
		return 0, errors.AllocationFailed("mem.alloc_zeroed", total)
	}

	ptr, err := a.allocLocked("mem.alloc_zeroed", uint32(total))
	if err != nil {
		return 0, err
	}

	b := a.blocks[ptr]
	clear(a.buf[ptr : ptr+b.rsize])
	return ptr, nil
}

// Realloc resizes a block, preserving min(old, new) bytes. Realloc(0, n)
// allocates; Realloc(p, 0) frees and returns the null pointer.
func (a *Arena) Realloc(ptr, size uint32) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return 0, errors.Closed("mem.realloc", "arena")
	}
	if ptr == 0 {
		return a.allocLocked("mem.realloc", size)
	}
	if size == 0 {
		return 0, a.freeLocked("mem.realloc", ptr)
	}

	old, ok := a.blocks[ptr]
	if !ok {
		return 0, errors.Invalid("mem.realloc", "unknown pointer")
	}

	rsize := roundUp(size)
	if rsize <= old.rsize {
		// Shrink in place; give the tail back when it spans a full unit.
		if tail := old.rsize - rsize; tail >= blockAlign {
			a.insertFree(span{off: ptr + rsize, size: tail})
			old.rsize = rsize
		}
		old.size = size
		a.blocks[ptr] = old
		return ptr, nil
	}

	next, err := a.allocLocked("mem.realloc", size)
	if err != nil {
		return 0, err
	}
	copy(a.buf[next:next+old.size], a.buf[ptr:ptr+old.size])
	if err := a.freeLocked("mem.realloc", ptr); err != nil {
		return 0, err
	}
	return next, nil
}

// Free releases a block. Freeing the null pointer is a no-op; freeing an
// unknown or already-freed pointer is a defined failure, not corruption.
func (a *Arena) Free(ptr uint32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return errors.Closed("mem.free", "arena")
	}
	if ptr == 0 {
		return nil
	}
	return a.freeLocked("mem.free", ptr)
}

// Dup copies p into a fresh block.
func (a *Arena) Dup(p []byte) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return 0, errors.Closed("mem.dup", "arena")
	}
	if len(p) == 0 {
		return 0, errors.Invalid("mem.dup", "empty input")
	}
	if uint64(len(p)) > uint64(^uint32(0)) {
		return 0, errors.AllocationFailed("mem.dup", uint64(len(p)))
	}

	ptr, err := a.allocLocked("mem.dup", uint32(len(p)))
	if err != nil {
		return 0, err
	}
	copy(a.buf[ptr:], p)
	return ptr, nil
}

// DupString copies s into a fresh block.
func (a *Arena) DupString(s string) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return 0, errors.Closed("mem.dup", "arena")
	}
	if len(s) == 0 {
		return 0, errors.Invalid("mem.dup", "empty input")
	}

	ptr, err := a.allocLocked("mem.dup", uint32(len(s)))
	if err != nil {
		return 0, err
	}
	copy(a.buf[ptr:], s)
	return ptr, nil
}

// Bytes returns the live block's contents at its requested length. The
// slice aliases the slab and is capped, so appends cannot cross into a
// neighboring block.
func (a *Arena) Bytes(ptr uint32) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, errors.Closed("mem.bytes", "arena")
	}
	b, ok := a.blocks[ptr]
	if !ok {
		return nil, errors.Invalid("mem.bytes", "unknown pointer")
	}
	return a.buf[ptr : ptr+b.size : ptr+b.size], nil
}

// String returns the live block's contents as a string copy.
func (a *Arena) String(ptr uint32) (string, error) {
	p, err := a.Bytes(ptr)
	if err != nil {
		return "", err
	}
	return string(p), nil
}

// Stats describes arena occupancy.
type Stats struct {
	Capacity uint32
	Used     uint32
	Free     uint32
	Blocks   int
}

// Stats returns a snapshot of arena occupancy.
func (a *Arena) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Stats{Capacity: uint32(len(a.buf)), Blocks: len(a.blocks)}
	for _, b := range a.blocks {
		s.Used += b.rsize
	}
	for _, f := range a.free {
		s.Free += f.size
	}
	return s
}

// Close releases the slab. Any later call on the arena fails.
func (a *Arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return errors.Closed("mem.close", "arena")
	}
	a.closed = true
	a.buf = nil
	a.blocks = nil
	a.free = nil
	resource.Default().Release(a.handle)
	return nil
}

func (a *Arena) allocLocked(op string, size uint32) (uint32, error) {
	if a.closed {
		return 0, errors.Closed(op, "arena")
	}
	if size == 0 {
		return 0, errors.Invalid(op, "zero size")
	}
	if size > ^uint32(0)-blockAlign {
		return 0, errors.AllocationFailed(op, uint64(size))
	}

	rsize := roundUp(size)
	for i := range a.free {
		if a.free[i].size < rsize {
			continue
		}
		ptr := a.free[i].off
		if a.free[i].size == rsize {
			a.free = append(a.free[:i], a.free[i+1:]...)
		} else {
			a.free[i].off += rsize
			a.free[i].size -= rsize
		}
		a.blocks[ptr] = block{size: size, rsize: rsize}
		return ptr, nil
	}
	return 0, errors.AllocationFailed(op, uint64(size))
}

func (a *Arena) freeLocked(op string, ptr uint32) error {
	b, ok := a.blocks[ptr]
	if !ok {
		return errors.Invalid(op, "unknown or already freed pointer")
	}
	delete(a.blocks, ptr)
	a.insertFree(span{off: ptr, size: b.rsize})
	return nil
}

// insertFree keeps the free list sorted by offset and coalesces the new
// span with adjacent neighbors.
func (a *Arena) insertFree(s span) {
	i := 0
	for i < len(a.free) && a.free[i].off < s.off {
		i++
	}

	a.free = append(a.free, span{})
	copy(a.free[i+1:], a.free[i:])
	a.free[i] = s

	// Merge with the right neighbor, then the left.
	if i+1 < len(a.free) && a.free[i].off+a.free[i].size == a.free[i+1].off {
		a.free[i].size += a.free[i+1].size
		a.free = append(a.free[:i+1], a.free[i+2:]...)
	}
	if i > 0 && a.free[i-1].off+a.free[i-1].size == a.free[i].off {
		a.free[i-1].size += a.free[i].size
		a.free = append(a.free[:i], a.free[i+1:]...)
	}
}

func roundUp(n uint32) uint32 {
	return (n + blockAlign - 1) &^ uint32(blockAlign-1)
}
