// Package mem provides an explicit allocator over a fixed byte slab.
//
// Callers that stage documents, wire buffers, or scratch space through one
// bounded region allocate from an Arena instead of the Go heap, with the
// standard allocation vocabulary:
//
//	a, _ := mem.New(1 << 20)
//	defer a.Close()
//
//	ptr, err := a.Alloc(256)          // malloc
//	ptr, err = a.Realloc(ptr, 512)    // grow, prefix preserved
//	zp, err := a.AllocZeroed(16, 32)  // calloc, overflow-checked
//	sp, err := a.DupString("token")   // strdup
//	_ = a.Free(ptr)                   // free; Free(0) is a no-op
//
// Exhaustion returns an out_of_memory failure and leaves the arena usable;
// nothing aborts. Freeing an unknown or already-freed pointer is a defined
// invalid_argument failure. Pointers are uint32 offsets into the slab and
// 0 is the null pointer.
//
// The allocator is first-fit over a coalescing free list; offsets and
// block sizes are rounded to 8 bytes, the platform default alignment.
package mem
