package platform

// Version is the platform layer's release version.
const Version = "0.1.0"

// Resource is any platform object that holds an OS or engine facility
// until released. Sockets, directory cursors, loaded libraries, arenas
// and the resource tracker itself all implement it.
type Resource interface {
	Close() error
}

// Allocator hands out offsets within a fixed region of memory.
type Allocator interface {
	Alloc(size uint32) (uint32, error)
	Free(ptr uint32) error
}
