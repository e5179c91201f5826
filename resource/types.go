package resource

// Handle is an opaque identifier for a live platform resource.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Kind names the resource type a handle refers to.
type Kind string

const (
	KindSocket  Kind = "socket"
	KindMutex   Kind = "mutex"
	KindCond    Kind = "cond"
	KindRWLock  Kind = "rwlock"
	KindThread  Kind = "thread"
	KindDir     Kind = "dir"
	KindLibrary Kind = "library"
	KindArena   Kind = "arena"
)

// Event types for resource lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

// Event represents a resource lifecycle event.
type Event struct {
	Label  string
	Kind   Kind
	Handle Handle
	Type   EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}
