// Package resource tracks the identity and lifecycle of platform handles.
//
// Every stateful platform object (sockets, locks, threads, directory
// cursors, loaded libraries, arenas) registers here on creation and
// releases its handle on close. The tracker is bookkeeping only: it never
// owns the underlying OS object, never frees anything, and adds no
// reference counting. It exists so diagnostics and tests can see what is
// alive.
//
// # Handles
//
// A Handle is an opaque uint32 naming one live resource; 0 is never valid.
// Slots are recycled through a free list, so handle values may be reused
// after release: they identify live resources, not historical ones.
//
//	h := resource.Default().Register(resource.KindSocket, "tcp")
//	defer resource.Default().Release(h)
//
// # Observers
//
// Subscribe to see lifecycle events as they happen:
//
//	tracker.Subscribe(obs) // obs.OnResourceEvent(Event) on create/drop
//
// Observers run outside the registry lock; an observer may inspect the
// tracker but must tolerate events arriving concurrently.
//
// # Leak checks
//
// Tests compare Len or LiveByKind before and after a scenario:
//
//	before := tracker.Len()
//	// ... exercise ...
//	if tracker.Len() != before {
//	    t.Fatalf("leaked %d resources", tracker.Len()-before)
//	}
//
// Events are also logged at Debug level through the injectable zap logger
// (no-op unless SetLogger is called).
package resource
