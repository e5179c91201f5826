package resource

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrTrackerClosed = errors.New("resource tracker closed")

// Tracker is the registry of live platform resources. Handle types register
// on creation and release on close; the tracker never owns the underlying OS
// object and never frees anything itself. It exists for diagnostics: live
// counts, leak checks in tests, and lifecycle observation.
type Tracker struct {
	entries   []entry
	freeList  []Handle
	observers []Observer
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

type entry struct {
	label string
	kind  Kind
	valid bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

var defaultTracker = NewTracker()

// Default returns the process-wide tracker shared by all platform handle
// types. Tests that need isolation construct their own Tracker instead.
func Default() *Tracker {
	return defaultTracker
}

// Register records a live resource and returns its handle.
// Returns 0 if the tracker has been closed.
func (t *Tracker) Register(kind Kind, label string) Handle {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0
	}

	e := entry{kind: kind, label: label, valid: true}

	var handle Handle
	if n := len(t.freeList); n > 0 {
		handle = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[handle-1] = e
	} else {
		t.entries = append(t.entries, e)
		handle = Handle(len(t.entries))
	}
	t.mu.Unlock()

	Logger().Debug("resource created",
		zap.Uint32("handle", uint32(handle)),
		zap.String("kind", string(kind)),
		zap.String("label", label))
	t.notify(Event{Type: EventCreated, Handle: handle, Kind: kind, Label: label})

	return handle
}

// Release removes a resource from the registry. Releasing handle 0 or an
// already-released handle is a no-op returning false, so handle types can
// call it unconditionally from their close paths.
func (t *Tracker) Release(handle Handle) bool {
	if handle == 0 {
		return false
	}

	t.mu.Lock()
	idx := int(handle) - 1
	if idx >= len(t.entries) || !t.entries[idx].valid {
		t.mu.Unlock()
		return false
	}
	e := t.entries[idx]
	t.entries[idx] = entry{}
	t.freeList = append(t.freeList, handle)
	t.mu.Unlock()

	Logger().Debug("resource dropped",
		zap.Uint32("handle", uint32(handle)),
		zap.String("kind", string(e.kind)),
		zap.String("label", e.label))
	t.notify(Event{Type: EventDropped, Handle: handle, Kind: e.kind, Label: e.label})

	return true
}

// Lookup returns the kind and label recorded for a handle.
func (t *Tracker) Lookup(handle Handle) (Kind, string, bool) {
	if handle == 0 {
		return "", "", false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := int(handle) - 1
	if idx >= len(t.entries) || !t.entries[idx].valid {
		return "", "", false
	}
	return t.entries[idx].kind, t.entries[idx].label, true
}

// Len returns the number of live resources.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for i := range t.entries {
		if t.entries[i].valid {
			n++
		}
	}
	return n
}

// LiveByKind returns the live-resource count per kind.
func (t *Tracker) LiveByKind() map[Kind]int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	counts := make(map[Kind]int)
	for i := range t.entries {
		if t.entries[i].valid {
			counts[t.entries[i].kind]++
		}
	}
	return counts
}

// Each iterates over live resources. Return false to stop early.
// The snapshot is taken under the lock; fn runs outside it.
func (t *Tracker) Each(fn func(Handle, Kind, string) bool) {
	t.mu.RLock()
	type live struct {
		handle Handle
		kind   Kind
		label  string
	}
	snapshot := make([]live, 0, len(t.entries))
	for i := range t.entries {
		if t.entries[i].valid {
			snapshot = append(snapshot, live{Handle(i + 1), t.entries[i].kind, t.entries[i].label})
		}
	}
	t.mu.RUnlock()

	for _, l := range snapshot {
		if !fn(l.handle, l.kind, l.label) {
			return
		}
	}
}

// Subscribe adds an observer for lifecycle events.
func (t *Tracker) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Tracker) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Close empties the registry and stops accepting registrations.
func (t *Tracker) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrTrackerClosed
	}
	t.closed = true
	t.entries = nil
	t.freeList = nil
	t.mu.Unlock()
	return nil
}

func (t *Tracker) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
