package thread

import (
	"sync"

	"github.com/docketworks/platform/atomics"
	"github.com/docketworks/platform/errors"
	"github.com/docketworks/platform/resource"
)

// Mutex is a mutual-exclusion lock. Not reentrant; Unlock must be called
// by whichever execution context holds the lock. Mutual exclusion is the
// only guarantee; there is no fairness or FIFO wakeup order.
type Mutex struct {
	mu     sync.Mutex
	locked atomics.Int32
	closed atomics.Flag
	handle resource.Handle
}

// NewMutex creates a mutex.
func NewMutex() *Mutex {
	return &Mutex{
		handle: resource.Default().Register(resource.KindMutex, ""),
	}
}

// Lock blocks until the mutex is acquired.
func (m *Mutex) Lock() error {
	if m.closed.Get() {
		return errors.Closed("mutex.lock", "mutex")
	}

	m.mu.Lock()
	if m.closed.Get() {
		// Destroyed while we waited.
		m.mu.Unlock()
		return errors.Closed("mutex.lock", "mutex")
	}
	m.locked.Store(1)
	return nil
}

// TryLock acquires the mutex or reports would_block when it is already
// held, without blocking.
func (m *Mutex) TryLock() error {
	if m.closed.Get() {
		return errors.Closed("mutex.trylock", "mutex")
	}

	if !m.mu.TryLock() {
		return errors.WouldBlock("mutex.trylock")
	}
	if m.closed.Get() {
		m.mu.Unlock()
		return errors.Closed("mutex.trylock", "mutex")
	}
	m.locked.Store(1)
	return nil
}

// Unlock releases the mutex. Unlocking a mutex that is not held is a
// defined failure.
func (m *Mutex) Unlock() error {
	if m.closed.Get() {
		return errors.Closed("mutex.unlock", "mutex")
	}

	if !m.locked.CompareAndSwap(1, 0) {
		return errors.Invalid("mutex.unlock", "mutex is not locked")
	}
	m.mu.Unlock()
	return nil
}

// Destroy releases the mutex's bookkeeping. Destroying a locked mutex is
// a defined failure rather than undefined behavior; every later call on a
// destroyed mutex fails.
func (m *Mutex) Destroy() error {
	if m.closed.Get() {
		return errors.Closed("mutex.destroy", "mutex")
	}

	if !m.mu.TryLock() {
		return errors.Invalid("mutex.destroy", "mutex is locked")
	}
	if !m.closed.TrySet() {
		m.mu.Unlock()
		return errors.Closed("mutex.destroy", "mutex")
	}
	m.mu.Unlock()
	resource.Default().Release(m.handle)
	return nil
}
