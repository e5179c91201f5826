package thread

import (
	"sync"

	"github.com/docketworks/platform/atomics"
	"github.com/docketworks/platform/errors"
	"github.com/docketworks/platform/resource"
)

// RWLock is a shared/exclusive lock. Acquisitions return single-use guard
// tokens; the guard's Unlock is the only release path, so a read
// acquisition can never be released as a write or vice versa.
type RWLock struct {
	rw     sync.RWMutex
	closed atomics.Flag
	handle resource.Handle
}

// NewRWLock creates a read-write lock.
func NewRWLock() *RWLock {
	return &RWLock{
		handle: resource.Default().Register(resource.KindRWLock, ""),
	}
}

// RLock acquires shared access. Multiple readers may hold the lock at
// once; the returned guard releases this acquisition.
func (l *RWLock) RLock() (*ReadGuard, error) {
	if l.closed.Get() {
		return nil, errors.Closed("rwlock.rlock", "rwlock")
	}

	l.rw.RLock()
	if l.closed.Get() {
		l.rw.RUnlock()
		return nil, errors.Closed("rwlock.rlock", "rwlock")
	}
	return &ReadGuard{l: l}, nil
}

// WLock acquires exclusive access against readers and other writers.
func (l *RWLock) WLock() (*WriteGuard, error) {
	if l.closed.Get() {
		return nil, errors.Closed("rwlock.wlock", "rwlock")
	}

	l.rw.Lock()
	if l.closed.Get() {
		l.rw.Unlock()
		return nil, errors.Closed("rwlock.wlock", "rwlock")
	}
	return &WriteGuard{l: l}, nil
}

// Destroy releases the lock's bookkeeping. Destroying a held lock is a
// defined failure.
func (l *RWLock) Destroy() error {
	if l.closed.Get() {
		return errors.Closed("rwlock.destroy", "rwlock")
	}

	if !l.rw.TryLock() {
		return errors.Invalid("rwlock.destroy", "lock is held")
	}
	if !l.closed.TrySet() {
		l.rw.Unlock()
		return errors.Closed("rwlock.destroy", "rwlock")
	}
	l.rw.Unlock()
	resource.Default().Release(l.handle)
	return nil
}

// ReadGuard is a single-use token for one shared acquisition.
type ReadGuard struct {
	l        *RWLock
	released atomics.Flag
}

// Unlock releases the shared acquisition. A guard releases exactly once.
func (g *ReadGuard) Unlock() error {
	if !g.released.TrySet() {
		return errors.Invalid("rwlock.unlock", "read guard already released")
	}
	g.l.rw.RUnlock()
	return nil
}

// WriteGuard is a single-use token for one exclusive acquisition.
type WriteGuard struct {
	l        *RWLock
	released atomics.Flag
}

// Unlock releases the exclusive acquisition. A guard releases exactly once.
func (g *WriteGuard) Unlock() error {
	if !g.released.TrySet() {
		return errors.Invalid("rwlock.unlock", "write guard already released")
	}
	g.l.rw.Unlock()
	return nil
}
