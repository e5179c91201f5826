package thread

import (
	"sync"
	"time"

	"github.com/docketworks/platform/atomics"
	"github.com/docketworks/platform/errors"
	"github.com/docketworks/platform/resource"
)

// Cond is a wait/notify primitive. Waiters park in FIFO order on per-waiter
// channels; Signal hands the front waiter its wakeup, Broadcast wakes all.
// Built on channels rather than sync.Cond because the design requires a
// bounded TimedWait.
//
// Spurious wakeups are permitted by contract: callers must re-check their
// predicate in a loop around Wait.
type Cond struct {
	mu      sync.Mutex
	waiters []chan struct{}
	closed  atomics.Flag
	handle  resource.Handle
}

// NewCond creates a condition variable.
func NewCond() *Cond {
	return &Cond{
		handle: resource.Default().Register(resource.KindCond, ""),
	}
}

// Wait atomically releases m, blocks until signaled, and reacquires m
// before returning. The caller must hold m; waiting with an unheld mutex
// is a defined failure and releases nothing.
func (c *Cond) Wait(m *Mutex) error {
	w, err := c.park("cond.wait", m)
	if err != nil {
		return err
	}

	<-w
	return m.Lock()
}

// TimedWait is Wait with a deadline. When no signal arrives within d the
// wait ends with a timeout failure; the mutex is reacquired either way.
func (c *Cond) TimedWait(m *Mutex, d time.Duration) error {
	w, err := c.park("cond.timedwait", m)
	if err != nil {
		return err
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-w:
		return m.Lock()
	case <-timer.C:
		if !c.remove(w) {
			// A signal claimed this waiter as the timer fired; count it
			// as a normal wakeup.
			return m.Lock()
		}
		if err := m.Lock(); err != nil {
			return err
		}
		return errors.Timeout("cond.timedwait")
	}
}

// Signal wakes at most one waiter. With no waiters parked it is a no-op.
func (c *Cond) Signal() error {
	if c.closed.Get() {
		return errors.Closed("cond.signal", "condition variable")
	}

	c.mu.Lock()
	if len(c.waiters) > 0 {
		close(c.waiters[0])
		c.waiters = c.waiters[1:]
	}
	c.mu.Unlock()
	return nil
}

// Broadcast wakes every currently parked waiter.
func (c *Cond) Broadcast() error {
	if c.closed.Get() {
		return errors.Closed("cond.broadcast", "condition variable")
	}

	c.mu.Lock()
	for _, w := range c.waiters {
		close(w)
	}
	c.waiters = nil
	c.mu.Unlock()
	return nil
}

// Destroy releases the condition variable. Destroying while waiters are
// parked is a defined failure.
func (c *Cond) Destroy() error {
	c.mu.Lock()
	if c.closed.Get() {
		c.mu.Unlock()
		return errors.Closed("cond.destroy", "condition variable")
	}
	if len(c.waiters) > 0 {
		c.mu.Unlock()
		return errors.Invalid("cond.destroy", "waiters are blocked on this condition variable")
	}
	c.closed.Set()
	c.mu.Unlock()

	resource.Default().Release(c.handle)
	return nil
}

// park enrolls a new waiter and releases the caller's mutex. Enrollment
// happens before the release, so a notifier that acquires m afterward is
// guaranteed to see this waiter.
func (c *Cond) park(op string, m *Mutex) (chan struct{}, error) {
	if m == nil {
		return nil, errors.Invalid(op, "nil mutex")
	}

	w := make(chan struct{})

	c.mu.Lock()
	if c.closed.Get() {
		c.mu.Unlock()
		return nil, errors.Closed(op, "condition variable")
	}
	c.waiters = append(c.waiters, w)
	c.mu.Unlock()

	if err := m.Unlock(); err != nil {
		c.remove(w)
		return nil, err
	}
	return w, nil
}

// remove unlinks a parked waiter; false means a signal already claimed it.
func (c *Cond) remove(w chan struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.waiters {
		if c.waiters[i] == w {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return true
		}
	}
	return false
}
