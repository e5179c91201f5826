// Package thread provides threads and synchronization primitives with
// explicit lifecycles and defined failure modes.
//
// # Threads
//
// Spawn starts the entry function immediately and returns a handle whose
// typed result crosses back through Join:
//
//	t, _ := thread.Spawn(func() int { return compute() })
//	n, err := t.Join() // blocks until terminated
//
// Exactly one of Join or Detach must be called; either reclaims the
// handle and any further call on it fails. A panic in the entry function
// does not take the process down; Join reports it as an error carrying
// the panic value.
//
// # Locks
//
// Mutex, Cond, and RWLock bracket their lives with New*/Destroy. Misuse
// that pthread leaves undefined (destroying a locked mutex, unlocking an
// unheld one, waiting on a destroyed condition variable) is a defined
// invalid_argument failure here. RWLock acquisitions return
// single-use guard tokens, so releasing a read acquisition as a write (or
// releasing twice) is impossible to express:
//
//	g, _ := l.RLock()
//	defer g.Unlock()
//
// Cond.Wait atomically releases the caller's held Mutex and reacquires it
// before returning; spurious wakeups are permitted, so wrap Wait in a
// predicate loop:
//
//	m.Lock()
//	for !ready {
//	    c.Wait(m)
//	}
//	m.Unlock()
//
// TimedWait bounds the wait and reports timeout; it is the only bounded
// blocking primitive besides socket deadlines, and a bounded Join can be
// composed from a Cond signaled at the end of the entry function.
//
// Mutual exclusion is the only ordering guarantee any primitive makes; no
// fairness or wakeup order is promised.
package thread
