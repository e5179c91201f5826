package thread

import (
	"github.com/docketworks/platform/atomics"
	"github.com/docketworks/platform/errors"
	"github.com/docketworks/platform/resource"
)

// Thread is a unit of concurrent execution. Spawn starts it immediately;
// exactly one of Join or Detach must be called, after which the handle is
// invalid.
type Thread[T any] struct {
	done     chan struct{}
	result   T
	panicVal any
	handle   resource.Handle
	claimed  atomics.Flag
	panicked bool
}

// Spawn runs fn concurrently and returns its handle. The entry function
// owns its captured inputs; its typed result crosses back through Join.
func Spawn[T any](fn func() T) (*Thread[T], error) {
	if fn == nil {
		return nil, errors.Invalid("thread.spawn", "nil entry function")
	}

	t := &Thread[T]{
		done:   make(chan struct{}),
		handle: resource.Default().Register(resource.KindThread, ""),
	}

	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.panicVal = r
				t.panicked = true
			}
		}()
		t.result = fn()
	}()

	return t, nil
}

// Join blocks until the thread terminates, reclaims the handle, and yields
// the entry function's result. A panic in the entry function surfaces here
// as a generic failure carrying the panic value. Join after Join or Detach
// fails: the handle has already been reclaimed.
func (t *Thread[T]) Join() (T, error) {
	var zero T
	if !t.claimed.TrySet() {
		return zero, errors.Closed("thread.join", "thread handle")
	}

	<-t.done
	resource.Default().Release(t.handle)

	if t.panicked {
		return zero, errors.New(errors.CodeError, "thread.join").
			Value(t.panicVal).
			Detail("entry function panicked: %v", t.panicVal).
			Build()
	}
	return t.result, nil
}

// Detach marks the thread non-joinable. The result is discarded and the
// handle bookkeeping is reclaimed once the thread naturally terminates.
func (t *Thread[T]) Detach() error {
	if !t.claimed.TrySet() {
		return errors.Closed("thread.detach", "thread handle")
	}

	go func() {
		<-t.done
		resource.Default().Release(t.handle)
	}()
	return nil
}

// Running reports whether the entry function is still executing.
func (t *Thread[T]) Running() bool {
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}
