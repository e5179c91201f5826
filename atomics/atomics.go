// Package atomics provides the lock-free cells the platform layer and its
// callers use for flags and counters. All operations are sequentially
// consistent. The zero value of every cell is ready to use; cells are value
// types with no destroy.
package atomics

import "sync/atomic"

// Int32 is a lock-free 32-bit integer cell.
type Int32 struct {
	v atomic.Int32
}

// Load returns the current value.
func (x *Int32) Load() int32 { return x.v.Load() }

// Store sets the value.
func (x *Int32) Store(v int32) { x.v.Store(v) }

// Add adds delta and returns the new value.
func (x *Int32) Add(delta int32) int32 { return x.v.Add(delta) }

// Sub subtracts delta and returns the new value.
func (x *Int32) Sub(delta int32) int32 { return x.v.Add(-delta) }

// CompareAndSwap sets the value to new if it equals old and reports
// whether the swap ran.
func (x *Int32) CompareAndSwap(old, new int32) bool { return x.v.CompareAndSwap(old, new) }

// Int64 is a lock-free 64-bit integer cell.
type Int64 struct {
	v atomic.Int64
}

// Load returns the current value.
func (x *Int64) Load() int64 { return x.v.Load() }

// Store sets the value.
func (x *Int64) Store(v int64) { x.v.Store(v) }

// Add adds delta and returns the new value.
func (x *Int64) Add(delta int64) int64 { return x.v.Add(delta) }

// Sub subtracts delta and returns the new value.
func (x *Int64) Sub(delta int64) int64 { return x.v.Add(-delta) }

// CompareAndSwap sets the value to new if it equals old and reports
// whether the swap ran.
func (x *Int64) CompareAndSwap(old, new int64) bool { return x.v.CompareAndSwap(old, new) }

// Pointer is a lock-free pointer-sized cell. The zero value holds nil.
type Pointer[T any] struct {
	p atomic.Pointer[T]
}

// Load returns the current pointer.
func (x *Pointer[T]) Load() *T { return x.p.Load() }

// Store sets the pointer.
func (x *Pointer[T]) Store(v *T) { x.p.Store(v) }

// CompareAndSwap sets the pointer to new if it equals old and reports
// whether the swap ran.
func (x *Pointer[T]) CompareAndSwap(old, new *T) bool { return x.p.CompareAndSwap(old, new) }

// Flag is a lock-free boolean cell for one-shot and on/off state.
type Flag struct {
	b atomic.Bool
}

// Get returns the current state.
func (f *Flag) Get() bool { return f.b.Load() }

// Set raises the flag.
func (f *Flag) Set() { f.b.Store(true) }

// Clear lowers the flag.
func (f *Flag) Clear() { f.b.Store(false) }

// TrySet raises the flag and reports whether this call was the one that
// raised it. At most one concurrent caller wins.
func (f *Flag) TrySet() bool { return f.b.CompareAndSwap(false, true) }
