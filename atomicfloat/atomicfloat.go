// Package atomicfloat provides a lock-free float64 for the handful of
// cross-thread gauges the server exposes outside the engine's tick mutex
// (see §5 of SPEC_FULL.md): values where a torn-free read is harmless
// because the gauge is a best-effort instantaneous metric, not part of the
// snapshot-consistency contract.
package atomicfloat

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// Float64 encapsulates a float64 for non-locking atomic operations.
type Float64 struct {
	val float64
}

// New returns a Float64 initialized to val.
func New(val float64) *Float64 {
	return &Float64{val: val}
}

// Load atomically reads the value.
func (f *Float64) Load() float64 {
	bits := atomic.LoadUint64((*uint64)(unsafe.Pointer(&f.val)))
	return math.Float64frombits(bits)
}

// Add atomically adds addend and returns the new value. Unlike a naive
// read-add-CAS loop that silently retries against whatever the pointee has
// become, this performs a single attempt and reports whether it raced; a
// caller updating from a single writer goroutine (the only use in this
// codebase) can treat a false return as "someone else updated it first,
// recompute from the new baseline" rather than pretending the add happened.
func (f *Float64) Add(addend float64) (newVal float64, succeeded bool) {
	old := f.Load()
	newVal = old + addend
	succeeded = atomic.CompareAndSwapUint64(
		(*uint64)(unsafe.Pointer(&f.val)),
		math.Float64bits(old),
		math.Float64bits(newVal))
	return
}

// Store atomically sets the value, returning whether it raced against a
// concurrent writer.
func (f *Float64) Store(newVal float64) (succeeded bool) {
	old := f.Load()
	succeeded = atomic.CompareAndSwapUint64(
		(*uint64)(unsafe.Pointer(&f.val)),
		math.Float64bits(old),
		math.Float64bits(newVal))
	return
}
