package telemetry

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrorOutOfBounds is returned when accessing an index beyond the slice
var ErrorOutOfBounds = errors.New("out of bounds")

// AtomicInt64Slice is a fixed size slice of counters updated atomically
type AtomicInt64Slice []int64

// NewAtomicInt64Slice builds a slice of size counters set to zero
func NewAtomicInt64Slice(size int64) (AtomicInt64Slice, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid array size: %d", size)
	}
	return make([]int64, size), nil
}

// Incr increments the counter at index. Out of range indexes are ignored
func (a AtomicInt64Slice) Incr(index int) {
	if index < 0 || index >= len(a) {
		return
	}
	atomic.AddInt64(&a[index], 1)
}

// FetchAndClearOne returns the counter at index and resets it
func (a AtomicInt64Slice) FetchAndClearOne(index int) (int64, error) {
	if index >= len(a) || index < 0 {
		return 0, ErrorOutOfBounds
	}

	return atomic.SwapInt64(&a[index], 0), nil
}

// FetchAndClearAll returns every counter and resets them
func (a AtomicInt64Slice) FetchAndClearAll() []int64 {
	toRet := make([]int64, len(a))
	for index := 0; index < len(a); index++ {
		toRet[index] = atomic.SwapInt64(&a[index], 0)
	}
	return toRet
}

// Snapshot returns a copy of every counter without resetting them
func (a AtomicInt64Slice) Snapshot() []int64 {
	toRet := make([]int64, len(a))
	for index := 0; index < len(a); index++ {
		toRet[index] = atomic.LoadInt64(&a[index])
	}
	return toRet
}
