package counters

import "sync/atomic"

// StrictMonotonicCounter is a helper struct which implements a strict monotonic
// counter. It is implemented using atomic operations and doesn't allow to set a
// value which is lower or equal to the already stored one.
type StrictMonotonicCounter struct {
	atomicCounter uint64
}

// NewMonotonicCounter creates a new counter with the given initial value.
func NewMonotonicCounter(initialValue uint64) StrictMonotonicCounter {
	return StrictMonotonicCounter{
		atomicCounter: initialValue,
	}
}

// Set updates the value of the counter if it is strictly larger than the already
// stored one. The return value indicates whether the update was applied.
func (c *StrictMonotonicCounter) Set(processing uint64) bool {
	for {
		current := c.Value()
		if processing <= current {
			return false
		}
		if atomic.CompareAndSwapUint64(&c.atomicCounter, current, processing) {
			return true
		}
	}
}

// Value returns the value of the counter.
func (c *StrictMonotonicCounter) Value() uint64 {
	return atomic.LoadUint64(&c.atomicCounter)
}
