// Implements the shared simulated clock. The controller is the only writer;
// every worker reads it continuously while busy-waiting on its deadline.

package sim

import (
	"sync/atomic"
)

// Clock is the simulated time source shared between the controller and all
// workers. The pair is packed into a single atomic cell holding the absolute
// nanosecond count, so a reader can never observe a torn (seconds, nanos)
// combination and every snapshot is normalized by construction.
//
// Advance must only be called from the controller goroutine. Snapshot is safe
// from any number of goroutines and never blocks.
type Clock struct {
	cell atomic.Uint64 // absolute simulated nanoseconds
}

// NewClock returns a Clock reading zero.
func NewClock() *Clock {
	return &Clock{}
}

// Snapshot returns the current simulated time.
func (c *Clock) Snapshot() Time {
	return TimeFromNanos(c.cell.Load())
}

// Advance moves the clock forward by the given delta and returns the new
// reading. The nanosecond delta does not need to be normalized; the carry
// into seconds happens inside the packed representation.
func (c *Clock) Advance(seconds, nanos uint64) Time {
	return TimeFromNanos(c.cell.Add(seconds*NanosPerSecond + nanos))
}
