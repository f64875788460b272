// Defines the Time pair that represents a point on the simulated clock.
// All scheduling decisions (launch spacing, worker deadlines, status edges)
// compare these pairs, never wall-clock time.

package sim

import (
	"fmt"
)

// NanosPerSecond is the nanosecond component modulus of a normalized Time.
const NanosPerSecond uint64 = 1_000_000_000

// Time is a point on the simulated clock, held as whole seconds plus a
// sub-second nanosecond component. A normalized Time has Nanos < NanosPerSecond.
// Ordering is lexicographic on (Seconds, Nanos).
type Time struct {
	Seconds uint64
	Nanos   uint64
}

// TimeFromNanos converts an absolute simulated nanosecond count into a
// normalized Time.
func TimeFromNanos(total uint64) Time {
	return Time{
		Seconds: total / NanosPerSecond,
		Nanos:   total % NanosPerSecond,
	}
}

// TotalNanos returns the absolute simulated nanosecond count for t.
func (t Time) TotalNanos() uint64 {
	return t.Seconds*NanosPerSecond + t.Nanos
}

// Add returns t advanced by the given delta. The nanosecond delta does not
// need to be normalized: Add(0, 1_500_000_000) on a zero Time yields
// {Seconds: 1, Nanos: 500_000_000}.
func (t Time) Add(seconds, nanos uint64) Time {
	return TimeFromNanos(t.TotalNanos() + seconds*NanosPerSecond + nanos)
}

// Before reports whether t is strictly earlier than u.
func (t Time) Before(u Time) bool {
	if t.Seconds != u.Seconds {
		return t.Seconds < u.Seconds
	}
	return t.Nanos < u.Nanos
}

// AtOrAfter reports whether t has reached u. This is the comparison a worker
// applies between each clock snapshot and its deadline.
func (t Time) AtOrAfter(u Time) bool {
	return !t.Before(u)
}

// SecondsSince returns the number of whole seconds elapsed from origin to t,
// or 0 if t is before origin. Workers use this to count progress boundaries
// relative to their own start rather than the global clock.
func (t Time) SecondsSince(origin Time) uint64 {
	if t.Before(origin) {
		return 0
	}
	s := t.Seconds - origin.Seconds
	if t.Nanos < origin.Nanos {
		s--
	}
	return s
}

// String renders t as seconds with a fixed nine-digit nanosecond fraction,
// e.g. "3.500000000s".
func (t Time) String() string {
	return fmt.Sprintf("%d.%09ds", t.Seconds, t.Nanos)
}
