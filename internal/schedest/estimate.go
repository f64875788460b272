// Package schedest computes the earliest schedule the launch gates permit:
// the launch, reap, and termination times of a run in which every worker is
// observed at the first possible clock grid point. Because the live system
// can only observe completions later than that (goroutine scheduling delays
// push observations to later grid points while the clock keeps advancing),
// the estimate is a pointwise lower bound on real launch times. When the
// concurrency gate can never bind (concurrency limit at or above the total
// worker count), launches depend only on the quota and spacing gates and the
// estimated launch times are exact.
package schedest

import (
	"cmp"

	"github.com/addrummond/heap"
	"github.com/gammazero/deque"
)

// Input describes one run to estimate. Durations holds the simulated
// lifetimes that will be assigned, in launch order; the worker table is
// assumed large enough for the concurrency limit, as the controller's
// configuration validation guarantees.
type Input struct {
	TotalWorkers     int
	ConcurrencyLimit int
	LaunchIntervalMs int64
	TickNanos        uint64
	Durations        []uint64 // assigned lifetimes in simulated nanos, launch order
}

// Schedule is the earliest gate-permitted timeline, all values in absolute
// simulated nanoseconds.
type Schedule struct {
	LaunchNanos     []uint64 // launch time per worker, launch order
	ReapNanos       []uint64 // earliest observable reap times, ascending
	FinalNanos      uint64   // earliest clock value at which the run can end
	PeakConcurrency int
}

type reapEvent struct {
	nanos uint64
}

func (a *reapEvent) Cmp(b *reapEvent) int {
	return cmp.Compare(a.nanos, b.nanos)
}

// ceilGrid rounds nanos up to the next multiple of tick. A completion at an
// off-grid instant becomes observable at the first grid point the clock
// actually reaches.
func ceilGrid(nanos, tick uint64) uint64 {
	return (nanos + tick - 1) / tick * tick
}

// Estimate replays the controller's tick loop arithmetic over clock grid
// points: at each tick, reap everything whose earliest observable time has
// arrived, then evaluate the quota, concurrency, and spacing gates for at
// most one launch.
func Estimate(in Input) Schedule {
	if len(in.Durations) < in.TotalWorkers {
		panic("schedest: need one duration per worker")
	}

	interval := uint64(in.LaunchIntervalMs) * 1_000_000

	var pending deque.Deque[uint64]
	for _, d := range in.Durations[:in.TotalWorkers] {
		pending.PushBack(d)
	}

	var reapHeap heap.Heap[reapEvent, heap.Min]
	var out Schedule
	var now, last uint64
	launched, running := 0, 0

	for launched < in.TotalWorkers || running > 0 {
		for {
			ev, ok := heap.Peek(&reapHeap)
			if !ok || ev.nanos > now {
				break
			}
			_, _ = heap.PopOrderable(&reapHeap)
			running--
			out.ReapNanos = append(out.ReapNanos, now)
		}

		if launched < in.TotalWorkers && running < in.ConcurrencyLimit && now-last >= interval {
			d := pending.PopFront()
			heap.PushOrderable(&reapHeap, reapEvent{nanos: ceilGrid(now+d, in.TickNanos)})
			out.LaunchNanos = append(out.LaunchNanos, now)
			last = now
			launched++
			running++
			out.PeakConcurrency = max(out.PeakConcurrency, running)
		}

		if launched == in.TotalWorkers && running == 0 {
			break
		}
		now += in.TickNanos
	}

	out.FinalNanos = now
	return out
}
