// Implements the worker goroutine: a busy-wait loop that polls the shared
// clock until its assigned deadline passes, reporting progress at each
// simulated second boundary it observes.

package sim

import (
	"context"
	"runtime"
	"strconv"

	"github.com/sirupsen/logrus"
)

// WaitStrategy controls what a worker does between clock polls.
type WaitStrategy interface {
	Pause()
}

// SpinWait re-polls immediately. Workers consume their host thread for their
// entire simulated lifetime; completion timing depends only on the simulated
// clock.
type SpinWait struct{}

// Pause does nothing.
func (SpinWait) Pause() {}

// YieldWait offers the Go scheduler a chance to run other goroutines between
// polls. Deadline semantics are identical to SpinWait.
type YieldWait struct{}

// Pause yields the processor.
func (YieldWait) Pause() { runtime.Gosched() }

// WaitStrategyFor maps a RunConfig wait policy name to its implementation.
func WaitStrategyFor(name string) WaitStrategy {
	if name == WaitYield {
		return YieldWait{}
	}
	return SpinWait{}
}

// Completion is what a worker hands back to the controller when it exits.
// ObservedAt is the snapshot that satisfied the deadline, or the snapshot
// taken on forced cancellation.
type Completion struct {
	ID         WorkerID
	ObservedAt Time
	Canceled   bool
}

// Worker busy-waits on the shared clock until its deadline passes. The
// deadline is fixed at construction: origin plus the lifetime assigned by
// the controller. Workers never advance the clock and never block; the only
// early exit is context cancellation, checked once per poll.
type Worker struct {
	ID       WorkerID
	origin   Time
	deadline Time
	clock    *Clock
	wait     WaitStrategy
	rec      *Recorder
	done     chan<- Completion
}

// NewWorker builds a worker around an origin snapshot and an assigned
// lifetime. The completion channel must have capacity available for the
// worker's final send; the controller sizes it to the table capacity.
func NewWorker(id WorkerID, clock *Clock, origin, lifetime Time, wait WaitStrategy, rec *Recorder, done chan<- Completion) *Worker {
	return &Worker{
		ID:       id,
		origin:   origin,
		deadline: origin.Add(lifetime.Seconds, lifetime.Nanos),
		clock:    clock,
		wait:     wait,
		rec:      rec,
		done:     done,
	}
}

// Deadline returns the simulated time at or after which the worker exits.
func (w *Worker) Deadline() Time {
	return w.deadline
}

// Run polls the clock until a snapshot reaches the deadline, then sends a
// Completion and returns. On cancellation it sends a Completion marked
// Canceled so the controller never waits on an orphaned worker.
func (w *Worker) Run(ctx context.Context) {
	w.rec.Record(Event{Kind: EventStart, Worker: w.ID, At: w.origin, Target: w.deadline})
	logrus.Infof("worker %d: starting at %s, will terminate at %s", w.ID, w.origin, w.deadline)

	reported := uint64(0)
	for {
		select {
		case <-ctx.Done():
			now := w.clock.Snapshot()
			w.rec.Record(Event{Kind: EventCancel, Worker: w.ID, At: now, Target: w.deadline})
			logrus.Infof("worker %d: canceled at %s, target %s", w.ID, now, w.deadline)
			w.done <- Completion{ID: w.ID, ObservedAt: now, Canceled: true}
			return
		default:
		}

		now := w.clock.Snapshot()
		if now.AtOrAfter(w.deadline) {
			w.rec.Record(Event{Kind: EventComplete, Worker: w.ID, At: now, Target: w.deadline})
			logrus.Infof("worker %d: terminating at %s, target %s", w.ID, now, w.deadline)
			w.done <- Completion{ID: w.ID, ObservedAt: now}
			return
		}

		if elapsed := now.SecondsSince(w.origin); elapsed > reported {
			reported = elapsed
			w.rec.Record(Event{Kind: EventProgress, Worker: w.ID, At: now, Target: w.deadline, Detail: strconv.FormatUint(elapsed, 10)})
			logrus.Infof("worker %d: %d seconds have passed since starting, clock %s, target %s", w.ID, elapsed, now, w.deadline)
		}

		w.wait.Pause()
	}
}
