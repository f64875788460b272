// Implements the launch controller: the single goroutine that advances the
// simulated clock, reaps finished workers, and launches new ones under the
// quota, concurrency, and spacing gates.

package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/sirupsen/logrus"
)

// SpawnFunc starts a worker's goroutine. Tests substitute failing variants
// to exercise the abort path.
type SpawnFunc func(ctx context.Context, w *Worker) error

// Controller owns the clock, the worker table, and all launch decisions.
// One loop iteration is a tick: drain ready completions, evaluate the launch
// gates once, advance the clock, and emit the per-second status snapshot.
// Gates are evaluated against the pre-advance clock, so with a zero launch
// interval the first worker launches at simulated time zero.
type Controller struct {
	Config   RunConfig
	Clock    *Clock
	Table    *WorkerTable
	Recorder *Recorder
	Metrics  *Metrics

	// Sampler draws each worker's lifetime at launch, in launch order,
	// from the run's seeded stream.
	Sampler DurationSampler
	// Spawn starts each worker goroutine.
	Spawn SpawnFunc

	rng    *rand.Rand
	wait   WaitStrategy
	status *StatusReporter
	done   chan Completion
	wg     sync.WaitGroup

	launched   int
	running    int
	lastLaunch uint64 // absolute sim nanos of the most recent launch
	nextID     WorkerID
}

// NewController wires a controller for one run. The config must have passed
// Validate. The completion channel is sized to the table capacity so worker
// sends can never block, even with no reaper running.
func NewController(cfg RunConfig, rec *Recorder) *Controller {
	c := &Controller{
		Config:   cfg,
		Clock:    NewClock(),
		Table:    NewWorkerTable(cfg.MaxActive),
		Recorder: rec,
		Metrics:  NewMetrics(),
		Sampler:  UniformDurationSampler{MaxSeconds: cfg.MaxWorkerSeconds},
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		wait:     WaitStrategyFor(cfg.Wait),
		status:   NewStatusReporter(),
		done:     make(chan Completion, cfg.MaxActive),
		nextID:   1,
	}
	c.Spawn = c.goSpawn
	return c
}

func (c *Controller) goSpawn(ctx context.Context, w *Worker) error {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		w.Run(ctx)
	}()
	return nil
}

// Running returns the number of launched workers not yet reaped.
func (c *Controller) Running() int {
	return c.running
}

// Run executes the tick loop until every worker has launched and been
// reaped. It returns the run counters, plus a non-nil error when the run was
// cut short: the cancellation cause (supervisor interrupt or watchdog), a
// spawn failure, or a table consistency fault. Whatever the exit path, no
// worker goroutine outlives the call.
func (c *Controller) Run(ctx context.Context) (*Metrics, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logrus.Infof("run %s: launching %d workers, concurrency limit %d, interval %dms, tick %dns",
		c.Recorder.RunID(), c.Config.TotalWorkers, c.Config.ConcurrencyLimit,
		c.Config.LaunchIntervalMs, c.Config.TickNanos)

	for c.launched < c.Config.TotalWorkers || c.running > 0 {
		if ctx.Err() != nil {
			return c.shutdown(cancel, context.Cause(ctx))
		}
		if err := c.reap(); err != nil {
			return c.shutdown(cancel, err)
		}
		if err := c.maybeLaunch(ctx); err != nil {
			return c.shutdown(cancel, err)
		}
		now := c.Clock.Advance(0, c.Config.TickNanos)
		c.Metrics.Ticks++
		c.status.Observe(now, c.Table, c.launched, c.running)
	}

	c.wg.Wait()
	c.Metrics.FinalClock = c.Clock.Snapshot()
	logrus.Infof("[%s] run complete: %d launched, %d completed in %d ticks",
		c.Metrics.FinalClock, c.launched, c.Metrics.CompletedWorkers, c.Metrics.Ticks)
	return c.Metrics, nil
}

// reap drains every completion that is ready, without blocking. Each one
// frees its table slot; an unknown worker ID means the table and the worker
// set have diverged, and the run aborts.
func (c *Controller) reap() error {
	for {
		select {
		case comp := <-c.done:
			// The sender has exited whatever Release says, so the running
			// count drops before the fault check.
			c.running--
			if comp.Canceled {
				c.Metrics.CanceledWorkers++
			} else {
				c.Metrics.CompletedWorkers++
			}
			// Release clears the entry, so read the launch time first.
			launchedAt, _ := c.Table.LaunchedAt(comp.ID)
			if err := c.Table.Release(comp.ID); err != nil {
				return fmt.Errorf("reaping worker %d: %w", comp.ID, err)
			}
			now := c.Clock.Snapshot()
			age := TimeFromNanos(comp.ObservedAt.TotalNanos() - launchedAt.TotalNanos())
			c.Recorder.Record(Event{Kind: EventReap, Worker: comp.ID, At: now, Target: comp.ObservedAt})
			logrus.Infof("[%s] reaped worker %d (exited at %s after %s)", now, comp.ID, comp.ObservedAt, age)
		default:
			return nil
		}
	}
}

// maybeLaunch evaluates the launch gates in order (quota, concurrency,
// spacing) and starts at most one worker. Spacing for the first launch is
// measured from the simulated origin.
func (c *Controller) maybeLaunch(ctx context.Context) error {
	if c.launched >= c.Config.TotalWorkers {
		return nil
	}
	if c.running >= c.Config.ConcurrencyLimit {
		return nil
	}
	now := c.Clock.Snapshot()
	if now.TotalNanos()-c.lastLaunch < c.Config.LaunchIntervalNanos() {
		return nil
	}
	slot, ok := c.Table.FreeSlot()
	if !ok {
		logrus.Debugf("[%s] worker table full, deferring launch", now)
		return nil
	}

	lifetime := c.Sampler.Sample(c.rng)
	id := c.nextID
	w := NewWorker(id, c.Clock, now, lifetime, c.wait, c.Recorder, c.done)
	if err := c.Spawn(ctx, w); err != nil {
		return fmt.Errorf("spawning worker %d: %w", id, err)
	}
	c.nextID++
	c.Table.Register(slot, id, now)
	c.launched++
	c.running++
	c.lastLaunch = now.TotalNanos()
	c.Metrics.LaunchedWorkers++
	if c.running > c.Metrics.PeakConcurrency {
		c.Metrics.PeakConcurrency = c.running
	}
	c.Recorder.Record(Event{Kind: EventLaunch, Worker: id, At: now, Target: w.Deadline(), Detail: lifetime.String()})
	logrus.Infof("[%s] launching worker %d into slot %d (lifetime %s)", now, id, slot, lifetime)
	return nil
}

// shutdown cancels outstanding workers, drains their completions, releases
// their table slots, and returns cause. Workers forced out mid-lifetime send
// cancel-marked completions, so the drain always terminates.
func (c *Controller) shutdown(cancel context.CancelFunc, cause error) (*Metrics, error) {
	logrus.Infof("shutting down %d active workers: %v", c.running, cause)
	cancel()
	for c.running > 0 {
		comp := <-c.done
		if err := c.Table.Release(comp.ID); err != nil {
			logrus.Warnf("releasing worker %d during shutdown: %v", comp.ID, err)
		}
		c.running--
		if comp.Canceled {
			c.Metrics.CanceledWorkers++
		} else {
			c.Metrics.CompletedWorkers++
		}
		c.Recorder.Record(Event{Kind: EventReap, Worker: comp.ID, At: c.Clock.Snapshot(), Target: comp.ObservedAt})
	}
	c.wg.Wait()
	c.Metrics.FinalClock = c.Clock.Snapshot()
	logrus.Infof("[%s] shutdown complete: %d completed, %d canceled",
		c.Metrics.FinalClock, c.Metrics.CompletedWorkers, c.Metrics.CanceledWorkers)
	return c.Metrics, cause
}
