package sim

import (
	"fmt"
)

// Wait policy names accepted by RunConfig.Wait.
const (
	// WaitSpin polls the clock in a tight loop without yielding.
	WaitSpin = "spin"
	// WaitYield offers the scheduler a chance to run other goroutines
	// between polls.
	WaitYield = "yield"
)

// RunConfig groups the launch policy and clock parameters for one run.
type RunConfig struct {
	TotalWorkers     int    // total workers to launch over the run (must be > 0)
	ConcurrencyLimit int    // max simultaneously active workers (must be > 0)
	MaxWorkerSeconds int    // upper bound, inclusive, of an assigned lifetime in whole seconds (must be > 0)
	LaunchIntervalMs int64  // minimum simulated spacing between launches in milliseconds (0 = none)
	MaxActive        int    // worker table capacity (must be >= ConcurrencyLimit)
	TickNanos        uint64 // simulated nanoseconds the clock advances per controller iteration (must be > 0)
	Seed             int64  // seed for lifetime generation
	Wait             string // worker wait policy between clock polls: "spin" (default) or "yield"
}

// DefaultRunConfig returns the stock policy: twenty workers, five at a time,
// lifetimes up to five seconds, launches at least 100ms of simulated time
// apart, the clock advancing one millisecond per iteration.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		TotalWorkers:     20,
		ConcurrencyLimit: 5,
		MaxWorkerSeconds: 5,
		LaunchIntervalMs: 100,
		MaxActive:        20,
		TickNanos:        1_000_000,
		Seed:             42,
		Wait:             WaitSpin,
	}
}

// Validate rejects configurations the controller cannot run. It is called
// before any clock, table, or worker state exists.
func (c RunConfig) Validate() error {
	if c.TotalWorkers <= 0 {
		return fmt.Errorf("total workers must be positive, got %d", c.TotalWorkers)
	}
	if c.ConcurrencyLimit <= 0 {
		return fmt.Errorf("concurrency limit must be positive, got %d", c.ConcurrencyLimit)
	}
	if c.MaxWorkerSeconds <= 0 {
		return fmt.Errorf("max worker seconds must be positive, got %d", c.MaxWorkerSeconds)
	}
	if c.LaunchIntervalMs < 0 {
		return fmt.Errorf("launch interval must not be negative, got %dms", c.LaunchIntervalMs)
	}
	if c.MaxActive < c.ConcurrencyLimit {
		return fmt.Errorf("worker table capacity %d is below the concurrency limit %d", c.MaxActive, c.ConcurrencyLimit)
	}
	if c.TickNanos == 0 {
		return fmt.Errorf("tick must be positive")
	}
	if c.Wait != WaitSpin && c.Wait != WaitYield {
		return fmt.Errorf("unknown wait policy %q", c.Wait)
	}
	return nil
}

// LaunchIntervalNanos returns the launch spacing gate in simulated nanoseconds.
func (c RunConfig) LaunchIntervalNanos() uint64 {
	return uint64(c.LaunchIntervalMs) * 1_000_000
}
