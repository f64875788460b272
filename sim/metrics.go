// Tracks run-wide counters for final reporting.

package sim

import (
	"fmt"
	"time"
)

// Metrics aggregates statistics about one run for final reporting.
type Metrics struct {
	LaunchedWorkers  int    // workers that passed the launch gates
	CompletedWorkers int    // workers reaped after reaching their deadline
	CanceledWorkers  int    // workers reaped after forced cancellation
	PeakConcurrency  int    // max simultaneously active workers observed
	Ticks            uint64 // controller loop iterations
	FinalClock       Time   // simulated time when the loop exited
}

// NewMetrics returns zeroed counters.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Print displays aggregated counters at the end of a run, plus the wall
// clock spent since startTime.
func (m *Metrics) Print(startTime time.Time) {
	fmt.Println("=== Launch Summary ===")
	fmt.Printf("Launched Workers   : %d\n", m.LaunchedWorkers)
	fmt.Printf("Completed Workers  : %d\n", m.CompletedWorkers)
	fmt.Printf("Canceled Workers   : %d\n", m.CanceledWorkers)
	fmt.Printf("Peak Concurrency   : %d\n", m.PeakConcurrency)
	fmt.Printf("Ticks              : %d\n", m.Ticks)
	fmt.Printf("Simulated Time     : %s\n", m.FinalClock)
	fmt.Printf("Wall Clock         : %s\n", time.Since(startTime).Round(time.Millisecond))
}
