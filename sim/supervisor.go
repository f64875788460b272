// Implements run supervision: external interrupts and a wall-clock watchdog
// both funnel into one cancellation cascade that forces every worker out,
// releases their slots, and surfaces a distinct error for the exit code.

package sim

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// Sentinel causes for a forced shutdown. Both are expected operational
// conditions, not defects; the CLI maps them to a non-zero exit code.
var (
	// ErrInterrupted is the cancellation cause when the process receives
	// SIGINT or SIGTERM.
	ErrInterrupted = errors.New("run interrupted")
	// ErrRealTimeLimit is the cancellation cause when the run exceeds its
	// wall-clock budget. The simulated clock has no bearing on it.
	ErrRealTimeLimit = errors.New("real-time limit exceeded")
)

// Supervisor runs a controller under two shutdown triggers: operating-system
// interrupt signals and a hard wall-clock watchdog. Either one cancels the
// run context; the controller drains its workers before returning, so by the
// time Run returns no goroutine from the run is left.
type Supervisor struct {
	ctrl          *Controller
	realTimeLimit time.Duration
}

// NewSupervisor wraps a controller. A realTimeLimit of zero or less disables
// the watchdog.
func NewSupervisor(ctrl *Controller, realTimeLimit time.Duration) *Supervisor {
	return &Supervisor{ctrl: ctrl, realTimeLimit: realTimeLimit}
}

// Run executes the controller until it finishes or a shutdown trigger fires.
// A forced shutdown returns the controller's counters together with
// ErrInterrupted or ErrRealTimeLimit as the cause.
func (s *Supervisor) Run(ctx context.Context) (*Metrics, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			logrus.Infof("received %v, forcing shutdown", sig)
			cancel(ErrInterrupted)
		case <-ctx.Done():
		}
	}()

	if s.realTimeLimit > 0 {
		watchdog := time.AfterFunc(s.realTimeLimit, func() {
			logrus.Infof("wall clock exceeded %v, forcing shutdown", s.realTimeLimit)
			cancel(ErrRealTimeLimit)
		})
		defer watchdog.Stop()
	}

	return s.ctrl.Run(ctx)
}
