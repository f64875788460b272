// Periodic status snapshot, emitted whenever the simulated clock crosses a
// second boundary: clock reading, full worker table, launch counters, and
// host-process resource usage.

package sim

import (
	"os"

	"github.com/shirou/gopsutil/process"
	"github.com/sirupsen/logrus"
)

// StatusReporter logs a run snapshot once per simulated second. Edge
// detection is explicit on the seconds component of the clock, so the
// cadence is independent of the tick size.
type StatusReporter struct {
	pid      int
	proc     *process.Process
	lastSecs uint64
}

// NewStatusReporter binds the reporter to the host process for CPU and RSS
// sampling. Resource sampling is observability only; when the process handle
// is unavailable the snapshots simply omit it.
func NewStatusReporter() *StatusReporter {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		logrus.Debugf("process stats unavailable: %v", err)
		proc = nil
	}
	return &StatusReporter{pid: pid, proc: proc}
}

// Observe logs a snapshot if now has crossed into a new simulated second
// since the last call.
func (sr *StatusReporter) Observe(now Time, table *WorkerTable, launched, running int) {
	if now.Seconds == sr.lastSecs {
		return
	}
	sr.lastSecs = now.Seconds

	logrus.Infof("[%s] status: pid=%d launched=%d running=%d occupied=%d/%d",
		now, sr.pid, launched, running, table.Occupied(), table.Capacity())
	logrus.Infof("worker table:\n%s", table)

	if sr.proc == nil {
		return
	}
	cpuPercent, err := sr.proc.CPUPercent()
	if err != nil {
		logrus.Debugf("cpu sample failed: %v", err)
		return
	}
	memInfo, err := sr.proc.MemoryInfo()
	if err != nil {
		logrus.Debugf("memory sample failed: %v", err)
		return
	}
	logrus.Infof("[%s] process: cpu=%.1f%% rss=%d bytes", now, cpuPercent, memInfo.RSS)
}
