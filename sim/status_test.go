package sim

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusReporter_FiresOncePerSimulatedSecond(t *testing.T) {
	sr := NewStatusReporter()
	table := NewWorkerTable(3)

	// Second zero never fires; the first edge is the crossing into 1.
	sr.Observe(Time{Nanos: 999_999_999}, table, 0, 0)
	assert.Equal(t, uint64(0), sr.lastSecs)

	sr.Observe(Time{Seconds: 1}, table, 1, 1)
	assert.Equal(t, uint64(1), sr.lastSecs)

	// Later nanos within the same second are not an edge.
	sr.Observe(Time{Seconds: 1, Nanos: 500_000_000}, table, 2, 2)
	assert.Equal(t, uint64(1), sr.lastSecs)

	// A coarse tick can skip whole seconds; the edge still registers once.
	sr.Observe(Time{Seconds: 4, Nanos: 1}, table, 2, 2)
	assert.Equal(t, uint64(4), sr.lastSecs)
}

func TestNewStatusReporter_BindsHostProcess(t *testing.T) {
	sr := NewStatusReporter()
	assert.Equal(t, os.Getpid(), sr.pid)
	assert.NotNil(t, sr.proc)
}
