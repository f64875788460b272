package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRunConfig_MatchesStockPolicy(t *testing.T) {
	got := DefaultRunConfig()
	want := RunConfig{
		TotalWorkers:     20,
		ConcurrencyLimit: 5,
		MaxWorkerSeconds: 5,
		LaunchIntervalMs: 100,
		MaxActive:        20,
		TickNanos:        1_000_000,
		Seed:             42,
		Wait:             WaitSpin,
	}
	assert.Equal(t, want, got)
}

func TestDefaultRunConfig_Validates(t *testing.T) {
	assert.NoError(t, DefaultRunConfig().Validate())
}

func TestRunConfigValidate_RejectsBadQuantities(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RunConfig)
	}{
		{"zero workers", func(c *RunConfig) { c.TotalWorkers = 0 }},
		{"negative workers", func(c *RunConfig) { c.TotalWorkers = -3 }},
		{"zero concurrency", func(c *RunConfig) { c.ConcurrencyLimit = 0 }},
		{"zero max seconds", func(c *RunConfig) { c.MaxWorkerSeconds = 0 }},
		{"negative interval", func(c *RunConfig) { c.LaunchIntervalMs = -1 }},
		{"table below concurrency limit", func(c *RunConfig) { c.MaxActive = 4 }},
		{"zero tick", func(c *RunConfig) { c.TickNanos = 0 }},
		{"unknown wait policy", func(c *RunConfig) { c.Wait = "nap" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultRunConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRunConfigValidate_AllowsZeroInterval(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.LaunchIntervalMs = 0
	assert.NoError(t, cfg.Validate())
}

func TestRunConfig_LaunchIntervalNanos(t *testing.T) {
	cfg := DefaultRunConfig()
	assert.Equal(t, uint64(100_000_000), cfg.LaunchIntervalNanos())

	cfg.LaunchIntervalMs = 0
	assert.Equal(t, uint64(0), cfg.LaunchIntervalNanos())
}
