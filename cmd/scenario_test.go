package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/launchsim/launchsim/sim"
)

const scenarioYAML = `
scenarios:
  smoke:
    workers: 5
    tick_nanos: 2000000
  crunch:
    workers: 40
    concurrency: 10
    max_seconds: 3
    interval_ms: 50
    max_active: 40
`

func writeScenarioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0644))
	return path
}

func TestGetScenario_LoadsNamedPreset(t *testing.T) {
	path := writeScenarioFile(t)

	preset := GetScenario(path, "crunch")
	require.NotNil(t, preset)
	assert.Equal(t, 40, preset.Workers)
	assert.Equal(t, 10, preset.Concurrency)
	assert.Equal(t, 3, preset.MaxSeconds)
	assert.Equal(t, int64(50), preset.IntervalMs)
	assert.Equal(t, 40, preset.MaxActive)
	assert.Zero(t, preset.TickNanos, "crunch sets no tick override")
}

func TestGetScenario_UnknownNameReturnsNil(t *testing.T) {
	path := writeScenarioFile(t)
	assert.Nil(t, GetScenario(path, "no-such-preset"))
}

func TestGetScenario_MissingFilePanics(t *testing.T) {
	assert.Panics(t, func() {
		GetScenario(filepath.Join(t.TempDir(), "absent.yaml"), "smoke")
	})
}

func TestApplyScenario_PresetFillsUnsetFlags(t *testing.T) {
	// GIVEN stock flag values and a preset, with nothing passed explicitly
	cfg := sim.DefaultRunConfig()
	preset := &Scenario{Workers: 40, Concurrency: 10, IntervalMs: 50}
	none := func(string) bool { return false }

	got := applyScenario(cfg, preset, none)

	// THEN set preset fields land, unset ones keep the flag defaults
	assert.Equal(t, 40, got.TotalWorkers)
	assert.Equal(t, 10, got.ConcurrencyLimit)
	assert.Equal(t, int64(50), got.LaunchIntervalMs)
	assert.Equal(t, cfg.MaxWorkerSeconds, got.MaxWorkerSeconds)
	assert.Equal(t, cfg.MaxActive, got.MaxActive)
	assert.Equal(t, cfg.TickNanos, got.TickNanos)
}

func TestApplyScenario_ExplicitFlagBeatsPreset(t *testing.T) {
	// GIVEN --workers passed on the command line
	cfg := sim.DefaultRunConfig()
	cfg.TotalWorkers = 7
	preset := &Scenario{Workers: 40, Concurrency: 10}
	changed := func(name string) bool { return name == "workers" }

	got := applyScenario(cfg, preset, changed)

	// THEN the explicit value survives while the rest of the preset applies
	assert.Equal(t, 7, got.TotalWorkers)
	assert.Equal(t, 10, got.ConcurrencyLimit)
}

func TestRunCommand_ScenarioPreset_EndToEnd(t *testing.T) {
	// GIVEN a run naming the smoke preset but pinning --workers itself
	path := writeScenarioFile(t)
	base := filepath.Join(t.TempDir(), "run")
	defer func() { scenario, scenarioFile = "", "scenarios.yaml" }()
	rootCmd.SetArgs([]string{"run",
		"--workers", "1",
		"--concurrency", "1",
		"--max-seconds", "1",
		"--interval-ms", "0",
		"--wait", "yield",
		"--seed", "7",
		"--real-time-limit", "1m",
		"--log", "error",
		"--journal", base,
		"--scenario", "smoke",
		"--scenario-file", path,
	})

	// WHEN the CLI executes
	require.NoError(t, rootCmd.Execute())

	// THEN the journal header shows the preset tick with the explicit
	// worker count on top of it
	journal, err := sim.LoadJournal(base+".yaml", base+".csv")
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000_000), journal.Header.TickNanos)
	assert.Equal(t, 1, journal.Header.TotalWorkers)
}
