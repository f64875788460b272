package cmd

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	sim "github.com/launchsim/launchsim/sim"
)

var (
	// CLI flags for the launch policy
	totalWorkers     int    // Total number of workers to launch over the run
	concurrencyLimit int    // Maximum number of simultaneously active workers
	maxWorkerSeconds int    // Upper bound (inclusive) on a worker's simulated lifetime in seconds
	launchIntervalMs int64  // Minimum simulated spacing between launches (milliseconds)
	maxActive        int    // Capacity of the active-worker table
	tickNanos        uint64 // Simulated nanoseconds the clock advances per controller iteration
	seed             int64  // Seed for random lifetime generation
	waitMode         string // Worker wait policy between clock polls
	logLevel         string // Log verbosity level

	// CLI flags for supervision, presets, and the run journal
	realTimeLimit time.Duration // Wall-clock watchdog for the whole run (0 disables)
	scenario      string        // Named scenario preset to apply
	scenarioFile  string        // YAML file holding scenario presets
	journalPath   string        // Base path for journal export (empty disables)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "launchsim",
	Short: "Logical-clock simulator for concurrent worker launching",
}

// runCmd executes one launch run using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the launch simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := buildRunConfig(cmd)
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		logrus.Infof("Starting run: %d workers, concurrency limit %d, lifetimes up to %ds, interval %dms",
			cfg.TotalWorkers, cfg.ConcurrencyLimit, cfg.MaxWorkerSeconds, cfg.LaunchIntervalMs)

		startTime := time.Now() // Get current time (start)

		rec := sim.NewRecorder()
		ctrl := sim.NewController(cfg, rec)
		sup := sim.NewSupervisor(ctrl, realTimeLimit)

		exportJournal := func() {}
		if journalPath != "" {
			exportJournal = journalExporter(rec, cfg)
			// Forced exits still flush: atexit covers the error path below,
			// the logrus handler covers Fatalf.
			atexit.Register(exportJournal)
			logrus.RegisterExitHandler(exportJournal)
		}

		metrics, err := sup.Run(context.Background())
		exportJournal()
		if err != nil {
			logrus.Errorf("Run aborted: %v", err)
			atexit.Exit(1)
		}

		metrics.Print(startTime)
		logrus.Info("Run complete.")
	},
}

// buildRunConfig assembles the run configuration from flags, applying a
// scenario preset first when one is named. Flags set explicitly on the
// command line override preset values.
func buildRunConfig(cmd *cobra.Command) sim.RunConfig {
	cfg := sim.RunConfig{
		TotalWorkers:     totalWorkers,
		ConcurrencyLimit: concurrencyLimit,
		MaxWorkerSeconds: maxWorkerSeconds,
		LaunchIntervalMs: launchIntervalMs,
		MaxActive:        maxActive,
		TickNanos:        tickNanos,
		Seed:             seed,
		Wait:             waitMode,
	}

	if scenario == "" {
		return cfg
	}
	preset := GetScenario(scenarioFile, scenario)
	if preset == nil {
		logrus.Fatalf("Unknown scenario %q in %s", scenario, scenarioFile)
	}
	return applyScenario(cfg, preset, cmd.Flags().Changed)
}

// journalExporter returns a once-guarded export of the run journal to
// journalPath.yaml and journalPath.csv.
func journalExporter(rec *sim.Recorder, cfg sim.RunConfig) func() {
	header := &sim.JournalHeader{
		RunID:            rec.RunID(),
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
		TimeUnit:         "simulated seconds+nanoseconds",
		Seed:             cfg.Seed,
		TotalWorkers:     cfg.TotalWorkers,
		ConcurrencyLimit: cfg.ConcurrencyLimit,
		MaxWorkerSeconds: cfg.MaxWorkerSeconds,
		LaunchIntervalMs: cfg.LaunchIntervalMs,
		TickNanos:        cfg.TickNanos,
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			headerPath := journalPath + ".yaml"
			dataPath := journalPath + ".csv"
			if err := rec.Export(header, headerPath, dataPath); err != nil {
				logrus.Errorf("Journal export failed: %v", err)
				return
			}
			logrus.Infof("Journal written to %s and %s", headerPath, dataPath)
		})
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {

	runCmd.Flags().IntVar(&totalWorkers, "workers", 20, "Total number of workers to launch")
	runCmd.Flags().IntVar(&concurrencyLimit, "concurrency", 5, "Maximum number of simultaneously active workers")
	runCmd.Flags().IntVar(&maxWorkerSeconds, "max-seconds", 5, "Upper bound on a worker's simulated lifetime in whole seconds")
	runCmd.Flags().Int64Var(&launchIntervalMs, "interval-ms", 100, "Minimum simulated spacing between launches in milliseconds")
	runCmd.Flags().IntVar(&maxActive, "max-active", 20, "Capacity of the active-worker table")
	runCmd.Flags().Uint64Var(&tickNanos, "tick-ns", 1_000_000, "Simulated nanoseconds added to the clock per controller iteration")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random lifetime generation")
	runCmd.Flags().StringVar(&waitMode, "wait", sim.WaitSpin, "Worker wait policy between clock polls (spin, yield)")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Supervision, presets, and journal export
	runCmd.Flags().DurationVar(&realTimeLimit, "real-time-limit", 60*time.Second, "Wall-clock watchdog for the whole run (0 disables)")
	runCmd.Flags().StringVar(&scenario, "scenario", "", "Named scenario preset to apply")
	runCmd.Flags().StringVar(&scenarioFile, "scenario-file", "scenarios.yaml", "YAML file holding scenario presets")
	runCmd.Flags().StringVar(&journalPath, "journal", "", "Base path for run journal export (empty disables)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
