package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/sim"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database      string
	Player        string
	Steps         int
	Speed         int
	SnapshotEvery int
	Paced         bool
	Schedule      string

	// IDs overrides the run ID generator (for testing). Nil defaults to
	// UUIDv7.
	IDs sim.RunIDGenerator
}

// RunSummary is the run command's output payload.
type RunSummary struct {
	RunID          string  `json:"run_id"`
	Player         string  `json:"player"`
	Steps          int     `json:"steps"`
	DeadPopulation float64 `json:"dead_population"`
	PeakInfected   float64 `json:"peak_infected_share"`
	Score          float64 `json:"score"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <config-dir>",
		Short: "Run an epidemic scenario to completion",
		Long: `Run a full scenario over the countries in the config directory.

Without --db the run stays in memory and only the summary is printed. With
--db the run row, step history, world snapshots, interventions, and the final
score are persisted for scoring, leaderboard, and replay.

An intervention schedule is a YAML list of scheduled processes:

  - id: mask1
    kind: mask_mandate
    at_step: 10
    duration: 60
    targets:
      - country: India
        locus: Maharashtra
        effect: 0.8

Example:
  mirage run --player alice --db runs.db --schedule plan.yaml ./configs`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (omit for an in-memory run)")
	cmd.Flags().StringVar(&opts.Player, "player", "", "player name (required)")
	cmd.Flags().IntVar(&opts.Steps, "steps", sim.DefaultMaxSteps, "number of simulation steps")
	cmd.Flags().IntVar(&opts.Speed, "speed", 0, "paced speed in steps per minute")
	cmd.Flags().IntVar(&opts.SnapshotEvery, "snapshot-every", sim.DefaultSnapshotInterval, "steps between world snapshots")
	cmd.Flags().BoolVar(&opts.Paced, "paced", false, "pace the run in real time instead of free-running")
	cmd.Flags().StringVar(&opts.Schedule, "schedule", "", "path to an intervention schedule YAML")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func loadSchedule(path string) ([]sim.InterventionSpec, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}
	var specs []sim.InterventionSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("%s: parse schedule: %w", path, err)
	}
	return specs, nil
}

func runScenario(opts *RunOptions, configDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	specs, err := loadSchedule(opts.Schedule)
	if err != nil {
		_ = formatter.Error("E_SCHEDULE", err.Error(), nil)
		return WrapExitError(ExitCommandError, "load schedule", err)
	}

	var st *store.Store
	if opts.Database != "" {
		st, err = store.Open(opts.Database)
		if err != nil {
			_ = formatter.Error("E_DB", err.Error(), nil)
			return WrapExitError(ExitCommandError, "open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("closing database", "error", closeErr)
			}
		}()
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping run", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	runner := &sim.Runner{Store: st, Logger: logger, IDs: opts.IDs}
	result, err := runner.Run(ctx, sim.Scenario{
		Player:           opts.Player,
		ConfigDir:        configDir,
		MaxSteps:         opts.Steps,
		Speed:            opts.Speed,
		SnapshotInterval: opts.SnapshotEvery,
		Turbo:            !opts.Paced,
		Interventions:    specs,
	})
	if err != nil {
		_ = formatter.Error("E_RUN", err.Error(), nil)
		return WrapExitError(ExitCommandError, "run scenario", err)
	}

	summary := RunSummary{
		RunID:          result.RunID,
		Player:         result.Player,
		Steps:          result.Steps,
		DeadPopulation: result.Metrics.DeadPopulation,
		PeakInfected:   result.Metrics.MaxInfectedShare,
		Score:          result.Score.Total,
	}
	if opts.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintf(formatter.Writer, "run %s finished after %d steps\n", summary.RunID, summary.Steps)
	fmt.Fprintf(formatter.Writer, "  dead:          %.0f\n", summary.DeadPopulation)
	fmt.Fprintf(formatter.Writer, "  peak infected: %.4f\n", summary.PeakInfected)
	fmt.Fprintf(formatter.Writer, "  score:         %.4f\n", summary.Score)
	return nil
}
