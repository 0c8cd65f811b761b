package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/sim"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database  string
	ConfigDir string
}

// ReplayResult is the replay command's output payload.
type ReplayResult struct {
	RunID         string   `json:"run_id"`
	Deterministic bool     `json:"deterministic"`
	StepsChecked  int      `json:"steps_checked"`
	RowsChecked   int      `json:"rows_checked"`
	Mismatches    []string `json:"mismatches,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <run-id>",
		Short: "Re-run a stored run and verify its snapshots",
		Long: `Re-execute a stored run in memory, with the same config and intervention
schedule, and compare the world against every stored snapshot.

A clean replay proves the stored history is an honest record of a
deterministic run; any mismatch means the config changed or the database was
tampered with.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.ConfigDir, "config", "", "path to the run's config directory (required)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runReplay(opts *ReplayOptions, runID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error("E_DB", err.Error(), nil)
		return WrapExitError(ExitCommandError, "open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report, err := sim.Replay(ctx, st, runID, opts.ConfigDir)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			msg := fmt.Sprintf("run %s not found", runID)
			_ = formatter.Error("E_NOT_FOUND", msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		_ = formatter.Error("E_REPLAY", err.Error(), nil)
		return WrapExitError(ExitCommandError, "replay run", err)
	}

	result := ReplayResult{
		RunID:         report.RunID,
		Deterministic: report.OK(),
		StepsChecked:  report.StepsChecked,
		RowsChecked:   report.RowsChecked,
		Mismatches:    report.Mismatches,
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else if result.Deterministic {
		fmt.Fprintf(formatter.Writer, "replay ok: %d snapshot(s), %d row(s) verified\n",
			result.StepsChecked, result.RowsChecked)
	} else {
		fmt.Fprintf(formatter.Writer, "replay diverged: %d mismatch(es)\n", len(result.Mismatches))
		for _, m := range result.Mismatches {
			fmt.Fprintf(formatter.Writer, "  %s\n", m)
		}
	}

	if !result.Deterministic {
		return NewExitError(ExitFailure, fmt.Sprintf("replay of %s diverged", runID))
	}
	return nil
}
