package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/store"
)

// ScoreOptions holds flags for the score command.
type ScoreOptions struct {
	*RootOptions
	Database string
}

// NewScoreCommand creates the score command.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "score <run-id>",
		Short:         "Show the score of a finished run",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runScore(opts *ScoreOptions, runID string, cmd *cobra.Command) error {
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

	score, err := st.GetScore(ctx, runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			msg := fmt.Sprintf("no score for run %s", runID)
			_ = formatter.Error("E_NOT_FOUND", msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		_ = formatter.Error("E_DB", err.Error(), nil)
		return WrapExitError(ExitCommandError, "read score", err)
	}

	if opts.Format == "json" {
		return formatter.Success(score)
	}
	fmt.Fprintf(formatter.Writer, "run %s (player %s)\n", score.RunID, score.Player)
	fmt.Fprintf(formatter.Writer, "  population survived: %.4f\n", score.PopulationSurvived)
	fmt.Fprintf(formatter.Writer, "  gdp preserved:       %.4f\n", score.GDPPreserved)
	fmt.Fprintf(formatter.Writer, "  infection control:   %.4f\n", score.InfectionControl)
	fmt.Fprintf(formatter.Writer, "  resource efficiency: %.4f\n", score.ResourceEfficiency)
	fmt.Fprintf(formatter.Writer, "  containment:         %.4f\n", score.Containment)
	fmt.Fprintf(formatter.Writer, "  total:               %.4f\n", score.Total)
	return nil
}
