package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/config"
)

// ValidationResult holds validation results for one config directory.
type ValidationResult struct {
	Valid     bool     `json:"valid"`
	Countries int      `json:"countries"`
	Errors    []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-dir>",
		Short: "Validate country configs without running",
		Long: `Validate every country definition in a directory against the schema.

Checks YAML syntax, field bounds, and cross-country uniqueness without
building a world or touching a database.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		_ = formatter.Error("E_DIR", err.Error(), nil)
		return WrapExitError(ExitCommandError, "read config dir", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	if len(files) == 0 {
		msg := fmt.Sprintf("no country definitions in %s", dir)
		_ = formatter.Error("E_EMPTY", msg, nil)
		return NewExitError(ExitCommandError, msg)
	}
	formatter.VerboseLog("found %d config file(s) in %s", len(files), dir)

	// Validate file by file so one bad country does not hide the rest.
	var errs []string
	seen := make(map[string]string)
	docs := make(map[string]*config.CountryDoc)
	for _, name := range files {
		path := filepath.Join(dir, name)
		doc, err := config.LoadFile(path)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if prev, dup := seen[doc.Name]; dup {
			errs = append(errs, fmt.Sprintf("%s: duplicate country %q (also in %s)", path, doc.Name, prev))
			continue
		}
		seen[doc.Name] = path
		docs[doc.Name] = doc
	}

	if len(errs) > 0 {
		result := ValidationResult{Valid: false, Countries: len(docs), Errors: errs}
		if opts.Format == "json" {
			_ = json.NewEncoder(formatter.Writer).Encode(CLIResponse{
				Status: "error",
				Data:   result,
				Error:  &CLIError{Code: "E_SCHEMA", Message: errs[0]},
			})
		} else {
			fmt.Fprintln(formatter.Writer, "validation failed")
			for _, e := range errs {
				fmt.Fprintf(formatter.Writer, "  %s\n", e)
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	if opts.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Countries: len(docs)})
	}
	fmt.Fprintf(formatter.Writer, "%d countries valid\n\n", len(docs))
	fmt.Fprint(formatter.Writer, config.Summary(docs))
	return nil
}
