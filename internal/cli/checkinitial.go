package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plurigrid/funq/internal/compiler"
	"github.com/plurigrid/funq/internal/initial"
)

// CheckInitialOptions holds flags for the check-initial command.
type CheckInitialOptions struct {
	*RootOptions
	Migration string // migration document to interpret as a schema functor
}

// InitialReport is the JSON shape of a check-initial result.
type InitialReport struct {
	Migration string        `json:"migration"`
	Initial   bool          `json:"initial"`
	Slices    []SliceReport `json:"slices"`
}

// SliceReport summarizes the comma category over one codomain object.
type SliceReport struct {
	Object     string `json:"object"`
	Size       int    `json:"size"`
	Components int    `json:"components"`
}

// NewCheckInitialCommand creates the check-initial command.
func NewCheckInitialCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckInitialOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check-initial <docs-dir>",
		Short: "Check whether a schema functor is initial",
		Long: `Interpret a migration document as a schema functor and check initiality.

A functor is initial when every comma category over a codomain object is
non-empty and connected; restricting a colimit along an initial functor
leaves its value unchanged. The migration's assignments must all be bare
generators and plain paths, and both schemas must be free.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckInitial(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Migration, "migration", "m", "", "migration document name (required)")
	_ = cmd.MarkFlagRequired("migration")

	return cmd
}

func runCheckInitial(opts *CheckInitialOptions, docsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, loadErrs := LoadDocuments(docsDir, LoadModeCollectAll)
	if result == nil || len(loadErrs) > 0 {
		return outputLoadErrors(formatter, loadErrs)
	}

	doc := result.MigrationByName(opts.Migration)
	if doc == nil {
		_ = formatter.Diagnostics([]Diag{{Code: ErrCodeNotFound,
			Message: fmt.Sprintf("no migration named %q", opts.Migration)}})
		return NewExitError(ExitCommandError, fmt.Sprintf("no migration named %q", opts.Migration))
	}
	srcDoc := result.SchemaByName(doc.Source)
	tgtDoc := result.SchemaByName(doc.Target)
	if srcDoc == nil || tgtDoc == nil {
		_ = formatter.Diagnostics([]Diag{{Code: ErrCodeNotFound,
			Message: fmt.Sprintf("migration %q references schemas %q and %q; both must be loaded",
				doc.Name, doc.Source, doc.Target)}})
		return NewExitError(ExitCommandError, "referenced schemas not loaded")
	}

	F, errs := compiler.CompileFunctor(doc, srcDoc, tgtDoc)
	if len(errs) > 0 {
		_ = formatter.Diagnostics(diagsFrom("migration."+doc.Name, errs))
		return NewExitError(ExitFailure, fmt.Sprintf("functor compilation failed with %d diagnostic(s)", len(errs)))
	}

	report, err := initial.Check(F)
	if err != nil {
		_ = formatter.Diagnostics([]Diag{{Code: ErrCodeGeneric, Message: err.Error()}})
		return NewExitError(ExitFailure, err.Error())
	}

	out := InitialReport{Migration: doc.Name, Initial: report.Initial}
	for _, s := range report.Slices {
		out.Slices = append(out.Slices, SliceReport{
			Object:     F.Codom().ObjectName(s.Target),
			Size:       s.Size,
			Components: s.Components,
		})
	}

	if formatter.Format == "json" {
		if err := formatter.Success(out); err != nil {
			return err
		}
	} else {
		if report.Initial {
			fmt.Fprintf(formatter.Writer, "✓ %s is initial\n", doc.Name)
		} else {
			fmt.Fprintf(formatter.Writer, "✗ %s is not initial\n", doc.Name)
		}
		for _, s := range out.Slices {
			status := "connected"
			if s.Size == 0 {
				status = "empty"
			} else if s.Components > 1 {
				status = fmt.Sprintf("%d components", s.Components)
			}
			fmt.Fprintf(formatter.Writer, "  %s: %d object(s), %s\n", s.Object, s.Size, status)
		}
	}

	if !report.Initial {
		return NewExitError(ExitFailure, fmt.Sprintf("%s is not initial", doc.Name))
	}
	return nil
}
