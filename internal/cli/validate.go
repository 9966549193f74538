package cli

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/plurigrid/funq/internal/compiler"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <docs-dir>",
		Short: "Validate documents without producing artifacts",
		Long: `Validate schema and migration documents, reporting every diagnostic.

Schemas are compiled first; migrations are then checked concurrently, each
against its own compilation, so diagnostics from independent documents do
not mask each other.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *ValidateOptions, docsDir string, cmd *cobra.Command) error {
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
	formatter.VerboseLog("Validating %d schema(s), %d migration(s)",
		len(result.Schemas), len(result.Migrations))

	var diags []Diag
	schemas := make(map[string]*compiler.Schema)
	for _, doc := range result.Schemas {
		s, errs := compiler.CompileSchema(doc)
		if len(errs) > 0 {
			diags = append(diags, diagsFrom("schema."+doc.Name, errs)...)
			continue
		}
		schemas[doc.Name] = s
	}

	// Each migration compiles against its own structures, so the checks are
	// independent and can fan out.
	var mu sync.Mutex
	var g errgroup.Group
	for _, doc := range result.Migrations {
		doc := doc
		g.Go(func() error {
			_, mDiags := compileMigrationDoc(doc, schemas)
			if len(mDiags) > 0 {
				mu.Lock()
				diags = append(diags, mDiags...)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(diags, func(i, j int) bool {
		if diags[i].Field != diags[j].Field {
			return diags[i].Field < diags[j].Field
		}
		return diags[i].Code < diags[j].Code
	})

	if len(diags) > 0 {
		if formatter.Format == "text" {
			fmt.Fprintf(formatter.Writer, "✗ %d problem(s) found\n", len(diags))
		}
		_ = formatter.Diagnostics(diags)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d diagnostic(s)", len(diags)))
	}

	return formatter.Success(fmt.Sprintf("✓ %d schema(s), %d migration(s) valid",
		len(result.Schemas), len(result.Migrations)))
}
