package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plurigrid/funq/internal/catalog"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	DBPath string
	List   bool
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show [hash]",
		Short: "Read a stored artifact back from the catalog",
		Long: `Read a compiled migration artifact back from the catalog by content hash,
or list all stored artifacts with --list.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			hash := ""
			if len(args) == 1 {
				hash = args[0]
			}
			return runShow(opts, hash, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "catalog database path (required)")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list all stored artifacts")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, hash string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	if !opts.List && hash == "" {
		return NewExitError(ExitCommandError, "a content hash or --list is required")
	}

	cat, err := catalog.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Diagnostics([]Diag{{Code: ErrCodeNotFound, Message: err.Error()}})
		return NewExitError(ExitCommandError, err.Error())
	}
	defer cat.Close()
	ctx := context.Background()

	if opts.List {
		recs, err := cat.ListMigrations(ctx)
		if err != nil {
			_ = formatter.Diagnostics([]Diag{{Code: ErrCodeGeneric, Message: err.Error()}})
			return NewExitError(ExitCommandError, err.Error())
		}
		return outputRecordList(formatter, recs)
	}

	rec, err := cat.GetMigration(ctx, hash)
	if errors.Is(err, catalog.ErrNotFound) {
		_ = formatter.Diagnostics([]Diag{{Code: ErrCodeNotFound,
			Message: fmt.Sprintf("no artifact with hash %s", hash)}})
		return NewExitError(ExitCommandError, fmt.Sprintf("no artifact with hash %s", hash))
	}
	if err != nil {
		_ = formatter.Diagnostics([]Diag{{Code: ErrCodeGeneric, Message: err.Error()}})
		return NewExitError(ExitCommandError, err.Error())
	}
	return outputRecord(formatter, rec)
}

func outputRecord(formatter *OutputFormatter, rec *catalog.Record) error {
	if formatter.Format == "json" {
		return formatter.Success(map[string]any{
			"hash":       rec.Hash,
			"name":       rec.Name,
			"source":     rec.Source,
			"target":     rec.Target,
			"kind":       rec.Kind,
			"run_id":     rec.RunID,
			"created_at": rec.CreatedAt,
			"body":       json.RawMessage(rec.Body),
		})
	}
	fmt.Fprintf(formatter.Writer, "%s: %s → %s (%s)\n", rec.Name, rec.Source, rec.Target, rec.Kind)
	fmt.Fprintf(formatter.Writer, "  hash:    %s\n", rec.Hash)
	fmt.Fprintf(formatter.Writer, "  run:     %s\n", rec.RunID)
	fmt.Fprintf(formatter.Writer, "  created: %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(formatter.Writer, "  body:    %s\n", rec.Body)
	return nil
}

func outputRecordList(formatter *OutputFormatter, recs []catalog.Record) error {
	if formatter.Format == "json" {
		return formatter.Success(recs)
	}
	if len(recs) == 0 {
		fmt.Fprintln(formatter.Writer, "catalog is empty")
		return nil
	}
	for _, rec := range recs {
		fmt.Fprintf(formatter.Writer, "%s  %s: %s → %s (%s)\n",
			rec.Hash[:12], rec.Name, rec.Source, rec.Target, rec.Kind)
	}
	return nil
}
