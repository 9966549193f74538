package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/plurigrid/funq/internal/catalog"
	"github.com/plurigrid/funq/internal/compiler"
	"github.com/plurigrid/funq/internal/statement"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path for artifact summaries
	DBPath string // catalog database path; empty disables storage
}

// Artifact is the externally visible summary of one compiled migration.
type Artifact struct {
	Name      string                 `json:"name"`
	Hash      string                 `json:"hash"`
	Source    string                 `json:"source"`
	Target    string                 `json:"target"`
	Kind      string                 `json:"kind"`
	Externals []compiler.ExternalRef `json:"externals,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <docs-dir>",
		Short: "Compile schema and migration documents into artifacts",
		Long: `Compile schema and migration documents into content-addressed artifacts.

Schemas become finitely-presented categories; migrations become query
diagrams with a promoted kind and per-generator homomorphisms.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "catalog database path")

	return cmd
}

func runCompile(opts *CompileOptions, docsDir string, cmd *cobra.Command) error {
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
	formatter.VerboseLog("Found %d document file(s) in %s", result.FileCount, docsDir)

	schemas, migrations, diags := compileAll(result, formatter)
	if len(diags) > 0 {
		if formatter.Format == "text" {
			fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
		}
		_ = formatter.Diagnostics(diags)
		return NewExitError(ExitFailure, fmt.Sprintf("compilation failed with %d diagnostic(s)", len(diags)))
	}

	artifacts := make([]Artifact, 0, len(migrations))
	for _, m := range migrations {
		artifacts = append(artifacts, Artifact{
			Name:      m.Name,
			Hash:      m.Hash,
			Source:    m.Source.Name,
			Target:    m.Target.Name,
			Kind:      m.Kind.String(),
			Externals: m.Externals,
		})
	}

	if opts.DBPath != "" {
		if err := storeArtifacts(opts.DBPath, result, migrations); err != nil {
			_ = formatter.Diagnostics([]Diag{{Code: ErrCodeWriteFailed, Message: err.Error()}})
			return NewExitError(ExitCommandError, err.Error())
		}
		formatter.VerboseLog("Stored %d artifact(s) in %s", len(migrations), opts.DBPath)
	}
	if opts.Output != "" {
		data, err := json.MarshalIndent(artifacts, "", "  ")
		if err != nil {
			return NewExitError(ExitCommandError, fmt.Sprintf("marshaling artifacts: %v", err))
		}
		if err := os.WriteFile(opts.Output, append(data, '\n'), 0o644); err != nil {
			_ = formatter.Diagnostics([]Diag{{Code: ErrCodeWriteFailed, Message: err.Error()}})
			return NewExitError(ExitCommandError, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputCompileSuccess(formatter, schemas, artifacts, opts.Output)
}

// compileAll compiles every schema, then every migration against its named
// schemas. Diagnostics from all documents are merged.
func compileAll(result *LoadResult, formatter *OutputFormatter) (map[string]*compiler.Schema, []*compiler.Migration, []Diag) {
	var diags []Diag

	schemas := make(map[string]*compiler.Schema)
	for _, doc := range result.Schemas {
		formatter.VerboseLog("Compiling schema: %s", doc.Name)
		s, errs := compiler.CompileSchema(doc)
		if len(errs) > 0 {
			diags = append(diags, diagsFrom("schema."+doc.Name, errs)...)
			continue
		}
		schemas[doc.Name] = s
	}

	var migrations []*compiler.Migration
	for _, doc := range result.Migrations {
		formatter.VerboseLog("Compiling migration: %s", doc.Name)
		m, mDiags := compileMigrationDoc(doc, schemas)
		if len(mDiags) > 0 {
			diags = append(diags, mDiags...)
			continue
		}
		migrations = append(migrations, m)
	}
	return schemas, migrations, diags
}

func compileMigrationDoc(doc *statement.MigrationDoc, schemas map[string]*compiler.Schema) (*compiler.Migration, []Diag) {
	prefix := "migration." + doc.Name
	source, okS := schemas[doc.Source]
	target, okT := schemas[doc.Target]
	var diags []Diag
	if !okS {
		diags = append(diags, Diag{Code: compiler.ErrSchemaMismatch, Field: prefix + ".source",
			Message: fmt.Sprintf("unknown source schema %q", doc.Source)})
	}
	if !okT {
		diags = append(diags, Diag{Code: compiler.ErrSchemaMismatch, Field: prefix + ".target",
			Message: fmt.Sprintf("unknown target schema %q", doc.Target)})
	}
	if len(diags) > 0 {
		return nil, diags
	}
	m, errs := compiler.CompileMigration(doc, source, target)
	if len(errs) > 0 {
		return nil, diagsFrom(prefix, errs)
	}
	return m, nil
}

func diagsFrom(prefix string, errs []compiler.ValidationError) []Diag {
	diags := make([]Diag, len(errs))
	for i, e := range errs {
		diags[i] = Diag{Code: e.Code, Field: prefix + "." + e.Field, Message: e.Message}
	}
	return diags
}

func storeArtifacts(dbPath string, result *LoadResult, migrations []*compiler.Migration) error {
	cat, err := catalog.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer cat.Close()

	ctx := context.Background()
	run, err := cat.BeginRun(ctx)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		doc := result.MigrationByName(m.Name)
		if doc == nil {
			return fmt.Errorf("no document for migration %q", m.Name)
		}
		if err := cat.PutMigration(ctx, run, m, doc); err != nil {
			return err
		}
	}
	return nil
}

func outputCompileSuccess(formatter *OutputFormatter, schemas map[string]*compiler.Schema, artifacts []Artifact, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(artifacts)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d schema(s), %d migration(s)\n\n",
		len(schemas), len(artifacts))

	if len(schemas) > 0 {
		names := make([]string, 0, len(schemas))
		for name := range schemas {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintln(formatter.Writer, "Schemas:")
		for _, name := range names {
			s := schemas[name]
			fmt.Fprintf(formatter.Writer, "  %s: %d object(s), %d morphism(s), %d equation(s)\n",
				name, len(s.Cat.ObjectGenerators()), len(s.Cat.MorphismGenerators()), len(s.Cat.Equations()))
		}
		fmt.Fprintln(formatter.Writer)
	}

	if len(artifacts) > 0 {
		fmt.Fprintln(formatter.Writer, "Migrations:")
		for _, a := range artifacts {
			fmt.Fprintf(formatter.Writer, "  %s: %s → %s (%s) %s\n",
				a.Name, a.Source, a.Target, a.Kind, a.Hash[:12])
		}
		fmt.Fprintln(formatter.Writer)
	}

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote artifacts to %s\n", outputFile)
	}
	return nil
}

func outputLoadErrors(formatter *OutputFormatter, errs []error) error {
	diags := make([]Diag, len(errs))
	for i, err := range errs {
		if le, ok := err.(*LoadError); ok {
			diags[i] = Diag{Code: le.Code, Field: le.File, Message: le.Message}
		} else {
			diags[i] = Diag{Code: ErrCodeGeneric, Message: err.Error()}
		}
	}
	_ = formatter.Diagnostics(diags)
	return NewExitError(ExitCommandError, fmt.Sprintf("loading documents failed with %d error(s)", len(errs)))
}
