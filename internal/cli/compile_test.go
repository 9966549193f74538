package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plurigrid/funq/internal/catalog"
)

func runCompileCmd(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout, err
}

func TestCompileValidDocuments(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "company.yaml", companyYAML)

	stdout, err := runCompileCmd(t, "text", dir)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "✓ Compiled 2 schema(s), 1 migration(s)")
	assert.Contains(t, out, "company: 2 object(s), 1 morphism(s), 0 equation(s)")
	assert.Contains(t, out, "rows: company → summary (trivial)")
}

func TestCompileWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "company.yaml", companyYAML)
	outFile := filepath.Join(t.TempDir(), "artifacts.json")

	_, err := runCompileCmd(t, "text", dir, "--output", outFile)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)

	var artifacts []Artifact
	require.NoError(t, json.Unmarshal(data, &artifacts))
	require.Len(t, artifacts, 1)

	a := artifacts[0]
	assert.Equal(t, "rows", a.Name)
	assert.Equal(t, "company", a.Source)
	assert.Equal(t, "summary", a.Target)
	assert.Equal(t, "trivial", a.Kind)
	assert.Len(t, a.Hash, 64)
	assert.Empty(t, a.Externals)
}

func TestCompileStoresInCatalog(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "company.yaml", companyYAML)
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	_, err := runCompileCmd(t, "text", dir, "--db", dbPath)
	require.NoError(t, err)

	cat, err := catalog.Open(dbPath)
	require.NoError(t, err)
	defer cat.Close()

	recs, err := cat.ListMigrations(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "rows", recs[0].Name)
	assert.Equal(t, "trivial", recs[0].Kind)
	assert.NotEmpty(t, recs[0].RunID)
}

func TestCompileIsIdempotentAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "company.yaml", companyYAML)
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	_, err := runCompileCmd(t, "text", dir, "--db", dbPath)
	require.NoError(t, err)
	_, err = runCompileCmd(t, "text", dir, "--db", dbPath)
	require.NoError(t, err)

	cat, err := catalog.Open(dbPath)
	require.NoError(t, err)
	defer cat.Close()

	// Same content hash twice; the second run writes nothing new.
	recs, err := cat.ListMigrations(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestCompileInvalidDocuments(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "bad.yaml", badSchemaYAML)

	stdout, err := runCompileCmd(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout.String(), "✗ Compilation failed")
	assert.Contains(t, stdout.String(), "E102")
}

func TestCompileMissingDirectory(t *testing.T) {
	_, err := runCompileCmd(t, "text", "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCompileJSON(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "company.yaml", companyYAML)

	stdout, err := runCompileCmd(t, "json", dir)
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.NotNil(t, resp.Data)
}
