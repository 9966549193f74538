package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedCatalog compiles the shared fixture into a fresh catalog and returns
// the database path along with the stored migration hash.
func seedCatalog(t *testing.T) (dbPath, hash string) {
	t.Helper()
	dir := t.TempDir()
	writeDoc(t, dir, "company.yaml", companyYAML)
	dbPath = filepath.Join(t.TempDir(), "catalog.db")
	outFile := filepath.Join(t.TempDir(), "artifacts.json")

	_, err := runCompileCmd(t, "text", dir, "--db", dbPath, "--output", outFile)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var artifacts []Artifact
	require.NoError(t, json.Unmarshal(data, &artifacts))
	require.Len(t, artifacts, 1)
	return dbPath, artifacts[0].Hash
}

func runShowCmd(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewShowCommand(rootOpts)
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout, err
}

func TestShowByHash(t *testing.T) {
	dbPath, hash := seedCatalog(t)

	stdout, err := runShowCmd(t, "text", hash, "--db", dbPath)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "rows: company → summary (trivial)")
	assert.Contains(t, out, hash)
	assert.Contains(t, out, "body:")
}

func TestShowByHashJSON(t *testing.T) {
	dbPath, hash := seedCatalog(t)

	stdout, err := runShowCmd(t, "json", hash, "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Hash string          `json:"hash"`
			Name string          `json:"name"`
			Kind string          `json:"kind"`
			Body json.RawMessage `json:"body"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, hash, resp.Data.Hash)
	assert.Equal(t, "rows", resp.Data.Name)
	assert.Equal(t, "trivial", resp.Data.Kind)

	// The stored body is the canonical document, not an opaque blob.
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Data.Body, &body))
	assert.Equal(t, "rows", body["name"])
}

func TestShowList(t *testing.T) {
	dbPath, hash := seedCatalog(t)

	stdout, err := runShowCmd(t, "text", "--db", dbPath, "--list")
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, hash[:12])
	assert.Contains(t, out, "rows: company → summary (trivial)")
}

func TestShowListEmptyCatalog(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	stdout, err := runShowCmd(t, "text", "--db", dbPath, "--list")
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "catalog is empty")
}

func TestShowUnknownHash(t *testing.T) {
	dbPath, _ := seedCatalog(t)

	stdout, err := runShowCmd(t, "text", "0000000000000000000000000000000000000000000000000000000000000000", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout.String(), "no artifact with hash")
}

func TestShowNeedsHashOrList(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	_, err := runShowCmd(t, "text", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "a content hash or --list is required")
}
