package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plurigrid/funq/internal/statement"
)

// companyYAML is the shared document fixture: a company schema, a one-row
// summary schema, and a trivial migration between them.
const companyYAML = `
schemas:
  - name: company
    objects:
      - name: Emp
      - name: Dept
    morphisms:
      - name: works_in
        src: Emp
        tgt: Dept
  - name: summary
    objects:
      - name: Row
migrations:
  - name: rows
    source: company
    target: summary
    objects:
      - name: Row
        query:
          kind: generator
          name: Emp
`

// badSchemaYAML declares a duplicate object and a morphism with an
// undeclared target, producing exactly two deterministic diagnostics.
const badSchemaYAML = `
schemas:
  - name: bad
    objects:
      - name: Emp
      - name: Emp
    morphisms:
      - name: works_in
        src: Emp
        tgt: Dept
`

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDocumentsYAML(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "company.yaml", companyYAML)

	result, errs := LoadDocuments(dir, LoadModeCollectAll)
	require.Empty(t, errs)
	require.NotNil(t, result)

	assert.Equal(t, 1, result.FileCount)
	require.Len(t, result.Schemas, 2)
	require.Len(t, result.Migrations, 1)

	company := result.SchemaByName("company")
	require.NotNil(t, company)
	require.Len(t, company.Objects, 2)
	require.Len(t, company.Morphisms, 1)
	assert.Equal(t, "works_in", company.Morphisms[0].Name)
	assert.Equal(t, "Emp", company.Morphisms[0].Src)
	assert.Equal(t, "Dept", company.Morphisms[0].Tgt)

	rows := result.MigrationByName("rows")
	require.NotNil(t, rows)
	assert.Equal(t, "company", rows.Source)
	assert.Equal(t, "summary", rows.Target)
	require.Len(t, rows.Objects, 1)
	ref, ok := rows.Objects[0].Query.(statement.GeneratorRef)
	require.True(t, ok, "query should decode to a generator reference")
	assert.Equal(t, "Emp", ref.Name)
}

func TestLoadDocumentsCUE(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "docs.cue", `
package docs

schema: company: {
	objects: [{name: "Emp"}, {name: "Dept"}]
	morphisms: [{name: "works_in", src: "Emp", tgt: "Dept"}]
}

schema: summary: {
	objects: [{name: "Row"}]
}

migration: rows: {
	source: "company"
	target: "summary"
	objects: [{name: "Row", query: {kind: "generator", name: "Emp"}}]
}
`)

	result, errs := LoadDocuments(dir, LoadModeCollectAll)
	require.Empty(t, errs)
	require.NotNil(t, result)

	// Names come from the struct keys when the body omits a name field.
	assert.NotNil(t, result.SchemaByName("company"))
	assert.NotNil(t, result.SchemaByName("summary"))

	rows := result.MigrationByName("rows")
	require.NotNil(t, rows)
	require.Len(t, rows.Objects, 1)
	ref, ok := rows.Objects[0].Query.(statement.GeneratorRef)
	require.True(t, ok)
	assert.Equal(t, "Emp", ref.Name)
}

func TestLoadDocumentsMissingDir(t *testing.T) {
	result, errs := LoadDocuments("/nonexistent/directory/path", LoadModeCollectAll)
	assert.Nil(t, result)
	require.Len(t, errs, 1)

	le, ok := errs[0].(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNotFound, le.Code)
	assert.Contains(t, le.Message, "not found")
}

func TestLoadDocumentsEmptyDir(t *testing.T) {
	result, errs := LoadDocuments(t.TempDir(), LoadModeCollectAll)
	assert.Nil(t, result)
	require.Len(t, errs, 1)

	le, ok := errs[0].(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNoFiles, le.Code)
}

func TestLoadDocumentsBadYAML(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "broken.yaml", "schemas: [\n  {name: ")

	_, errs := LoadDocuments(dir, LoadModeCollectAll)
	require.NotEmpty(t, errs)

	le, ok := errs[0].(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeBadDocument, le.Code)
	assert.Contains(t, le.File, "broken.yaml")
}

func TestLoadDocumentsDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.yaml", "schemas:\n  - name: company\n    objects: [{name: Emp}]\n")
	writeDoc(t, dir, "b.yaml", "schemas:\n  - name: company\n    objects: [{name: Dept}]\n")

	result, errs := LoadDocuments(dir, LoadModeCollectAll)
	require.NotNil(t, result)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "declared more than once")
}

func TestLoadDocumentsFailFastStopsEarly(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a_broken.yaml", "schemas: [\n  {name: ")
	writeDoc(t, dir, "b_broken.yaml", "migrations: [\n  {name: ")

	_, errs := LoadDocuments(dir, LoadModeFailFast)
	assert.Len(t, errs, 1)
}
