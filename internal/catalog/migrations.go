package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/plurigrid/funq/internal/compiler"
	"github.com/plurigrid/funq/internal/statement"
)

// ErrNotFound is returned when no artifact matches the requested hash.
var ErrNotFound = errors.New("catalog: artifact not found")

// Record is one stored migration artifact.
type Record struct {
	Hash      string
	Name      string
	Source    string
	Target    string
	Kind      string
	Body      []byte // canonical JSON of the migration document
	RunID     string
	CreatedAt time.Time
}

// Run is one recorded compiler invocation.
type Run struct {
	ID        string
	StartedAt time.Time
}

// BeginRun records a new compile run and returns its uuid.
func (c *Catalog) BeginRun(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if _, err := c.db.ExecContext(ctx,
		`INSERT INTO compile_runs (id) VALUES (?)`, id); err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// PutMigration stores a compiled migration under its content hash. Storing
// an artifact that already exists is a no-op: content addressing makes the
// write idempotent.
func (c *Catalog) PutMigration(ctx context.Context, runID string,
	m *compiler.Migration, doc *statement.MigrationDoc) error {

	body, err := statement.CanonicalMigration(doc)
	if err != nil {
		return fmt.Errorf("put migration: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO migrations (hash, name, source, target, kind, body, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`,
		m.Hash,
		m.Name,
		m.Source.Name,
		m.Target.Name,
		m.Kind.String(),
		string(body),
		runID,
	)
	if err != nil {
		return fmt.Errorf("put migration: %w", err)
	}
	return nil
}

// GetMigration fetches one artifact by content hash.
func (c *Catalog) GetMigration(ctx context.Context, hash string) (*Record, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT hash, name, source, target, kind, body, run_id, created_at
		FROM migrations WHERE hash = ?
	`, hash)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get migration: %w", err)
	}
	return rec, nil
}

// ListMigrations returns all stored artifacts, newest first.
func (c *Catalog) ListMigrations(ctx context.Context) ([]Record, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT hash, name, source, target, kind, body, run_id, created_at
		FROM migrations ORDER BY created_at DESC, hash
	`)
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list migrations: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	return out, nil
}

// RecentRuns returns the most recent compile runs, newest first.
func (c *Catalog) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, started_at FROM compile_runs
		ORDER BY started_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started); err != nil {
			return nil, fmt.Errorf("recent runs: %w", err)
		}
		r.StartedAt, err = parseTimestamp(started)
		if err != nil {
			return nil, fmt.Errorf("recent runs: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var body, created string
	if err := row.Scan(&rec.Hash, &rec.Name, &rec.Source, &rec.Target,
		&rec.Kind, &body, &rec.RunID, &created); err != nil {
		return nil, err
	}
	rec.Body = []byte(body)
	var err error
	rec.CreatedAt, err = parseTimestamp(created)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02T15:04:05.999Z", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return t, nil
}
