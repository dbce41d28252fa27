package remote

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current index schema version. Bump this when the
// schema changes; stale caches must be deleted and refetched.
const schemaVersion = 1

// ErrSchemaMismatch indicates the index schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrNotCached indicates the requested URL has no index entry.
var ErrNotCached = errors.New("resource not cached")

// Resource describes one cached download.
type Resource struct {
	ID        string
	URL       string
	Path      string
	Size      int64
	SHA256    string
	FetchedAt time.Time
}

// Index manages cache persistence backed by SQLite.
type Index struct {
	db   *sql.DB
	path string
}

// OpenIndex initializes or connects to the cache index inside dir.
func OpenIndex(dir string) (*Index, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	dbPath := filepath.Join(dir, "index.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	index := &Index{db: db, path: dbPath}
	if err := index.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return index, nil
}

func (ix *Index) initSchema(ctx context.Context) error {
	var tableExists int
	err := ix.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := ix.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	err = ix.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: index has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, ix.path)
	}
	return nil
}

// Path returns the location of the index database file.
func (ix *Index) Path() string {
	return ix.path
}

// Close closes the underlying database connection.
func (ix *Index) Close() error {
	if ix == nil || ix.db == nil {
		return nil
	}
	return ix.db.Close()
}

// Lookup returns the cached resource for url, or ErrNotCached.
func (ix *Index) Lookup(ctx context.Context, url string) (*Resource, error) {
	row := ix.db.QueryRowContext(ctx,
		`SELECT id, url, path, size, sha256, fetched_at FROM resources WHERE url = ?`, url)
	res, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, fmt.Errorf("lookup resource: %w", err)
	}
	return res, nil
}

// Record inserts or replaces the index entry for res.URL.
func (ix *Index) Record(ctx context.Context, res *Resource) error {
	if res == nil {
		return errors.New("record requires a resource")
	}
	_, err := ix.db.ExecContext(ctx,
		`INSERT INTO resources (id, url, path, size, sha256, fetched_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(url) DO UPDATE SET
             id = excluded.id,
             path = excluded.path,
             size = excluded.size,
             sha256 = excluded.sha256,
             fetched_at = excluded.fetched_at`,
		res.ID, res.URL, res.Path, res.Size, res.SHA256,
		res.FetchedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record resource: %w", err)
	}
	return nil
}

// Remove drops the index entry for url. Removing an unknown URL is not an error.
func (ix *Index) Remove(ctx context.Context, url string) error {
	if _, err := ix.db.ExecContext(ctx, `DELETE FROM resources WHERE url = ?`, url); err != nil {
		return fmt.Errorf("remove resource: %w", err)
	}
	return nil
}

// All returns every cached resource ordered by fetch time, newest first.
func (ix *Index) All(ctx context.Context) ([]*Resource, error) {
	rows, err := ix.db.QueryContext(ctx,
		`SELECT id, url, path, size, sha256, fetched_at FROM resources ORDER BY fetched_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var resources []*Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resources: %w", err)
	}
	return resources, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResource(row rowScanner) (*Resource, error) {
	var res Resource
	var fetchedAt string
	if err := row.Scan(&res.ID, &res.URL, &res.Path, &res.Size, &res.SHA256, &fetchedAt); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("parse fetched_at %q: %w", fetchedAt, err)
	}
	res.FetchedAt = parsed
	return &res, nil
}
