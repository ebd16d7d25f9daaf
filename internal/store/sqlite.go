package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ulikunitz/xz"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	key        TEXT PRIMARY KEY,
	digest     TEXT NOT NULL,
	compressed INTEGER NOT NULL,
	payload    BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLite stores documents in a single SQLite table.
type SQLite struct {
	db       *sql.DB
	compress bool
	now      func() time.Time
}

var _ Store = (*SQLite)(nil)

// SQLiteOption configures an SQLite store.
type SQLiteOption func(*SQLite)

// WithCompression toggles xz compression of new payloads. Existing rows are
// read regardless of how they were written.
func WithCompression(enabled bool) SQLiteOption {
	return func(s *SQLite) { s.compress = enabled }
}

// OpenSQLite opens (creating if needed) the database at path. The path
// ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string, opts ...SQLiteOption) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", ErrOpen)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("%w: creating directory: %v", ErrOpen, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	// One writer at a time; also keeps ":memory:" on a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range append(pragmas, schema) {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %v", ErrOpen, err)
		}
	}

	s := &SQLite{db: db, compress: true, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *SQLite) Load(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	var (
		digest     string
		compressed bool
		payload    []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT digest, compressed, payload FROM documents WHERE key = ?`, key,
	).Scan(&digest, &compressed, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", s.wrap(err)
	}

	if compressed {
		if payload, err = decompress(payload); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
		}
	}
	value := string(payload)
	if Digest(value) != digest {
		return "", fmt.Errorf("%w: %s: digest mismatch", ErrCorrupt, key)
	}
	return value, nil
}

func (s *SQLite) Save(ctx context.Context, key, value string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	digest := Digest(value)

	var current string
	err := s.db.QueryRowContext(ctx, `SELECT digest FROM documents WHERE key = ?`, key).Scan(&current)
	switch {
	case err == nil && current == digest:
		return false, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return false, s.wrap(err)
	}

	payload := []byte(value)
	if s.compress {
		if payload, err = compress(payload); err != nil {
			return false, fmt.Errorf("compressing %s: %w", key, err)
		}
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO documents (key, digest, compressed, payload, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
	digest = excluded.digest,
	compressed = excluded.compressed,
	payload = excluded.payload,
	updated_at = excluded.updated_at`,
		key, digest, s.compress, payload, s.now().Unix())
	if err != nil {
		return false, s.wrap(err)
	}
	return true, nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, key); err != nil {
		return s.wrap(err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) wrap(err error) error {
	if errors.Is(err, sql.ErrConnDone) || err.Error() == "sql: database is closed" {
		return fmt.Errorf("%w: %v", ErrClosed, err)
	}
	return err
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
