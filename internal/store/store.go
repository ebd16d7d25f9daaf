// Package store persists editor content under string keys.
//
// Two implementations exist: Memory, for tests and ephemeral servers, and
// SQLite, which keeps xz-compressed payloads in a single table and skips
// writes whose BLAKE3 digest matches what is already stored.
package store

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zeebo/blake3"
)

// Sentinel errors for store operations.
var (
	ErrNotFound   = errors.New("key not found")
	ErrEmptyKey   = errors.New("key cannot be empty")
	ErrClosed     = errors.New("store is closed")
	ErrOpen       = errors.New("failed to open store")
	ErrCorrupt    = errors.New("stored payload is corrupt")
	ErrUnknownDrv = errors.New("unknown store driver")
)

// Store is a key/value store for document markup.
type Store interface {
	// Load returns the value saved under key, or ErrNotFound.
	Load(ctx context.Context, key string) (string, error)
	// Save stores value under key. It reports whether anything was written:
	// saving an unchanged value is a no-op.
	Save(ctx context.Context, key, value string) (bool, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Digest returns the hex BLAKE3-256 digest of value.
func Digest(value string) string {
	sum := blake3.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// Options configures Open.
type Options struct {
	Driver   string // "sqlite", "memory" or "none"
	Path     string // database file for sqlite
	Compress bool
}

// Open creates the store selected by opts.Driver. The "none" driver returns
// a nil Store and nil error; callers treat that as persistence disabled.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", "sqlite":
		s, err := OpenSQLite(ctx, opts.Path, WithCompression(opts.Compress))
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		return NewMemory(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDrv, opts.Driver)
	}
}
