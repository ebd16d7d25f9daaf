package store

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stores returns every implementation under test, freshly opened.
func stores(t *testing.T) map[string]Store {
	t.Helper()

	sq, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	raw, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "raw.db"), WithCompression(false))
	require.NoError(t, err)

	all := map[string]Store{
		"memory":       NewMemory(),
		"sqlite":       sq,
		"sqlite-plain": raw,
	}
	t.Cleanup(func() {
		for _, s := range all {
			_ = s.Close()
		}
	})
	return all
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(ctx, "txt2pdf-content")
			require.ErrorIs(t, err, ErrNotFound)

			markup := `<h1>Notes</h1><p style="color:red">caf&eacute; ✓</p>` + strings.Repeat("<p>line</p>", 200)
			wrote, err := s.Save(ctx, "txt2pdf-content", markup)
			require.NoError(t, err)
			assert.True(t, wrote)

			got, err := s.Load(ctx, "txt2pdf-content")
			require.NoError(t, err)
			assert.Equal(t, markup, got, "content must be restored verbatim")

			wrote, err = s.Save(ctx, "txt2pdf-content", markup)
			require.NoError(t, err)
			assert.False(t, wrote, "unchanged content should not be rewritten")

			wrote, err = s.Save(ctx, "txt2pdf-content", "<p>changed</p>")
			require.NoError(t, err)
			assert.True(t, wrote)

			require.NoError(t, s.Delete(ctx, "txt2pdf-content"))
			require.NoError(t, s.Delete(ctx, "txt2pdf-content"), "deleting twice is fine")
			_, err = s.Load(ctx, "txt2pdf-content")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_EmptyKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(ctx, "")
			assert.ErrorIs(t, err, ErrEmptyKey)
			_, err = s.Save(ctx, "", "x")
			assert.ErrorIs(t, err, ErrEmptyKey)
			assert.ErrorIs(t, s.Delete(ctx, ""), ErrEmptyKey)
		})
	}
}

func TestStore_EmptyValueIsStored(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Save(ctx, "k", "")
			require.NoError(t, err)
			got, err := s.Load(ctx, "k")
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "autosave.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	_, err = s.Save(ctx, "doc", "<p>kept</p>")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopen without compression: old compressed rows must still load.
	s, err = OpenSQLite(ctx, path, WithCompression(false))
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "<p>kept</p>", got)
}

func TestSQLite_CompressesPayload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)
	defer s.Close()

	value := strings.Repeat("<p>same paragraph again</p>", 500)
	_, err = s.Save(ctx, "doc", value)
	require.NoError(t, err)

	var size int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT length(payload) FROM documents WHERE key = 'doc'`).Scan(&size))
	assert.Less(t, size, len(value)/10)
}

func TestSQLite_DetectsCorruption(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "x.db"), WithCompression(false))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Save(ctx, "doc", "<p>original</p>")
	require.NoError(t, err)
	_, err = s.db.ExecContext(ctx, `UPDATE documents SET payload = ? WHERE key = 'doc'`, []byte("<p>tampered</p>"))
	require.NoError(t, err)

	_, err = s.Load(ctx, "doc")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestSQLite_OpenErrors(t *testing.T) {
	t.Parallel()

	_, err := OpenSQLite(context.Background(), "")
	assert.ErrorIs(t, err, ErrOpen)
}

func TestMemory_Closed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewMemory()
	require.NoError(t, m.Close())
	_, err := m.Load(ctx, "k")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = m.Save(ctx, "k", "v")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemory_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemory().Save(ctx, "k", "v")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemory_ConcurrentSaves(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Save(ctx, "k", strings.Repeat("x", i))
		}()
	}
	wg.Wait()

	_, err := m.Load(ctx, "k")
	assert.NoError(t, err)
}

func TestOpen_Drivers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := Open(ctx, Options{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, Options{Driver: "none"})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Open(ctx, Options{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "a.db"), Compress: true})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Options{Driver: "redis"})
	assert.ErrorIs(t, err, ErrUnknownDrv)
}

func TestDigest(t *testing.T) {
	t.Parallel()

	a := Digest("<p>a</p>")
	assert.Len(t, a, 64)
	assert.Equal(t, a, Digest("<p>a</p>"))
	assert.NotEqual(t, a, Digest("<p>b</p>"))
}
