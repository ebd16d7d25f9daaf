package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-txt2pdf"
)

// ---------------------------------------------------------------------------
// Test Environment
// ---------------------------------------------------------------------------

var fixedTime = time.Date(2026, 3, 5, 14, 7, 9, 0, time.UTC)

// syncBuffer is a bytes.Buffer safe for the concurrent writes of the watch
// loop and the test reading it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testEnv returns an environment writing to buffers with a fixed clock and
// a fake PDF renderer.
func testEnv() (*Environment, *syncBuffer, *syncBuffer) {
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	env := &Environment{
		Now:             func() time.Time { return fixedTime },
		Stdout:          stdout,
		Stderr:          stderr,
		ExporterOptions: []txt2pdf.Option{txt2pdf.WithRenderer(&fakeRenderer{})},
	}
	return env, stdout, stderr
}

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

const fakePDF = "%PDF-1.4 fake"

type fakeRenderer struct {
	mu    sync.Mutex
	calls int
}

func (r *fakeRenderer) Render(ctx context.Context, _ string, _ *txt2pdf.RenderOptions) ([]byte, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte(fakePDF), nil
}

func (r *fakeRenderer) Close() error { return nil }

// ---------------------------------------------------------------------------
// File Helpers
// ---------------------------------------------------------------------------

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
