package main

// Notes:
// - The end-to-end test relies on real filesystem notifications; it waits up
//   to five seconds for the export to appear.

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-txt2pdf"
)

// ---------------------------------------------------------------------------
// TestWatcherDebounce
// ---------------------------------------------------------------------------

func newTestWatcher(t *testing.T, inputs []string) *watcher {
	t.Helper()
	w, err := newWatcher(inputs, inputExtensions(false), func(context.Context, string) ConversionResult {
		return ConversionResult{}
	})
	if err != nil {
		t.Fatalf("newWatcher() error = %v", err)
	}
	t.Cleanup(func() { _ = w.fsw.Close() })
	return w
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := newTestWatcher(t, []string{dir})
	log := slog.New(slog.DiscardHandler)
	path := filepath.Join(dir, "a.txt")

	w.handle(fsnotify.Event{Name: path, Op: fsnotify.Write}, log)
	w.handle(fsnotify.Event{Name: filepath.Join(dir, "a.log"), Op: fsnotify.Write}, log)
	w.handle(fsnotify.Event{Name: filepath.Join(dir, "b.txt"), Op: fsnotify.Remove}, log)
	w.handle(fsnotify.Event{Name: filepath.Join(t.TempDir(), "c.txt"), Op: fsnotify.Write}, log)

	if got := w.settled(time.Now()); len(got) != 0 {
		t.Errorf("settled immediately: %v", got)
	}
	got := w.settled(time.Now().Add(w.debounce))
	if len(got) != 1 || got[0] != path {
		t.Errorf("settled = %v, want [%s]", got, path)
	}
	if again := w.settled(time.Now().Add(time.Hour)); len(again) != 0 {
		t.Errorf("settled twice: %v", again)
	}
}

func TestWatcherFileInputIgnoresSiblings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "watched.txt"), "x")
	w := newTestWatcher(t, []string{in})
	log := slog.New(slog.DiscardHandler)

	w.handle(fsnotify.Event{Name: filepath.Join(dir, "sibling.txt"), Op: fsnotify.Write}, log)
	w.handle(fsnotify.Event{Name: in, Op: fsnotify.Create}, log)

	got := w.settled(time.Now().Add(time.Hour))
	if len(got) != 1 || got[0] != in {
		t.Errorf("settled = %v, want [%s]", got, in)
	}
}

func TestBaseInputFor(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := writeFile(t, filepath.Join(dir, "one.txt"), "x")

	if got := baseInputFor(filepath.Join(dir, "sub", "a.txt"), []string{file, dir}); got != dir {
		t.Errorf("baseInputFor() = %q, want %q", got, dir)
	}
	if got := baseInputFor(file, []string{file}); got != "" {
		t.Errorf("baseInputFor(file input) = %q, want empty", got)
	}
	if got := baseInputFor("/elsewhere/a.txt", []string{dir}); got != "" {
		t.Errorf("baseInputFor(outside) = %q, want empty", got)
	}
}

// ---------------------------------------------------------------------------
// TestWatchInputs - Re-export on change
// ---------------------------------------------------------------------------

func TestWatchInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "live.txt"), "First version of the document")
	out := filepath.Join(dir, "live.html")
	env, stdout, _ := testEnv()

	pool := txt2pdf.NewExporterPool(1, txt2pdf.WithFormat(txt2pdf.FormatHTML), txt2pdf.WithClock(env.Now))
	defer func() { _ = pool.Close() }()
	params := &conversionParams{importer: txt2pdf.NewImporter(), format: txt2pdf.FormatHTML}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchInputs(ctx, []string{in}, "", inputExtensions(false), pool, params, commonFlags{}, env, slog.New(slog.DiscardHandler))
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(stdout.String(), "Watching") {
		if time.Now().After(deadline) {
			t.Fatal("watcher did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := os.WriteFile(in, []byte("Second version of the document"), 0o644); err != nil {
		t.Fatal(err)
	}

	for {
		data, err := os.ReadFile(out)
		if err == nil && strings.Contains(string(data), "Second version") {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("export not updated; stdout = %q", stdout.String())
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watchInputs() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "Created "+out) {
		t.Errorf("stdout = %q", stdout.String())
	}
}
