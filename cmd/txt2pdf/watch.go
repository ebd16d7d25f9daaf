package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce groups bursts of writes from editors that save in steps.
const watchDebounce = 200 * time.Millisecond

// watcher re-exports input files when they change.
type watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	exts     []string
	accept   func(path string) bool
	convert  func(ctx context.Context, path string) ConversionResult

	mu      sync.Mutex
	pending map[string]time.Time
}

// newWatcher watches every input: directories recursively, files through
// their parent directory so atomic renames are seen.
func newWatcher(inputs, exts []string, convert func(context.Context, string) ConversionResult) (*watcher, error) {
	files := make(map[string]bool)
	for _, input := range inputs {
		if info, err := os.Stat(input); err == nil && !info.IsDir() {
			files[filepath.Clean(input)] = true
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("starting watcher: %w", err)
	}
	accept := func(path string) bool {
		return files[filepath.Clean(path)] || baseInputFor(path, inputs) != ""
	}
	w := &watcher{
		fsw:      fsw,
		debounce: watchDebounce,
		exts:     exts,
		accept:   accept,
		convert:  convert,
		pending:  make(map[string]time.Time),
	}
	for _, input := range inputs {
		if err := w.add(input); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *watcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.fsw.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		return w.fsw.Add(p)
	})
}

// run processes events until ctx is done. Each settled change is converted
// and reported through report.
func (w *watcher) run(ctx context.Context, report func(ConversionResult), log *slog.Logger) error {
	defer func() { _ = w.fsw.Close() }()

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event, log)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", slog.Any("error", err))

		case now := <-ticker.C:
			for _, path := range w.settled(now) {
				if _, err := os.Stat(path); err != nil {
					continue // removed before it settled
				}
				report(w.convert(ctx, path))
			}
		}
	}
}

func (w *watcher) handle(event fsnotify.Event, log *slog.Logger) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.add(event.Name); err != nil {
				log.Warn("watch directory", slog.String("path", event.Name), slog.Any("error", err))
			}
			return
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !hasExtension(event.Name, w.exts) || !w.accept(event.Name) {
		return
	}
	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// settled removes and returns paths quiet for at least the debounce window.
func (w *watcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, changed := range w.pending {
		if now.Sub(changed) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	return ready
}

// watchInputs re-exports changed files until ctx is cancelled.
func watchInputs(ctx context.Context, inputs []string, output string, exts []string, pool Pool, params *conversionParams, common commonFlags, env *Environment, log *slog.Logger) error {
	w, err := newWatcher(inputs, exts, func(ctx context.Context, path string) ConversionResult {
		return convertChanged(ctx, pool, path, output, inputs, params)
	})
	if err != nil {
		return err
	}

	if !common.quiet {
		fmt.Fprintln(env.Stdout, "Watching for changes (Ctrl+C to stop)...")
	}
	return w.run(ctx, func(r ConversionResult) {
		printResults([]ConversionResult{r}, common.quiet, common.verbose, env)
	}, log)
}

// convertChanged exports one changed file, computing its output path from
// the input it was discovered under.
func convertChanged(ctx context.Context, pool Pool, path, output string, inputs []string, params *conversionParams) ConversionResult {
	outPath := resolveOutputPath(path, output, baseInputFor(path, inputs), params.format)

	exp, err := pool.Acquire(ctx)
	if err != nil {
		return ConversionResult{InputPath: path, Err: err}
	}
	defer pool.Release(exp)

	return convertFile(ctx, exp, FileToConvert{InputPath: path, OutputPath: outPath}, params)
}

// baseInputFor returns the directory input containing path, or "" when
// path was given as a file.
func baseInputFor(path string, inputs []string) string {
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil || !info.IsDir() {
			continue
		}
		if rel, err := filepath.Rel(input, path); err == nil && filepath.IsLocal(rel) {
			return input
		}
	}
	return ""
}
