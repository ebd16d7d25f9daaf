package main

// Notes:
// - PDF export runs against fakeRenderer; the real browser path is covered
//   by the library's integration tests.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-txt2pdf"
	"github.com/alnah/go-txt2pdf/internal/config"
)

const reportText = "Quarterly Report\n\nRevenue grew in every region.\n"

// ---------------------------------------------------------------------------
// TestRunConvert - End-to-end through run()
// ---------------------------------------------------------------------------

func TestRunConvert_HTML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "report.txt"), reportText)
	env, stdout, _ := testEnv()

	err := run(context.Background(), []string{"txt2pdf", "convert", "--format", "html", in}, env)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	out := readFile(t, filepath.Join(dir, "report.html"))
	for _, want := range []string{"Quarterly Report", "Revenue grew in every region.", "March 5, 2026"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if !strings.Contains(stdout.String(), "Created "+filepath.Join(dir, "report.html")) {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunConvert_PDF(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "report.txt"), reportText)
	out := filepath.Join(dir, "exports", "final.pdf")
	env, _, _ := testEnv()

	if err := run(context.Background(), []string{"txt2pdf", "convert", "-q", "-o", out, in}, env); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := readFile(t, out); got != fakePDF {
		t.Errorf("pdf = %q, want %q", got, fakePDF)
	}
}

func TestRunConvert_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	writeFile(t, filepath.Join(in, "a.txt"), reportText)
	writeFile(t, filepath.Join(in, "sub", "b.txt"), "Another document with a title line\nbody")
	writeFile(t, filepath.Join(in, "notes.md"), "# Ignored")
	out := filepath.Join(dir, "out")
	env, stdout, _ := testEnv()

	err := run(context.Background(), []string{"txt2pdf", "convert", "-f", "md", "-w", "2", "-o", out, in}, env)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	for _, p := range []string{filepath.Join(out, "a.md"), filepath.Join(out, "sub", "b.md")} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s: %v", p, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "notes.md")); err == nil {
		t.Error("markdown input converted without --markdown")
	}
	if !strings.Contains(stdout.String(), "2 succeeded, 0 failed") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunConvert_Markdown(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "plan.md"), "# Plan\n\nShip **it**.\n")
	env, _, _ := testEnv()

	err := run(context.Background(), []string{"txt2pdf", "convert", "--markdown", "--format", "html", in}, env)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	out := readFile(t, filepath.Join(dir, "plan.html"))
	if !strings.Contains(out, "<strong>it</strong>") && !strings.Contains(out, "<b>it</b>") {
		t.Errorf("bold text lost: %s", out)
	}
}

func TestRunConvert_Title(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    string
		notWant string
	}{
		{"explicit title", []string{"--title", "Board Pack"}, "Board Pack", ""},
		{"empty title omits header", []string{"--title="}, "", `class="export-title"`},
		{"detected", nil, "Quarterly Report", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			in := writeFile(t, filepath.Join(dir, "report.txt"), reportText)
			env, _, _ := testEnv()

			args := append([]string{"txt2pdf", "convert", "-f", "html", in}, tt.args...)
			if err := run(context.Background(), args, env); err != nil {
				t.Fatalf("run() error = %v", err)
			}
			out := readFile(t, filepath.Join(dir, "report.html"))
			if tt.want != "" && !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q", tt.want)
			}
			if tt.notWant != "" && strings.Contains(out, tt.notWant) {
				t.Errorf("output should not contain %q", tt.notWant)
			}
		})
	}
}

func TestRunConvert_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := writeFile(t, filepath.Join(dir, "a.txt"), reportText)
	blank := writeFile(t, filepath.Join(dir, "blank.txt"), "  \n\n")
	md := writeFile(t, filepath.Join(dir, "a.md"), "# x")

	tests := []struct {
		name     string
		args     []string
		wantErr  error
		wantCode int
	}{
		{"no input", nil, ErrNoInput, ExitIO},
		{"missing file", []string{filepath.Join(dir, "missing.txt")}, os.ErrNotExist, ExitIO},
		{"markdown without flag", []string{md}, ErrInvalidExtension, ExitUsage},
		{"blank document", []string{"-f", "html", blank}, txt2pdf.ErrEmptyDocument, ExitUsage},
		{"unknown format", []string{"-f", "odt", txt}, config.ErrInvalidValue, ExitUsage},
		{"bad page size", []string{"-p", "b5", txt}, config.ErrInvalidValue, ExitUsage},
		{"bad workers", []string{"--workers=-2", txt}, ErrInvalidWorkerCount, ExitUsage},
		{"bad flag", []string{"--nope", txt}, ErrUsage, ExitUsage},
		{"missing config", []string{"-c", filepath.Join(dir, "none.yaml"), txt}, config.ErrConfigNotFound, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := testEnv()
			err := run(context.Background(), append([]string{"txt2pdf", "convert"}, tt.args...), env)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if got := exitCodeFor(err); got != tt.wantCode {
				t.Errorf("exitCodeFor() = %d, want %d (err %v)", got, tt.wantCode, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConvertBatch - Worker distribution and pool failures
// ---------------------------------------------------------------------------

type failingPool struct{ err error }

func (p failingPool) Acquire(context.Context) (*txt2pdf.Exporter, error) { return nil, p.err }
func (p failingPool) Release(*txt2pdf.Exporter)                          {}
func (p failingPool) Size() int                                          { return 2 }

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		if got := convertBatch(context.Background(), failingPool{}, nil, &conversionParams{}); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})

	t.Run("acquire failure fails every file", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		files := []FileToConvert{{InputPath: "a"}, {InputPath: "b"}, {InputPath: "c"}}
		results := convertBatch(context.Background(), failingPool{err: boom}, files, &conversionParams{})
		for i, r := range results {
			if !errors.Is(r.Err, boom) || r.InputPath != files[i].InputPath {
				t.Errorf("results[%d] = %+v", i, r)
			}
		}
	})

	t.Run("keeps input order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var files []FileToConvert
		for _, name := range []string{"one", "two", "three", "four"} {
			in := writeFile(t, filepath.Join(dir, name+".txt"), "Document called "+name+" for the batch")
			files = append(files, FileToConvert{InputPath: in, OutputPath: filepath.Join(dir, name+".html")})
		}
		pool := txt2pdf.NewExporterPool(2, txt2pdf.WithFormat(txt2pdf.FormatHTML), txt2pdf.WithClock(func() time.Time { return fixedTime }))
		defer func() { _ = pool.Close() }()

		params := &conversionParams{importer: txt2pdf.NewImporter(), format: txt2pdf.FormatHTML}
		results := convertBatch(context.Background(), pool, files, params)
		for i, r := range results {
			if r.Err != nil {
				t.Fatalf("results[%d].Err = %v", i, r.Err)
			}
			if r.InputPath != files[i].InputPath {
				t.Errorf("results[%d].InputPath = %q, want %q", i, r.InputPath, files[i].InputPath)
			}
			if !strings.HasPrefix(r.Title, "Document called") {
				t.Errorf("results[%d].Title = %q", i, r.Title)
			}
		}
		if s := countResults(results); s.Succeeded != 4 || s.Failed != 0 {
			t.Errorf("summary = %+v", s)
		}
	})
}

// ---------------------------------------------------------------------------
// TestPrintResults
// ---------------------------------------------------------------------------

func TestPrintResults(t *testing.T) {
	t.Parallel()

	results := []ConversionResult{
		{InputPath: "a.txt", OutputPath: "a.pdf", Title: "A"},
		{InputPath: "b.txt", Err: txt2pdf.ErrEmptyDocument},
	}

	tests := []struct {
		name       string
		quiet      bool
		verbose    bool
		wantStdout []string
		noStdout   bool
	}{
		{"normal", false, false, []string{"Created a.pdf", "1 succeeded, 1 failed"}, false},
		{"verbose", false, true, []string{`a.txt -> a.pdf "A"`}, false},
		{"quiet", true, false, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			if failed := printResults(results, tt.quiet, tt.verbose, env); failed != 1 {
				t.Errorf("failed = %d, want 1", failed)
			}
			for _, want := range tt.wantStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout missing %q: %q", want, stdout.String())
				}
			}
			if tt.noStdout && stdout.String() != "" {
				t.Errorf("stdout = %q, want empty", stdout.String())
			}
			if !strings.Contains(stderr.String(), "FAILED b.txt") {
				t.Errorf("stderr = %q", stderr.String())
			}
		})
	}
}
