package txt2pdf

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fumiama/go-docx"

	"github.com/alnah/go-txt2pdf/internal/document"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

// mockSurface implements Surface over a fixed markup string and records
// layout changes.
type mockSurface struct {
	mu      sync.Mutex
	content string
	layout  Layout
	layouts []Layout
}

func (m *mockSurface) ApplyCommand(name, value string) error { return nil }
func (m *mockSurface) QueryState() State                     { return State{} }
func (m *mockSurface) Content() string                       { return m.content }

func (m *mockSurface) SetContent(markup string) error {
	m.content = markup
	return nil
}

func (m *mockSurface) PlainText() string {
	return document.MustParse(m.content).PlainText()
}

func (m *mockSurface) Layout() Layout {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.layout
}

func (m *mockSurface) SetLayout(l Layout) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layout = l
	m.layouts = append(m.layouts, l)
}

// mockRenderer implements Renderer for testing.
type mockRenderer struct {
	mu       sync.Mutex
	result   []byte
	err      error
	panicMsg string
	block    chan struct{} // when set, Render waits for close or ctx
	started  chan struct{} // closed on first Render call
	calls    int
	page     string
	opts     *RenderOptions
	closed   bool
}

func (m *mockRenderer) Render(ctx context.Context, page string, opts *RenderOptions) ([]byte, error) {
	m.mu.Lock()
	m.calls++
	m.page, m.opts = page, opts
	if m.started != nil && m.calls == 1 {
		close(m.started)
	}
	m.mu.Unlock()

	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.result, m.err
}

func (m *mockRenderer) Close() error {
	m.closed = true
	return nil
}

func (m *mockRenderer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var fixedTime = time.Date(2026, 3, 5, 14, 7, 9, 0, time.UTC)

func newTestExporter(t *testing.T, r Renderer, opts ...Option) *Exporter {
	t.Helper()
	all := append([]Option{WithRenderer(r), WithClock(func() time.Time { return fixedTime })}, opts...)
	e, err := NewExporter(all...)
	if err != nil {
		t.Fatalf("NewExporter() error: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

var editingLayout = Layout{Height: "500px", Overflow: "auto", ScrollTop: 120}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNewExporter_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"unknown format", []Option{WithFormat("odt")}, ErrUnknownFormat},
		{"unknown theme", []Option{WithTheme("neon")}, ErrThemeNotFound},
		{"bad scale", []Option{WithRenderOptions(RenderOptions{Scale: 9, ImageQuality: 0.5})}, ErrInvalidScale},
		{"bad quality", []Option{WithRenderOptions(RenderOptions{Scale: 1, ImageQuality: 0})}, ErrInvalidQuality},
		{"bad page", []Option{WithRenderOptions(RenderOptions{Page: &PageSettings{Size: "b5", Orientation: "portrait"}, Scale: 1, ImageQuality: 1})}, ErrInvalidPageSize},
		{"missing asset path", []Option{WithAssetPath("/nonexistent/txt2pdf/assets")}, ErrInvalidAssetPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewExporter(tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewExporter() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) should panic")
		}
	}()
	WithTimeout(0)
}

// ---------------------------------------------------------------------------
// Rejections before side effects
// ---------------------------------------------------------------------------

func TestExport_EmptyDocument(t *testing.T) {
	t.Parallel()

	for _, markup := range []string{"", "<p>   </p>", "<br><br>", "<hr>"} {
		r := &mockRenderer{result: []byte("%PDF")}
		e := newTestExporter(t, r)
		s := &mockSurface{content: markup, layout: editingLayout}

		_, err := e.Export(context.Background(), s, "Title")
		if !errors.Is(err, ErrEmptyDocument) {
			t.Errorf("Export(%q) error = %v, want ErrEmptyDocument", markup, err)
		}
		if r.callCount() != 0 {
			t.Errorf("Export(%q) invoked the renderer", markup)
		}
		if len(s.layouts) != 0 {
			t.Errorf("Export(%q) changed the layout: %v", markup, s.layouts)
		}
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t, &mockRenderer{})
	_, err := e.ExportWith(context.Background(), &mockSurface{content: "<p>x</p>"}, ExportRequest{Format: "rtf"})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("error = %v, want ErrUnknownFormat", err)
	}
}

// ---------------------------------------------------------------------------
// Layout restore
// ---------------------------------------------------------------------------

func TestExport_RestoresLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		renderer *mockRenderer
		wantErr  bool
	}{
		{"success", &mockRenderer{result: []byte("%PDF-1.4")}, false},
		{"renderer failure", &mockRenderer{err: errors.New("content too large")}, true},
		{"renderer panic", &mockRenderer{panicMsg: "boom"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newTestExporter(t, tt.renderer)
			s := &mockSurface{content: "<p>Some content here.</p>", layout: editingLayout}

			_, err := e.Export(context.Background(), s, "Report")
			if tt.wantErr {
				if !errors.Is(err, ErrExportFailed) {
					t.Fatalf("error = %v, want ErrExportFailed", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := s.Layout(); got != editingLayout {
				t.Errorf("layout after export = %+v, want %+v", got, editingLayout)
			}
			if len(s.layouts) != 2 || s.layouts[0] != expandedLayout {
				t.Errorf("layout changes = %+v, want expand then restore", s.layouts)
			}
			if e.Busy() {
				t.Error("exporter still busy after return")
			}
		})
	}
}

func TestExport_WithoutScrollRestore(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t, &mockRenderer{result: []byte("%PDF")}, WithRestoreScroll(false))
	s := &mockSurface{content: "<p>Some content here.</p>", layout: editingLayout}

	if _, err := e.Export(context.Background(), s, ""); err != nil {
		t.Fatal(err)
	}
	got := s.Layout()
	if got.Height != editingLayout.Height || got.Overflow != editingLayout.Overflow {
		t.Errorf("height/overflow not restored: %+v", got)
	}
	if got.ScrollTop != 0 {
		t.Errorf("ScrollTop = %d, want 0 without scroll restore", got.ScrollTop)
	}
}

// ---------------------------------------------------------------------------
// Concurrency and cancellation
// ---------------------------------------------------------------------------

func TestExport_SingleFlight(t *testing.T) {
	t.Parallel()

	r := &mockRenderer{result: []byte("%PDF"), block: make(chan struct{}), started: make(chan struct{})}
	e := newTestExporter(t, r)
	s := &mockSurface{content: "<p>Some content here.</p>", layout: editingLayout}

	done := make(chan error, 1)
	go func() {
		_, err := e.Export(context.Background(), s, "First")
		done <- err
	}()
	<-r.started

	_, err := e.Export(context.Background(), s, "Second")
	if !errors.Is(err, ErrExportInProgress) {
		t.Errorf("second export error = %v, want ErrExportInProgress", err)
	}

	close(r.block)
	if err := <-done; err != nil {
		t.Fatalf("first export error: %v", err)
	}
	if r.callCount() != 1 {
		t.Errorf("renderer calls = %d, want 1", r.callCount())
	}

	// The guard is released afterwards.
	if _, err := e.Export(context.Background(), s, "Third"); err != nil {
		t.Errorf("export after completion: %v", err)
	}
}

func TestExport_Timeout(t *testing.T) {
	t.Parallel()

	r := &mockRenderer{block: make(chan struct{})}
	e := newTestExporter(t, r, WithTimeout(50*time.Millisecond))
	s := &mockSurface{content: "<p>Some content here.</p>", layout: editingLayout}

	_, err := e.Export(context.Background(), s, "Slow")
	if !errors.Is(err, ErrExportFailed) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want ErrExportFailed wrapping DeadlineExceeded", err)
	}
	if s.Layout() != editingLayout {
		t.Errorf("layout not restored after timeout: %+v", s.Layout())
	}
}

func TestExport_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestExporter(t, &mockRenderer{result: []byte("%PDF")})
	s := &mockSurface{content: "<p>Some content here.</p>", layout: editingLayout}
	_, err := e.Export(ctx, s, "x")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if s.Layout() != editingLayout {
		t.Errorf("layout not restored after cancel: %+v", s.Layout())
	}
}

// ---------------------------------------------------------------------------
// Output
// ---------------------------------------------------------------------------

func TestExport_PDF(t *testing.T) {
	t.Parallel()

	r := &mockRenderer{result: []byte("%PDF-1.4 fake")}
	e := newTestExporter(t, r, WithRenderOptions(RenderOptions{
		Page:         &PageSettings{Size: "letter", Orientation: "landscape", Margin: 15},
		Scale:        1.5,
		ImageQuality: 0.8,
	}))
	s := &mockSurface{content: `<h2 style="color:red">Quarterly Report</h2><p>Revenue grew.</p>`}

	res, err := e.Export(context.Background(), s, "Quarterly Report")
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	if res.Filename != "Quarterly Report.pdf" || res.Format != FormatPDF {
		t.Errorf("Filename = %q Format = %q", res.Filename, res.Format)
	}
	if !bytes.Equal(res.Data, r.result) {
		t.Errorf("Data = %q", res.Data)
	}
	if len(res.ID) != 36 || len(res.Checksum) != 64 || len(res.Snapshot) != 64 {
		t.Errorf("ID = %q Checksum = %q Snapshot = %q", res.ID, res.Checksum, res.Snapshot)
	}
	if !res.CreatedAt.Equal(fixedTime) {
		t.Errorf("CreatedAt = %v", res.CreatedAt)
	}

	if r.opts.Scale != 1.5 || r.opts.ImageQuality != 0.8 || r.opts.Page.Size != "letter" {
		t.Errorf("render options = %+v", r.opts)
	}
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Quarterly Report</title>",
		"<style>",
		`class="export-title"`,
		"March 5, 2026",
		"Exported from TXT to PDF on March 5, 2026",
	} {
		if !strings.Contains(r.page, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
	if strings.Contains(r.page, "color:red") {
		t.Error("inline styles from the surface should be stripped")
	}
}

func TestExport_DoesNotMutateSurface(t *testing.T) {
	t.Parallel()

	markup := `<p style="font-size:40px">Some <b>content</b> here.</p>`
	s := &mockSurface{content: markup}
	e := newTestExporter(t, &mockRenderer{result: []byte("%PDF")})

	if _, err := e.Export(context.Background(), s, "T"); err != nil {
		t.Fatal(err)
	}
	if s.content != markup {
		t.Errorf("surface content changed to %q", s.content)
	}
}

func TestExport_EmptyTitle(t *testing.T) {
	t.Parallel()

	r := &mockRenderer{result: []byte("%PDF")}
	e := newTestExporter(t, r)
	res, err := e.Export(context.Background(), &mockSurface{content: "<p>Body text only.</p>"}, "   ")
	if err != nil {
		t.Fatal(err)
	}
	if res.Filename != "document.pdf" {
		t.Errorf("Filename = %q, want document.pdf", res.Filename)
	}
	if strings.Contains(r.page, `class="export-title"`) {
		t.Error("header title should be omitted for an empty title")
	}
	if !strings.Contains(r.page, `class="export-timestamp"`) {
		t.Error("timestamp should still be present")
	}
}

func TestExport_HTML(t *testing.T) {
	t.Parallel()

	r := &mockRenderer{}
	e := newTestExporter(t, r, WithFormat(FormatHTML), WithFooter("Acme"), WithDateFormat("iso"))
	res, err := e.Export(context.Background(), &mockSurface{content: "<p>Hello there.</p>"}, "Greeting")
	if err != nil {
		t.Fatal(err)
	}
	if r.callCount() != 0 {
		t.Error("HTML export should not use the PDF renderer")
	}
	html := string(res.Data)
	if res.Filename != "Greeting.html" {
		t.Errorf("Filename = %q", res.Filename)
	}
	for _, want := range []string{"<p style=", "Hello there.", "Acme on 2026-03-05"} {
		if !strings.Contains(html, want) {
			t.Errorf("html output missing %q", want)
		}
	}
}

func TestExport_Markdown(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t, &mockRenderer{})
	res, err := e.ExportWith(context.Background(),
		&mockSurface{content: "<h2>Plan</h2><ul><li>one</li><li>two</li></ul>"},
		ExportRequest{Title: "Plan", Format: FormatMarkdown})
	if err != nil {
		t.Fatal(err)
	}
	md := string(res.Data)
	if res.Filename != "Plan.md" {
		t.Errorf("Filename = %q", res.Filename)
	}
	for _, want := range []string{"## Plan", "- one", "- two"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown output %q missing %q", md, want)
		}
	}
}

func TestExport_DOCX(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t, &mockRenderer{})
	res, err := e.ExportWith(context.Background(),
		&mockSurface{content: "<h1>Memo</h1><p>Body paragraph.</p>"},
		ExportRequest{Title: "Memo", Format: FormatDOCX})
	if err != nil {
		t.Fatal(err)
	}
	if res.Filename != "Memo.docx" {
		t.Errorf("Filename = %q", res.Filename)
	}
	if _, err := docx.Parse(bytes.NewReader(res.Data), int64(len(res.Data))); err != nil {
		t.Fatalf("output is not a readable docx: %v", err)
	}
}

func TestExporter_Close(t *testing.T) {
	t.Parallel()

	r := &mockRenderer{}
	e, err := NewExporter(WithRenderer(r))
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if !r.closed {
		t.Error("Close should close the renderer")
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestThemes(t *testing.T) {
	t.Parallel()

	names, err := Themes("")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"classic", "minimal", "modern"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("Themes() = %v, want %v", names, want)
	}
}

func TestTakeSnapshot(t *testing.T) {
	t.Parallel()

	s := &mockSurface{content: "<p>a</p>"}
	snap, err := TakeSnapshot(s)
	if err != nil {
		t.Fatal(err)
	}
	s.content = "<p>changed</p>"
	if snap.Markup != "<p>a</p>" {
		t.Errorf("snapshot followed the surface: %q", snap.Markup)
	}
	other, _ := TakeSnapshot(&mockSurface{content: "<p>a</p>"})
	if snap.Digest != other.Digest {
		t.Error("equal markup should give equal digests")
	}
	if snap.Document() == snap.Document() {
		t.Error("Document() should return a fresh tree")
	}
}
