package txt2pdf

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/alnah/go-txt2pdf/internal/assets"
	"github.com/alnah/go-txt2pdf/internal/dateutil"
	"github.com/alnah/go-txt2pdf/internal/document"
	"github.com/alnah/go-txt2pdf/internal/pipeline"
	"github.com/alnah/go-txt2pdf/internal/render"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.CSSInjector       = (*pipeline.CSSInjection)(nil)
	_ pipeline.MarkdownConverter = (*pipeline.GoldmarkConverter)(nil)
	_ Renderer                   = (*rodRenderer)(nil)
)

// Renderer turns a standalone HTML document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, page string, opts *RenderOptions) ([]byte, error)
	Close() error
}

// ExportRequest carries per-export parameters.
type ExportRequest struct {
	// Title is shown in the header and names the file. Empty omits the
	// header title and names the file DefaultBaseName.
	Title string
	// Format overrides the exporter's format when set.
	Format Format
	// SourceDir resolves relative image and link paths. Empty leaves them.
	SourceDir string
}

// Exporter snapshots a surface, styles the snapshot and renders it.
// At most one export runs at a time per Exporter; use ExporterPool for
// parallel exports. Create with NewExporter and Close when done.
type Exporter struct {
	cfg         exporterConfig
	theme       *assets.Theme
	normalizer  *pipeline.StyleNormalizer
	cssInjector pipeline.CSSInjector
	images      *pipeline.ImageRecompressor

	mu       sync.Mutex // guards renderer creation
	renderer Renderer
	busy     atomic.Bool
	now      func() time.Time
}

// NewExporter creates an Exporter. It fails when the theme cannot be
// loaded or the render options are invalid.
func NewExporter(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		cfg: exporterConfig{
			timeout:       defaultTimeout,
			format:        FormatPDF,
			themeName:     assets.DefaultTheme,
			footer:        DefaultFooter,
			dateFormat:    dateutil.DefaultFormat,
			restoreScroll: true,
			render:        *DefaultRenderOptions(),
		},
		cssInjector: &pipeline.CSSInjection{},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	if !e.cfg.format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, e.cfg.format)
	}
	if err := e.cfg.render.Validate(); err != nil {
		return nil, err
	}
	if _, err := dateutil.Layout(e.cfg.dateFormat); err != nil {
		return nil, err
	}

	theme, err := LoadTheme(e.cfg.themeName, e.cfg.assetPath)
	if err != nil {
		return nil, err
	}
	e.theme = theme
	e.normalizer = &pipeline.StyleNormalizer{Theme: theme}
	e.images = &pipeline.ImageRecompressor{Quality: e.cfg.render.ImageQuality}
	return e, nil
}

// Export renders s in the configured format.
func (e *Exporter) Export(ctx context.Context, s Surface, title string) (*ExportResult, error) {
	return e.ExportWith(ctx, s, ExportRequest{Title: title})
}

// ExportWith renders s according to req.
//
// Blank content fails with ErrEmptyDocument before anything else happens.
// A call made while another export runs fails with ErrExportInProgress.
// The surface layout is expanded for the capture and always restored.
// Renderer failures wrap ErrExportFailed.
func (e *Exporter) ExportWith(ctx context.Context, s Surface, req ExportRequest) (result *ExportResult, err error) {
	format := req.Format
	if format == "" {
		format = e.cfg.format
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if strings.TrimSpace(s.PlainText()) == "" {
		return nil, ErrEmptyDocument
	}

	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	defer e.busy.Store(false)

	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("%w: internal error: %v", ErrExportFailed, r)
		}
	}()

	saved := s.Layout()
	expanded := expandedLayout
	s.SetLayout(expanded)
	defer func() {
		restore := saved
		if !e.cfg.restoreScroll {
			restore.ScrollTop = expanded.ScrollTop
		}
		s.SetLayout(restore)
	}()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.timeout)
	defer cancel()

	snap, err := TakeSnapshot(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	title := strings.TrimSpace(req.Title)
	data, pages, err := e.render(ctx, snap, title, format, req.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	sum := blake3.Sum256(data)
	return &ExportResult{
		ID:        uuid.NewString(),
		Title:     title,
		Filename:  FileName(title, format),
		Format:    format,
		Data:      data,
		Pages:     pages,
		Checksum:  hex.EncodeToString(sum[:]),
		Snapshot:  snap.Digest,
		CreatedAt: e.now(),
	}, nil
}

// render runs the pipeline on the snapshot's detached document.
func (e *Exporter) render(ctx context.Context, snap *Snapshot, title string, format Format, sourceDir string) ([]byte, int, error) {
	doc := snap.Document()

	if err := e.normalizer.Normalize(ctx, doc); err != nil {
		return nil, 0, err
	}
	if sourceDir != "" {
		if err := pipeline.ResolveRelativePaths(doc, sourceDir); err != nil {
			return nil, 0, err
		}
	}

	stamp, err := dateutil.Format(e.now(), e.cfg.dateFormat)
	if err != nil {
		return nil, 0, err
	}
	pipeline.AddChrome(doc, pipeline.ChromeData{
		Title:     title,
		Timestamp: stamp,
		Footer:    e.cfg.footer,
	}, e.theme)

	if _, err := e.images.Recompress(ctx, doc); err != nil {
		return nil, 0, err
	}

	switch format {
	case FormatMarkdown:
		data, err := render.Markdown(ctx, doc)
		return data, 0, err
	case FormatDOCX:
		data, err := render.DOCX(ctx, doc)
		return data, 0, err
	}

	page, err := e.page(ctx, doc, title)
	if err != nil {
		return nil, 0, err
	}
	if format == FormatHTML {
		data, err := render.HTML(ctx, page)
		return data, 0, err
	}

	renderer := e.pdfRenderer()
	opts := e.cfg.render
	data, err := renderer.Render(ctx, page, &opts)
	if err != nil {
		return nil, 0, err
	}
	// Pages stays 0 when the output cannot be read back.
	pages, _ := render.PageCount(data)
	return data, pages, nil
}

// page builds the standalone HTML document with the theme CSS.
func (e *Exporter) page(ctx context.Context, doc *document.Document, title string) (string, error) {
	body, err := doc.Render()
	if err != nil {
		return "", err
	}
	if title == "" {
		title = DefaultTitle
	}
	css := e.theme.CSS + "\n" + pipeline.HighlightCSS()
	page := e.cssInjector.InjectCSS(ctx, pipeline.WrapDocument(title, body), css)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return page, nil
}

func (e *Exporter) pdfRenderer() Renderer {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.renderer == nil {
		e.renderer = newRodRenderer(e.cfg.timeout)
	}
	return e.renderer
}

// Theme returns the loaded theme.
func (e *Exporter) Theme() *assets.Theme {
	return e.theme
}

// Busy reports whether an export is running.
func (e *Exporter) Busy() bool {
	return e.busy.Load()
}

// Close releases the renderer (headless Chrome browser).
func (e *Exporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.renderer != nil {
		err := e.renderer.Close()
		e.renderer = nil
		return err
	}
	return nil
}

// LoadTheme resolves a theme by name, searching assetPath first when set.
// An empty name selects the default theme.
func LoadTheme(name, assetPath string) (*assets.Theme, error) {
	resolver, err := assets.NewThemeResolver(assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	return resolver.LoadTheme(name)
}

// Themes lists the available theme names, custom ones included.
func Themes(assetPath string) ([]string, error) {
	resolver, err := assets.NewThemeResolver(assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	return resolver.ListThemes()
}

// Snapshot is an immutable copy of surface markup taken at export time.
type Snapshot struct {
	Markup string
	// Digest is the hex BLAKE3-256 of Markup.
	Digest string
}

// TakeSnapshot copies the current content of s.
func TakeSnapshot(s Surface) (*Snapshot, error) {
	markup := s.Content()
	if _, err := document.Parse(markup); err != nil {
		return nil, err
	}
	sum := blake3.Sum256([]byte(markup))
	return &Snapshot{Markup: markup, Digest: hex.EncodeToString(sum[:])}, nil
}

// Document parses a fresh, detached document from the snapshot.
func (s *Snapshot) Document() *document.Document {
	return document.MustParse(s.Markup)
}
