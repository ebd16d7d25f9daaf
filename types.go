package txt2pdf

import (
	"fmt"
	"strings"
	"time"
)

// Page size constants.
const (
	PageSizeA3     = "a3"
	PageSizeA4     = "a4"
	PageSizeA5     = "a5"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in millimeters.
const (
	MinMargin     = 0.0
	MaxMargin     = 50.0
	DefaultMargin = 10.0
)

// Render knob bounds and defaults.
const (
	MinScale       = 0.1
	MaxScale       = 4.0
	DefaultScale   = 2.0
	DefaultQuality = 0.98
)

// pageDimensions holds portrait width and height in millimeters.
var pageDimensions = map[string][2]float64{
	PageSizeA3:     {297, 420},
	PageSizeA4:     {210, 297},
	PageSizeA5:     {148, 210},
	PageSizeLetter: {215.9, 279.4},
	PageSizeLegal:  {215.9, 355.6},
}

// PageSettings configures page dimensions.
type PageSettings struct {
	Size        string  // "a3", "a4", "a5", "letter", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // millimeters, applied to all sides
}

// DefaultPageSettings returns A4 portrait with a 10mm margin.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	if _, ok := pageDimensions[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}
	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.0f and %.0f mm)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// Dimensions returns the oriented page width and height in millimeters.
// Unknown sizes fall back to A4.
func (p *PageSettings) Dimensions() (width, height float64) {
	if p == nil {
		p = DefaultPageSettings()
	}
	dims, ok := pageDimensions[strings.ToLower(p.Size)]
	if !ok {
		dims = pageDimensions[PageSizeA4]
	}
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		return dims[1], dims[0]
	}
	return dims[0], dims[1]
}

// RenderOptions are handed to the Renderer for each export.
type RenderOptions struct {
	Page *PageSettings
	// Scale is the rasterization factor (device pixel ratio).
	Scale float64
	// ImageQuality is the JPEG quality, in (0, 1], used for embedded images.
	ImageQuality float64
}

// DefaultRenderOptions returns A4 portrait, 10mm margin, scale 2, quality 0.98.
func DefaultRenderOptions() *RenderOptions {
	return &RenderOptions{
		Page:         DefaultPageSettings(),
		Scale:        DefaultScale,
		ImageQuality: DefaultQuality,
	}
}

// Validate checks page settings and render knobs. Returns nil if o is nil.
func (o *RenderOptions) Validate() error {
	if o == nil {
		return nil
	}
	if err := o.Page.Validate(); err != nil {
		return err
	}
	if o.Scale < MinScale || o.Scale > MaxScale {
		return fmt.Errorf("%w: %.2f (must be between %.1f and %.1f)", ErrInvalidScale, o.Scale, MinScale, MaxScale)
	}
	if o.ImageQuality <= 0 || o.ImageQuality > 1 {
		return fmt.Errorf("%w: %.2f (must be in (0, 1])", ErrInvalidQuality, o.ImageQuality)
	}
	return nil
}

// ExportResult is the produced artifact.
type ExportResult struct {
	ID        string // random UUID
	Title     string // title used in the header, may be empty
	Filename  string // <base>.<extension>
	Format    Format
	Data      []byte
	Pages     int    // PDF page count, 0 for other formats
	Checksum  string // hex BLAKE3-256 of Data
	Snapshot  string // hex BLAKE3-256 of the exported markup
	CreatedAt time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// exporterConfig holds internal configuration for Exporter.
type exporterConfig struct {
	timeout       time.Duration
	format        Format
	themeName     string
	assetPath     string
	footer        string
	dateFormat    string
	restoreScroll bool
	render        RenderOptions
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// DefaultFooter is the footer text shown before the generation date.
const DefaultFooter = "Exported from TXT to PDF"

// WithTimeout bounds each export.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("txt2pdf: WithTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}

// WithFormat sets the format used by Export.
func WithFormat(f Format) Option {
	return func(e *Exporter) {
		e.cfg.format = f
	}
}

// WithTheme selects a theme by name.
func WithTheme(name string) Option {
	return func(e *Exporter) {
		e.cfg.themeName = name
	}
}

// WithAssetPath adds a directory searched for custom themes before the
// built-in ones.
func WithAssetPath(path string) Option {
	return func(e *Exporter) {
		e.cfg.assetPath = path
	}
}

// WithFooter sets the footer text. An empty string removes the footer.
func WithFooter(text string) Option {
	return func(e *Exporter) {
		e.cfg.footer = text
	}
}

// WithDateFormat sets the timestamp pattern (see internal/dateutil presets).
func WithDateFormat(format string) Option {
	return func(e *Exporter) {
		e.cfg.dateFormat = format
	}
}

// WithRestoreScroll controls whether the surface scroll offset is restored
// after export. When false the surface is left scrolled to the top.
func WithRestoreScroll(enabled bool) Option {
	return func(e *Exporter) {
		e.cfg.restoreScroll = enabled
	}
}

// WithRenderOptions replaces page settings and render knobs. A nil page
// keeps the defaults.
func WithRenderOptions(opts RenderOptions) Option {
	return func(e *Exporter) {
		if opts.Page == nil {
			opts.Page = DefaultPageSettings()
		}
		e.cfg.render = opts
	}
}

// WithRenderer replaces the headless Chrome renderer used for PDF output.
func WithRenderer(r Renderer) Option {
	return func(e *Exporter) {
		e.renderer = r
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		e.now = now
	}
}
