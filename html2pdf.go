package txt2pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-txt2pdf/internal/fileutil"
	"github.com/alnah/go-txt2pdf/internal/hints"
	"github.com/alnah/go-txt2pdf/internal/process"
)

// mmPerInch converts page settings to the inches Chrome expects.
const mmPerInch = 25.4

// viewportWidthPx is the CSS width used for layout before printing.
const viewportWidthPx = 794 // A4 at 96 dpi

// rodRenderer implements Renderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	mu          sync.Mutex
	launcher    *launcher.Launcher
	browser     *rod.Browser
	timeout     time.Duration
	newLauncher func() *launcher.Launcher
}

// newRodRenderer creates a rodRenderer with the given timeout.
func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout, newLauncher: defaultLauncher}
}

// defaultLauncher configures the browser launch from the environment.
func defaultLauncher() *launcher.Launcher {
	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" || hints.IsInContainer() {
		l = l.NoSandbox(true)
	}
	return l
}

// ensureBrowser lazily launches and connects to the browser. Launch,
// including a first-run download, and connect are both bounded by ctx.
func (r *rodRenderer) ensureBrowser(ctx context.Context) error {
	if r.browser != nil {
		return nil
	}

	l := r.newLauncher().Context(ctx)
	u, err := l.Launch()
	if err != nil {
		r.kill(l)
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	connected := make(chan error, 1)
	go func() { connected <- browser.Connect() }()
	select {
	case err = <-connected:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		r.kill(l)
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher, r.browser = l, browser
	return nil
}

// Close releases browser resources. Chrome child processes are killed with
// the browser's process group.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		r.kill(r.launcher)
		r.launcher = nil
	}
	return err
}

func (r *rodRenderer) kill(l *launcher.Launcher) {
	pid := l.PID()
	l.Kill()
	// Best effort: the launcher already killed the main process.
	_ = process.KillTree(pid)
	l.Cleanup()
}

// Render writes page to a temporary file, opens it in headless Chrome and
// prints it to PDF.
func (r *rodRenderer) Render(ctx context.Context, page string, opts *RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = DefaultRenderOptions()
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(page, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	// Timeout from context or default, covering launch and page load
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureBrowser(ctx); err != nil {
		return nil, err
	}

	p, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer p.Close()

	p = p.Context(ctx)

	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidthPx,
		Height:            1123,
		DeviceScaleFactor: opts.Scale,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	if err := p.Navigate("file://" + tmpPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	// Check context after page load
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := p.PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

// buildPDFOptions converts page settings (millimeters) into print options
// (inches). The page is already oriented, so Landscape stays false.
func buildPDFOptions(opts *RenderOptions) *proto.PagePrintToPDF {
	width, height := opts.Page.Dimensions()
	margin := DefaultMargin
	if opts.Page != nil {
		margin = opts.Page.Margin
	}
	m := margin / mmPerInch

	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width / mmPerInch),
		PaperHeight:     floatPtr(height / mmPerInch),
		MarginTop:       floatPtr(m),
		MarginBottom:    floatPtr(m),
		MarginLeft:      floatPtr(m),
		MarginRight:     floatPtr(m),
		PrintBackground: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
