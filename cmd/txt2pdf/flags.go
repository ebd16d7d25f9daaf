package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// marginUnset detects whether --margin was given; 0 is a valid margin.
const marginUnset = -1.0

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// renderFlags holds rasterization flags.
type renderFlags struct {
	scale   float64
	quality float64
	timeout string
}

// exportFlags holds export chrome and output format flags.
type exportFlags struct {
	format     string
	theme      string
	footer     string
	noFooter   bool
	dateFormat string
	title      string
	titleSet   bool // --title given, even empty
	assetPath  string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	output   string
	workers  int
	watch    bool
	markdown bool
	page     pageFlags
	render   renderFlags
	export   exportFlags
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common      commonFlags
	addr        string
	storeDriver string
	storePath   string
	markdown    bool
	export      exportFlags
}

// mcpFlags holds flags for the mcp command.
type mcpFlags struct {
	common  commonFlags
	http    string
	workers int
	export  exportFlags
}

// titleFlags holds flags for the title command.
type titleFlags struct {
	common   commonFlags
	markdown bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: a3, a4, a5, letter, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", marginUnset, "page margin in millimeters (0-50)")
}

// addRenderFlags adds rasterization flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.Float64Var(&f.scale, "scale", 0, "rendering scale (0.1-4)")
	fs.Float64Var(&f.quality, "quality", 0, "JPEG quality for embedded images (0-1]")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "export timeout (e.g., 30s, 2m)")
}

// addExportFlags adds export flags to a FlagSet.
func addExportFlags(fs *flag.FlagSet, f *exportFlags) {
	fs.StringVarP(&f.format, "format", "f", "", "output format: pdf, html, md, docx")
	fs.StringVar(&f.theme, "theme", "", "theme name")
	fs.StringVar(&f.footer, "footer", "", "footer text shown before the date")
	fs.BoolVar(&f.noFooter, "no-footer", false, "disable footer")
	fs.StringVar(&f.dateFormat, "date-format", "", "timestamp format or preset: iso, european, us, long")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with custom themes")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting and
// prints usage to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	fs := newFlagSet("convert", stderr, printConvertUsage)
	f := &convertFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.watch, "watch", false, "re-export when input files change")
	fs.BoolVar(&f.markdown, "markdown", false, "also import .md and .markdown files")
	fs.StringVar(&f.export.title, "title", "", "header title (default: detected)")

	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addRenderFlags(fs, &f.render)
	addExportFlags(fs, &f.export)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.export.titleSet = fs.Changed("title")
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	fs := newFlagSet("serve", stderr, printServeUsage)
	f := &serveFlags{}

	fs.StringVar(&f.addr, "addr", "", "listen address (default :8080)")
	fs.StringVar(&f.storeDriver, "store", "", "auto-save store: sqlite, memory, none")
	fs.StringVar(&f.storePath, "store-path", "", "sqlite database path")
	fs.BoolVar(&f.markdown, "markdown", false, "accept markdown uploads")
	addCommonFlags(fs, &f.common)
	addExportFlags(fs, &f.export)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// parseMCPFlags parses mcp command flags.
func parseMCPFlags(args []string, stderr io.Writer) (*mcpFlags, error) {
	fs := newFlagSet("mcp", stderr, printMCPUsage)
	f := &mcpFlags{}

	fs.StringVar(&f.http, "http", "", "serve streamable HTTP on this address instead of stdio")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel exporters (0 = auto)")
	addCommonFlags(fs, &f.common)
	addExportFlags(fs, &f.export)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// parseTitleFlags parses title command flags and returns positional args.
func parseTitleFlags(args []string, stderr io.Writer) (*titleFlags, []string, error) {
	fs := newFlagSet("title", stderr, printTitleUsage)
	f := &titleFlags{}

	fs.BoolVar(&f.markdown, "markdown", false, "also accept .md and .markdown files")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
