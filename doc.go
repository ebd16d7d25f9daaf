// Package txt2pdf edits rich-text documents and exports them to PDF using
// headless Chrome.
//
// # Quick Start
//
// Create an editor and an exporter, then export:
//
//	ed, err := txt2pdf.NewEditor("<h2>Quarterly Report</h2><p>Revenue grew.</p>")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	exp, err := txt2pdf.NewExporter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exp.Close()
//
//	res, err := exp.Export(ctx, ed, txt2pdf.DetectTitle(ed))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(res.Filename, res.Data, 0644)
//
// # Surfaces
//
// The exporter and the title detector work against the Surface interface:
// apply a formatting command, query selection state, get or set serialized
// markup, read plain text, and get or set the layout. Editor is the
// in-memory implementation used by the CLI, the HTTP server and the MCP
// tools.
//
// # Title Detection
//
// DetectTitle returns the first h1-h3 in document order, else the first
// sentence of the first paragraph when longer than 10 characters (else the
// paragraph's first 60 characters), else the first plain-text line longer
// than 10 characters, else DefaultTitle. Candidates are cleaned with
// CleanTitle; one that cleans to nothing does not count.
//
// # Export Pipeline
//
//  1. Blank content is rejected with ErrEmptyDocument
//  2. A second concurrent export on the same Exporter gets ErrExportInProgress
//  3. The surface layout is expanded, and restored when the export returns
//  4. A detached snapshot of the markup is taken
//  5. Inline styles are replaced by the theme's mapping
//  6. A header (title, timestamp) and a footer are added
//  7. The result is rendered as PDF, HTML, Markdown or DOCX
//
// # Configuration
//
// Use functional options to customize the exporter:
//
//	exp, err := txt2pdf.NewExporter(
//	    txt2pdf.WithTimeout(time.Minute),
//	    txt2pdf.WithTheme("modern"),
//	    txt2pdf.WithFooter("Acme Corp"),
//	    txt2pdf.WithRenderOptions(txt2pdf.RenderOptions{
//	        Page:         &txt2pdf.PageSettings{Size: "letter", Orientation: "landscape", Margin: 15},
//	        Scale:        1.5,
//	        ImageQuality: 0.8,
//	    }),
//	)
//
// # Parallel Processing
//
// For batch exports, use ExporterPool to manage multiple browser instances:
//
//	pool := txt2pdf.NewExporterPool(txt2pdf.ResolvePoolSize(0))
//	defer pool.Close()
//
//	exp, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(exp)
//
// # Errors
//
// Failures are sentinel errors usable with errors.Is: ErrInvalidFileType and
// ErrFileTooLarge on import, ErrEmptyDocument, ErrExportInProgress and
// ErrExportFailed on export, ErrUnknownCommand and ErrInvalidSelection in the
// editor, and the ErrInvalid* validation errors for render settings.
package txt2pdf
