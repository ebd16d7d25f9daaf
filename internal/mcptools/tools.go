// Package mcptools exposes title detection, text import and export as MCP
// tools.
package mcptools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/alnah/go-txt2pdf"
)

// Tool names.
const (
	ToolDetectTitle    = "detect_title"
	ToolImportText     = "import_text"
	ToolExportDocument = "export_document"
)

type DetectTitleRequest struct {
	HTML string `json:"html"`
}

type DetectTitleResponse struct {
	Title string `json:"title"`
}

type ImportTextRequest struct {
	Text string `json:"text"`
	Name string `json:"name"` // optional file name, used for type detection
}

type ImportTextResponse struct {
	HTML  string `json:"html"`
	Title string `json:"title"`
}

type ExportDocumentRequest struct {
	HTML      string `json:"html"`
	Title     string `json:"title"`     // detected when empty
	Format    string `json:"format"`    // pdf (default), html, md, docx
	OutputDir string `json:"outputDir"` // write the file here; otherwise data is returned inline
}

type ExportDocumentResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
	Format   string `json:"format"`
	Bytes    int    `json:"bytes"`
	Pages    int    `json:"pages,omitempty"`
	Checksum string `json:"checksum"`
	Path     string `json:"path,omitempty"`
	// Content holds text formats inline, Base64 binary ones, when no
	// OutputDir was given.
	Content string `json:"content,omitempty"`
	Base64  string `json:"base64,omitempty"`
}

// NewServer creates an MCP server with the document tools. Exports borrow
// exporters from pool.
func NewServer(version string, pool *txt2pdf.ExporterPool, importer *txt2pdf.Importer) *server.MCPServer {
	if importer == nil {
		importer = txt2pdf.NewImporter()
	}

	s := server.NewMCPServer(
		"txt2pdf",
		version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool(ToolDetectTitle,
		mcp.WithDescription("Derive a short title from document HTML: first heading, else first sentence, else first long line"),
		mcp.WithString("html",
			mcp.Required(),
			mcp.Description("Document markup"),
		),
	), mcp.NewTypedToolHandler(detectTitleHandler))

	s.AddTool(mcp.NewTool(ToolImportText,
		mcp.WithDescription("Convert plain text into editor HTML (escaped, newlines become <br>) and detect its title"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Plain text content"),
		),
		mcp.WithString("name",
			mcp.Description("Optional file name such as notes.txt or notes.md"),
		),
	), mcp.NewTypedToolHandler(importTextHandler(importer)))

	s.AddTool(mcp.NewTool(ToolExportDocument,
		mcp.WithDescription("Export document HTML with a title header and dated footer as PDF, HTML, Markdown or DOCX"),
		mcp.WithString("html",
			mcp.Required(),
			mcp.Description("Document markup"),
		),
		mcp.WithString("title",
			mcp.Description("Header title and file name; detected from the document when empty"),
		),
		mcp.WithString("format",
			mcp.Description("pdf (default), html, md or docx"),
		),
		mcp.WithString("outputDir",
			mcp.Description("Directory to write the file to; the result is returned inline when empty"),
		),
	), mcp.NewTypedToolHandler(exportDocumentHandler(pool)))

	return s
}

func detectTitleHandler(ctx context.Context, request mcp.CallToolRequest, args DetectTitleRequest) (*mcp.CallToolResult, error) {
	return jsonResult(DetectTitleResponse{Title: txt2pdf.DetectTitleHTML(args.HTML)})
}

func importTextHandler(importer *txt2pdf.Importer) func(context.Context, mcp.CallToolRequest, ImportTextRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args ImportTextRequest) (*mcp.CallToolResult, error) {
		name, mimeType := args.Name, ""
		if name == "" {
			name, mimeType = "input.txt", "text/plain"
		}
		markup, err := importer.Import(ctx, name, mimeType, []byte(args.Text))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("import failed: %v", err)), nil
		}
		return jsonResult(ImportTextResponse{HTML: markup, Title: txt2pdf.DetectTitleHTML(markup)})
	}
}

func exportDocumentHandler(pool *txt2pdf.ExporterPool) func(context.Context, mcp.CallToolRequest, ExportDocumentRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args ExportDocumentRequest) (*mcp.CallToolResult, error) {
		format, err := txt2pdf.ParseFormat(args.Format)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		ed, err := txt2pdf.NewEditor(args.HTML)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid html: %v", err)), nil
		}
		title := args.Title
		if title == "" {
			title = txt2pdf.DetectTitle(ed)
		}

		exp, err := pool.Acquire(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("no exporter available: %v", err)), nil
		}
		res, err := exp.ExportWith(ctx, ed, txt2pdf.ExportRequest{Title: title, Format: format})
		pool.Release(exp)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		resp := ExportDocumentResponse{
			ID:       res.ID,
			Title:    res.Title,
			Filename: res.Filename,
			Format:   string(res.Format),
			Bytes:    len(res.Data),
			Pages:    res.Pages,
			Checksum: res.Checksum,
		}
		switch {
		case args.OutputDir != "":
			path, err := writeResult(args.OutputDir, res)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			resp.Path = path
		case res.Format == txt2pdf.FormatHTML || res.Format == txt2pdf.FormatMarkdown:
			resp.Content = string(res.Data)
		default:
			resp.Base64 = base64.StdEncoding.EncodeToString(res.Data)
		}
		return jsonResult(resp)
	}
}

func writeResult(dir string, res *txt2pdf.ExportResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, res.Filename)
	if err := os.WriteFile(path, res.Data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
