package txt2pdf

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alnah/go-txt2pdf/internal/document"
	"github.com/alnah/go-txt2pdf/internal/pipeline"
)

// DefaultMaxImportBytes bounds imported files.
const DefaultMaxImportBytes = 5 << 20

// Importer turns uploaded files into editor markup.
//
// Plain text (MIME type text/plain, or a .txt name) is escaped and every
// newline becomes a <br>; nothing else is parsed. When Markdown is enabled,
// .md/.markdown files and text/markdown are rendered with goldmark.
type Importer struct {
	// MaxBytes limits input size. Zero means DefaultMaxImportBytes; negative
	// disables the limit.
	MaxBytes int64
	Markdown bool

	once      sync.Once
	converter pipeline.MarkdownConverter
}

// NewImporter returns a plain-text importer with the default size limit.
func NewImporter() *Importer {
	return &Importer{}
}

// Import validates the file type and size and returns markup. mimeType may
// carry parameters ("text/plain; charset=utf-8"); they are ignored.
func (im *Importer) Import(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	kind := im.classify(name, mimeType)
	if kind == "" {
		return "", fmt.Errorf("%w: %s (%s)", ErrInvalidFileType, displayName(name), displayName(mimeType))
	}

	limit := im.MaxBytes
	if limit == 0 {
		limit = DefaultMaxImportBytes
	}
	if limit > 0 && int64(len(data)) > limit {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, len(data), limit)
	}

	if kind == "markdown" {
		im.once.Do(func() {
			if im.converter == nil {
				im.converter = pipeline.NewGoldmarkConverter()
			}
		})
		return im.converter.ToHTML(ctx, string(data))
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return document.FromPlainText(string(data)), nil
}

// ImportInto imports the file into s and returns the title detected from
// the new content.
func (im *Importer) ImportInto(ctx context.Context, s Surface, name, mimeType string, data []byte) (string, error) {
	markup, err := im.Import(ctx, name, mimeType, data)
	if err != nil {
		return "", err
	}
	if err := s.SetContent(markup); err != nil {
		return "", err
	}
	return DetectTitle(s), nil
}

// classify returns "text", "markdown", or "" for unsupported input.
func (im *Importer) classify(name, mimeType string) string {
	mediaType := ""
	if mimeType != "" {
		if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
			mediaType = strings.ToLower(mt)
		}
	}
	ext := strings.ToLower(filepath.Ext(name))

	if mediaType == "text/plain" || ext == ".txt" {
		if im.Markdown && (ext == ".md" || ext == ".markdown") {
			return "markdown"
		}
		return "text"
	}
	if im.Markdown {
		switch {
		case mediaType == "text/markdown", mediaType == "text/x-markdown",
			ext == ".md", ext == ".markdown":
			return "markdown"
		}
	}
	return ""
}

func displayName(s string) string {
	if s == "" {
		return "unnamed"
	}
	return s
}
