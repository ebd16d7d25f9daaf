package txt2pdf

import (
	"fmt"
	"strings"

	"github.com/alnah/go-txt2pdf/internal/fileutil"
)

// Format is an export output format.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
	FormatDOCX     Format = "docx"
)

// DefaultBaseName names exports whose title is empty.
const DefaultBaseName = "document"

// Formats lists every supported format, PDF first.
var Formats = []Format{FormatPDF, FormatHTML, FormatMarkdown, FormatDOCX}

// ParseFormat accepts a format name or a common alias ("markdown", "htm").
// An empty string yields FormatPDF.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "pdf":
		return FormatPDF, nil
	case "html", "htm":
		return FormatHTML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "docx", "word":
		return FormatDOCX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	return string(f)
}

// MIMEType returns the media type served for the format.
func (f Format) MIMEType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/pdf"
	}
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// FileName derives "<base>.<ext>" from a title. The base is the title made
// safe for file systems, or DefaultBaseName when nothing usable remains.
func FileName(title string, f Format) string {
	base := fileutil.SafeBaseName(title)
	if base == "" {
		base = DefaultBaseName
	}
	return base + "." + f.Extension()
}
