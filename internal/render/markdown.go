package render

import (
	"context"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-txt2pdf/internal/document"
	"github.com/alnah/go-txt2pdf/internal/pipeline"
)

// Markdown converts doc to CommonMark. Inline styles and classes are
// dropped; page breaks become thematic breaks.
func Markdown(ctx context.Context, doc *document.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := htmltomarkdown.ConvertNode(pageBreaksToRules(doc).Root())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarkdown, err)
	}
	return []byte(strings.TrimSpace(string(out)) + "\n"), nil
}

// pageBreaksToRules returns a copy of doc with each page-break marker
// replaced by <hr>.
func pageBreaksToRules(doc *document.Document) *document.Document {
	out := doc.Clone()
	var breaks []*html.Node
	out.Walk(func(n *html.Node) bool {
		if document.HasClass(n, pipeline.PageBreakClass) {
			breaks = append(breaks, n)
			return false
		}
		return true
	})
	for _, n := range breaks {
		n.Parent.InsertBefore(document.NewElement(atom.Hr), n)
		n.Parent.RemoveChild(n)
	}
	return out
}
