package pipeline

import (
	"context"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-txt2pdf/internal/assets"
	"github.com/alnah/go-txt2pdf/internal/document"
)

// PageBreakClass marks the element inserted by the page-break command.
const PageBreakClass = "page-break"

// StyleNormalizer replaces ad-hoc inline styles with the theme's mapping.
type StyleNormalizer struct {
	Theme *assets.Theme
}

// Normalize removes every style attribute below the root of doc, then sets
// the theme style for each known node kind. Nodes without a mapped kind are
// left unstyled.
func (s *StyleNormalizer) Normalize(ctx context.Context, doc *document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc.Walk(func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		document.RemoveAttr(n, "style")
		if decl := s.Theme.Style(StyleKind(n)); decl != "" {
			document.SetAttr(n, "style", decl)
		}
		return true
	})
	return nil
}

// StyleKind returns the theme key for an element: the tag name, with i and b
// folded into em and strong, and page-break markers reported as such.
func StyleKind(n *html.Node) string {
	if n.Type != html.ElementNode {
		return ""
	}
	if document.HasClass(n, PageBreakClass) {
		return assets.StylePageBreak
	}
	switch n.DataAtom {
	case atom.I:
		return "em"
	case atom.B:
		return "strong"
	}
	return n.Data
}
