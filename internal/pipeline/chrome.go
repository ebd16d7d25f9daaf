package pipeline

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-txt2pdf/internal/assets"
	"github.com/alnah/go-txt2pdf/internal/document"
)

// Class names carried by generated nodes.
const (
	HeaderClass    = "export-header"
	TitleClass     = "export-title"
	TimestampClass = "export-timestamp"
	FooterClass    = "export-footer"
)

// ChromeData describes the generated header and footer.
type ChromeData struct {
	Title     string // omitted from the header when empty
	Timestamp string // formatted generation date, omitted when empty
	Footer    string // footer text; Timestamp is appended as " on <date>"
}

// AddChrome prepends the header and appends the footer to doc. Both are
// styled from theme. Nothing is added for parts that would be empty.
func AddChrome(doc *document.Document, data ChromeData, theme *assets.Theme) {
	if header := buildHeader(data, theme); header != nil {
		doc.Prepend(header)
	}
	if footer := buildFooter(data, theme); footer != nil {
		doc.Append(footer)
	}
}

func buildHeader(data ChromeData, theme *assets.Theme) *html.Node {
	if data.Title == "" && data.Timestamp == "" {
		return nil
	}
	header := styled(atom.Header, HeaderClass, theme.Style(assets.StyleHeader))
	if data.Title != "" {
		h := styled(atom.H1, TitleClass, theme.Style(assets.StyleTitle))
		h.AppendChild(document.NewText(data.Title))
		header.AppendChild(h)
	}
	if data.Timestamp != "" {
		ts := styled(atom.Div, TimestampClass, theme.Style(assets.StyleTimestamp))
		ts.AppendChild(document.NewText(data.Timestamp))
		header.AppendChild(ts)
	}
	return header
}

func buildFooter(data ChromeData, theme *assets.Theme) *html.Node {
	text := data.Footer
	switch {
	case text == "":
		return nil
	case data.Timestamp != "":
		text += " on " + data.Timestamp
	}
	footer := styled(atom.Footer, FooterClass, theme.Style(assets.StyleFooter))
	footer.AppendChild(document.NewText(text))
	return footer
}

func styled(tag atom.Atom, class, style string) *html.Node {
	n := document.NewElement(tag, html.Attribute{Key: "class", Val: class})
	if style != "" {
		document.SetAttr(n, "style", style)
	}
	return n
}
