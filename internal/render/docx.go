package render

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-txt2pdf/internal/document"
	"github.com/alnah/go-txt2pdf/internal/pipeline"
)

// Heading run sizes in half-points.
var headingSizes = map[atom.Atom]string{
	atom.H1: "48",
	atom.H2: "36",
	atom.H3: "28",
}

// runStyle is the inline formatting in effect while walking a paragraph.
type runStyle struct {
	bold, italic, underline bool
	size                    string
}

// DOCX writes doc as a Word document. Headings become sized bold runs, list
// items become prefixed paragraphs, page-break markers become page breaks and
// the align attribute becomes paragraph justification.
func DOCX(ctx context.Context, doc *document.Document) ([]byte, error) {
	f := docx.New().WithDefaultTheme()
	w := &docxWriter{f: f}

	for _, b := range doc.Blocks() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if el := b.Element(); el != nil {
			w.block(el)
			continue
		}
		p := w.f.AddParagraph()
		for _, n := range b.Nodes {
			w.inline(p, n, runStyle{})
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDOCX, err)
	}
	return buf.Bytes(), nil
}

type docxWriter struct {
	f *docx.Docx
}

func (w *docxWriter) block(n *html.Node) {
	switch {
	case document.HasClass(n, pipeline.PageBreakClass):
		w.f.AddParagraph().AddPageBreaks()
		return
	case n.DataAtom == atom.Hr:
		w.f.AddParagraph().Justification("center").AddText("* * *")
		return
	case n.DataAtom == atom.Ul || n.DataAtom == atom.Ol:
		w.list(n)
		return
	case n.DataAtom == atom.Header || n.DataAtom == atom.Section || n.DataAtom == atom.Article:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if document.IsBlockElement(c) {
				w.block(c)
			}
		}
		return
	}

	style := runStyle{}
	if size, ok := headingSizes[n.DataAtom]; ok {
		style.bold, style.size = true, size
	}
	if n.DataAtom == atom.Blockquote {
		style.italic = true
	}
	p := w.paragraph(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.inline(p, c, style)
	}
}

func (w *docxWriter) list(n *html.Node) {
	i := 0
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}
		i++
		p := w.paragraph(li)
		prefix := "• "
		if n.DataAtom == atom.Ol {
			prefix = strconv.Itoa(i) + ". "
		}
		p.AddText(prefix)
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			w.inline(p, c, runStyle{})
		}
	}
}

// paragraph starts a paragraph honoring the element's align attribute.
func (w *docxWriter) paragraph(n *html.Node) *docx.Paragraph {
	p := w.f.AddParagraph()
	if align, ok := document.Attr(n, "align"); ok {
		switch strings.ToLower(align) {
		case "center":
			p.Justification("center")
		case "right":
			p.Justification("end")
		case "justify":
			p.Justification("both")
		}
	}
	return p
}

func (w *docxWriter) inline(p *docx.Paragraph, n *html.Node, style runStyle) {
	switch n.Type {
	case html.TextNode:
		text := collapseSpace(n.Data)
		if text == "" {
			return
		}
		r := p.AddText(text)
		preserveSpace(r)
		if style.bold {
			r.Bold()
		}
		if style.italic {
			r.Italic()
		}
		if style.underline {
			r.Underline("single")
		}
		if style.size != "" {
			r.Size(style.size)
		}
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.Br:
		p.AddText("\n")
		return
	case atom.A:
		if href, ok := document.Attr(n, "href"); ok && href != "" {
			p.AddLink(document.TextOf(n), href)
			return
		}
	case atom.B, atom.Strong:
		style.bold = true
	case atom.I, atom.Em:
		style.italic = true
	case atom.U:
		style.underline = true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.inline(p, c, style)
	}
}

// preserveSpace keeps Word from dropping the spaces between adjacent runs.
func preserveSpace(r *docx.Run) {
	for _, c := range r.Children {
		if t, ok := c.(*docx.Text); ok {
			t.XMLSpace = "preserve"
		}
	}
}

// collapseSpace folds whitespace runs to one space, keeping a single leading
// or trailing space so adjacent runs stay separated.
func collapseSpace(s string) string {
	if strings.TrimSpace(s) == "" {
		if s == "" {
			return ""
		}
		return " "
	}
	out := strings.Join(strings.Fields(s), " ")
	if s[0] == ' ' || s[0] == '\n' || s[0] == '\t' {
		out = " " + out
	}
	if last := s[len(s)-1]; last == ' ' || last == '\n' || last == '\t' {
		out += " "
	}
	return out
}
