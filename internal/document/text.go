package document

import (
	"html"
	"strings"
	"unicode/utf8"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Stats holds the word and character counters shown next to the editor.
type Stats struct {
	Words      int `json:"words"`
	Characters int `json:"characters"`
}

// TextContent returns the concatenated text of every text node,
// matching the DOM textContent property.
func (d *Document) TextContent() string {
	var sb strings.Builder
	for n := d.root.FirstChild; n != nil; n = n.NextSibling {
		collectText(&sb, n)
	}
	return sb.String()
}

// TextOf returns the flattened text content of n.
func TextOf(n *xhtml.Node) string {
	var sb strings.Builder
	collectText(&sb, n)
	return sb.String()
}

func collectText(sb *strings.Builder, n *xhtml.Node) {
	switch n.Type {
	case xhtml.TextNode:
		sb.WriteString(n.Data)
		return
	case xhtml.CommentNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(sb, c)
	}
}

// IsBlank reports whether the document holds no visible text.
func (d *Document) IsBlank() bool {
	return strings.TrimSpace(d.TextContent()) == ""
}

// Stats counts words and characters of the document text.
// Characters are counted in runes, whitespace included.
func (d *Document) Stats() Stats {
	text := d.TextContent()
	return Stats{
		Words:      len(strings.Fields(text)),
		Characters: utf8.RuneCountInString(text),
	}
}

// PlainText renders the document as line-broken text, the way a browser's
// innerText does: <br> and block boundaries become newlines and whitespace
// inside text runs collapses to single spaces (except within <pre>).
func (d *Document) PlainText() string {
	w := &plainWriter{}
	for n := d.root.FirstChild; n != nil; n = n.NextSibling {
		w.node(n, false)
	}
	return strings.TrimRight(w.sb.String(), "\n")
}

type plainWriter struct {
	sb strings.Builder
}

func (w *plainWriter) node(n *xhtml.Node, pre bool) {
	switch n.Type {
	case xhtml.TextNode:
		if pre {
			w.sb.WriteString(n.Data)
			return
		}
		w.inline(n.Data)
		return
	case xhtml.CommentNode:
		return
	case xhtml.ElementNode:
		switch n.DataAtom {
		case atom.Br:
			w.sb.WriteByte('\n')
			return
		case atom.Script, atom.Style, atom.Template:
			return
		case atom.Pre:
			pre = true
		}
	}

	block := IsBlockElement(n)
	if block {
		w.newline()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.node(c, pre)
	}
	if block {
		w.newline()
	}
}

// inline writes a text run with whitespace collapsed. Leading whitespace is
// dropped at the start of a line.
func (w *plainWriter) inline(text string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		if text != "" && !w.atLineStart() {
			w.space()
		}
		return
	}
	if startsWithSpace(text) && !w.atLineStart() {
		w.space()
	}
	w.sb.WriteString(strings.Join(fields, " "))
	if endsWithSpace(text) {
		w.space()
	}
}

func (w *plainWriter) space() {
	s := w.sb.String()
	if s == "" || strings.HasSuffix(s, " ") || strings.HasSuffix(s, "\n") {
		return
	}
	w.sb.WriteByte(' ')
}

func (w *plainWriter) newline() {
	s := w.sb.String()
	if s == "" || strings.HasSuffix(s, "\n") {
		return
	}
	if strings.HasSuffix(s, " ") {
		trimmed := strings.TrimRight(s, " ")
		w.sb.Reset()
		w.sb.WriteString(trimmed)
	}
	w.sb.WriteByte('\n')
}

func (w *plainWriter) atLineStart() bool {
	s := w.sb.String()
	return s == "" || strings.HasSuffix(s, "\n")
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return strings.ContainsRune(" \t\n\r\f", r)
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return strings.ContainsRune(" \t\n\r\f", r)
}

// blockElements lists tags rendered on their own lines.
var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Figcaption: true, atom.Figure: true, atom.Footer: true, atom.H1: true,
	atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true,
	atom.H6: true, atom.Header: true, atom.Hr: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true,
	atom.Pre: true, atom.Section: true, atom.Table: true, atom.Tr: true,
	atom.Ul: true,
}

// IsBlockElement reports whether n is a block-level element.
func IsBlockElement(n *xhtml.Node) bool {
	return n.Type == xhtml.ElementNode && blockElements[n.DataAtom]
}

// HeadingLevel returns 1-6 for heading elements and 0 otherwise.
func HeadingLevel(n *xhtml.Node) int {
	if n.Type != xhtml.ElementNode {
		return 0
	}
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

// FromPlainText converts raw text into editor markup: the text is escaped,
// line endings are normalized and every newline becomes a <br>.
// No further parsing is applied.
func FromPlainText(text string) string {
	text = strings.ToValidUTF8(text, "�")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
}
