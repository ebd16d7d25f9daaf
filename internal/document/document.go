// Package document models editable rich-text content as an HTML node tree.
//
// A Document is parsed from the serialized markup of an editing surface (an
// HTML fragment, as produced by a content-editable region). Malformed nesting
// is accepted as-is: the HTML5 parser repairs it the same way a browser would.
// Documents are never shared with the surface they came from, so callers may
// mutate them freely (export snapshots rely on this).
package document

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrParse indicates the markup could not be parsed.
var ErrParse = errors.New("failed to parse document markup")

// Document is an ordered tree of content nodes.
// The root is a synthetic container; its children are the top-level nodes.
type Document struct {
	root *html.Node
}

// New returns an empty document.
func New() *Document {
	return &Document{root: &html.Node{Type: html.DocumentNode}}
}

// Parse builds a Document from serialized markup.
// Full HTML documents are reduced to the children of their <body>.
func Parse(markup string) (*Document, error) {
	trimmed := strings.ToLower(strings.TrimSpace(markup))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		full, err := html.Parse(strings.NewReader(markup))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		doc := New()
		if body := findElement(full, atom.Body); body != nil {
			moveChildren(body, doc.root)
		}
		return doc, nil
	}

	bodyContext := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), bodyContext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	doc := New()
	for _, n := range nodes {
		doc.root.AppendChild(n)
	}
	return doc, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// literals known to be valid.
func MustParse(markup string) *Document {
	doc, err := Parse(markup)
	if err != nil {
		panic(err)
	}
	return doc
}

// Root returns the synthetic container node.
// Mutating its subtree mutates the document.
func (d *Document) Root() *html.Node {
	return d.root
}

// Clone returns a deep, detached copy of the document.
func (d *Document) Clone() *Document {
	c := New()
	for n := d.root.FirstChild; n != nil; n = n.NextSibling {
		c.root.AppendChild(CloneNode(n))
	}
	return c
}

// Render serializes the document back to markup.
func (d *Document) Render() (string, error) {
	var sb strings.Builder
	for n := d.root.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&sb, n); err != nil {
			return "", fmt.Errorf("rendering document: %w", err)
		}
	}
	return sb.String(), nil
}

// String renders the document, returning an empty string on failure.
func (d *Document) String() string {
	s, err := d.Render()
	if err != nil {
		return ""
	}
	return s
}

// Prepend inserts n as the first top-level node.
func (d *Document) Prepend(n *html.Node) {
	d.root.InsertBefore(n, d.root.FirstChild)
}

// Append inserts n as the last top-level node.
func (d *Document) Append(n *html.Node) {
	d.root.AppendChild(n)
}

// Clear removes every node.
func (d *Document) Clear() {
	for n := d.root.FirstChild; n != nil; {
		next := n.NextSibling
		d.root.RemoveChild(n)
		n = next
	}
}

// Walk visits every node below the root in document order.
// Returning false from fn skips the node's children.
func (d *Document) Walk(fn func(n *html.Node) bool) {
	for n := d.root.FirstChild; n != nil; n = n.NextSibling {
		walk(n, fn)
	}
}

func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// First returns the first element, in document order, whose tag is one of
// the given atoms. Returns nil if none match.
func (d *Document) First(tags ...atom.Atom) *html.Node {
	var found *html.Node
	d.Walk(func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && hasAtom(tags, n.DataAtom) {
			found = n
			return false
		}
		return true
	})
	return found
}

// All returns every element whose tag is one of the given atoms,
// in document order.
func (d *Document) All(tags ...atom.Atom) []*html.Node {
	var nodes []*html.Node
	d.Walk(func(n *html.Node) bool {
		if n.Type == html.ElementNode && hasAtom(tags, n.DataAtom) {
			nodes = append(nodes, n)
		}
		return true
	})
	return nodes
}

// Headings returns the h1-h6 elements in document order.
func (d *Document) Headings() []*html.Node {
	return d.All(atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6)
}

// Paragraphs returns the p elements in document order.
func (d *Document) Paragraphs() []*html.Node {
	return d.All(atom.P)
}

// CloneNode deep-copies n and its subtree. The copy has no parent.
func CloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(CloneNode(child))
	}
	return c
}

// NewElement creates a detached element node.
func NewElement(tag atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: tag,
		Data:     tag.String(),
		Attr:     attrs,
	}
}

// NewText creates a detached text node.
func NewText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// Attr returns the value of the named attribute.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the named attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes the named attribute if present.
func RemoveAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

// HasClass reports whether the element's class attribute contains class.
func HasClass(n *html.Node, class string) bool {
	v, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// Unwrap replaces n with its children.
func Unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = next
	}
	parent.RemoveChild(n)
}

// WrapChildren moves all children of n into wrapper and appends wrapper to n.
func WrapChildren(n, wrapper *html.Node) {
	moveChildren(n, wrapper)
	n.AppendChild(wrapper)
}

func moveChildren(from, to *html.Node) {
	for c := from.FirstChild; c != nil; {
		next := c.NextSibling
		from.RemoveChild(c)
		to.AppendChild(c)
		c = next
	}
}

func findElement(n *html.Node, tag atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func hasAtom(tags []atom.Atom, a atom.Atom) bool {
	for _, t := range tags {
		if t == a {
			return true
		}
	}
	return false
}
