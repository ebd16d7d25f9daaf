package document

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Block is one editable unit at the top level of a document: either a single
// block element, or a run of inline nodes terminated by a <br> (or by the next
// block element). Inline runs are what a surface holds after plain text import.
type Block struct {
	Nodes []*html.Node
}

// Element returns the block element, or nil for an inline run.
func (b Block) Element() *html.Node {
	if len(b.Nodes) == 1 && IsBlockElement(b.Nodes[0]) {
		return b.Nodes[0]
	}
	return nil
}

// Kind names the block: the tag name of a block element, or "text" for an
// inline run.
func (b Block) Kind() string {
	if el := b.Element(); el != nil {
		return el.Data
	}
	return "text"
}

// Text returns the flattened text of the block.
func (b Block) Text() string {
	var sb strings.Builder
	for _, n := range b.Nodes {
		collectText(&sb, n)
	}
	return sb.String()
}

// Blocks splits the top level into blocks. Whitespace-only text between
// blocks is ignored.
func (d *Document) Blocks() []Block {
	var blocks []Block
	var run []*html.Node

	flush := func() {
		if len(run) > 0 && !blankRun(run) {
			blocks = append(blocks, Block{Nodes: run})
		}
		run = nil
	}

	for n := d.root.FirstChild; n != nil; n = n.NextSibling {
		switch {
		case IsBlockElement(n):
			flush()
			blocks = append(blocks, Block{Nodes: []*html.Node{n}})
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			run = append(run, n)
			flush()
		case n.Type == html.CommentNode:
			continue
		default:
			run = append(run, n)
		}
	}
	flush()
	return blocks
}

// blankRun reports whether a run holds nothing but whitespace text.
// A lone <br> counts as content so that empty lines stay addressable.
func blankRun(run []*html.Node) bool {
	for _, n := range run {
		if n.Type != html.TextNode || strings.TrimSpace(n.Data) != "" {
			return false
		}
	}
	return true
}

// Materialize makes sure the block at index i is a block element, wrapping
// an inline run in a new <p> (its terminating <br> is dropped). It returns
// the element, or nil if i is out of range.
func (d *Document) Materialize(i int) *html.Node {
	blocks := d.Blocks()
	if i < 0 || i >= len(blocks) {
		return nil
	}
	b := blocks[i]
	if el := b.Element(); el != nil {
		return el
	}

	p := NewElement(atom.P)
	d.root.InsertBefore(p, b.Nodes[0])
	for _, n := range b.Nodes {
		d.root.RemoveChild(n)
		if n.Type == html.ElementNode && n.DataAtom == atom.Br {
			continue
		}
		p.AppendChild(n)
	}
	return p
}

// InsertAfterBlock inserts n after the block at index i. An index of -1
// inserts at the start; indices past the end append.
func (d *Document) InsertAfterBlock(i int, n *html.Node) {
	blocks := d.Blocks()
	switch {
	case i < 0 || len(blocks) == 0:
		d.Prepend(n)
	case i >= len(blocks):
		d.Append(n)
	default:
		last := blocks[i].Nodes[len(blocks[i].Nodes)-1]
		d.root.InsertBefore(n, last.NextSibling)
	}
}

// ReplaceTag changes the tag of el in place, keeping attributes and children.
func ReplaceTag(el *html.Node, tag atom.Atom) {
	el.DataAtom = tag
	el.Data = tag.String()
}
