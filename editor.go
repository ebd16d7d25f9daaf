package txt2pdf

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-txt2pdf/internal/document"
	"github.com/alnah/go-txt2pdf/internal/pipeline"
)

// Formatting commands accepted by ApplyCommand.
const (
	CmdBold                 = "bold"
	CmdItalic               = "italic"
	CmdUnderline            = "underline"
	CmdFormatBlock          = "formatBlock"
	CmdUnorderedList        = "insertUnorderedList"
	CmdOrderedList          = "insertOrderedList"
	CmdJustifyLeft          = "justifyLeft"
	CmdJustifyCenter        = "justifyCenter"
	CmdJustifyRight         = "justifyRight"
	CmdCreateLink           = "createLink"
	CmdInsertPageBreak      = "insertPageBreak"
	CmdInsertHorizontalRule = "insertHorizontalRule"
	CmdClear                = "clear"
)

// Commands lists every command name in toolbar order.
var Commands = []string{
	CmdBold, CmdItalic, CmdUnderline, CmdFormatBlock,
	CmdUnorderedList, CmdOrderedList,
	CmdJustifyLeft, CmdJustifyCenter, CmdJustifyRight,
	CmdCreateLink, CmdInsertPageBreak, CmdInsertHorizontalRule, CmdClear,
}

// BlockFormats lists the values accepted by formatBlock.
var BlockFormats = []string{"p", "h1", "h2", "h3", "blockquote"}

// PageBreakText is the visible marker inside an inserted page break.
const PageBreakText = "--- Page Break ---"

// Inline marks: the element created, and every tag that counts as the mark.
var marks = map[string][]atom.Atom{
	CmdBold:      {atom.B, atom.Strong},
	CmdItalic:    {atom.I, atom.Em},
	CmdUnderline: {atom.U},
}

// Editor is an in-memory Surface. Commands act on whole top-level blocks;
// the selection is an inclusive block range. Safe for concurrent use.
type Editor struct {
	mu        sync.RWMutex
	doc       *document.Document
	selection Selection
	layout    Layout
	onChange  func(markup string)
}

var _ Surface = (*Editor)(nil)

// NewEditor returns an editor holding markup.
func NewEditor(markup string) (*Editor, error) {
	doc, err := document.Parse(markup)
	if err != nil {
		return nil, err
	}
	return &Editor{doc: doc, layout: DefaultLayout}, nil
}

// OnChange registers fn to run after every successful mutation with the new
// markup. It runs outside the editor lock. Pass nil to remove the hook.
func (e *Editor) OnChange(fn func(markup string)) {
	e.mu.Lock()
	e.onChange = fn
	e.mu.Unlock()
}

// Content returns the serialized markup.
func (e *Editor) Content() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.String()
}

// SetContent replaces the document and resets the selection.
func (e *Editor) SetContent(markup string) error {
	doc, err := document.Parse(markup)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.doc = doc
	e.selection = Selection{}
	e.mu.Unlock()
	e.changed()
	return nil
}

// PlainText returns the document text with block boundaries as newlines.
func (e *Editor) PlainText() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.PlainText()
}

// Snapshot returns a detached copy of the document.
func (e *Editor) Snapshot() *document.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Clone()
}

// Layout returns the page layout used by the editing view.
func (e *Editor) Layout() Layout {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.layout
}

// SetLayout replaces the editing view's page layout. Exports apply their own
// layout and restore this one afterwards.
func (e *Editor) SetLayout(l Layout) {
	e.mu.Lock()
	e.layout = l
	e.mu.Unlock()
}

// Select sets the selection to blocks start through end. An empty document
// only accepts 0, 0.
func (e *Editor) Select(start, end int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.doc.Blocks())
	if start < 0 || end < start || (n > 0 && end >= n) || (n == 0 && end > 0) {
		return fmt.Errorf("%w: %d-%d (document has %d blocks)", ErrInvalidSelection, start, end, n)
	}
	e.selection = Selection{Start: start, End: end}
	return nil
}

// SelectAll selects every block.
func (e *Editor) SelectAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection = Selection{End: max(len(e.doc.Blocks())-1, 0)}
}

// QueryState reports formatting at the selection.
func (e *Editor) QueryState() State {
	e.mu.RLock()
	defer e.mu.RUnlock()

	blocks := e.doc.Blocks()
	st := State{
		Selection: e.selection,
		Blocks:    len(blocks),
		Align:     "left",
		Stats:     e.doc.Stats(),
	}
	if len(blocks) == 0 {
		return st
	}
	st.Block = blocks[e.selection.Start].Kind()

	var targets []*html.Node
	for i := e.selection.Start; i <= e.selection.End && i < len(blocks); i++ {
		if el := blocks[i].Element(); el != nil {
			targets = append(targets, textTargets(el)...)
		}
	}
	if len(targets) == 0 {
		return st
	}
	st.Bold = allMarked(targets, marks[CmdBold])
	st.Italic = allMarked(targets, marks[CmdItalic])
	st.Underline = allMarked(targets, marks[CmdUnderline])
	if align, ok := document.Attr(targets[0], "align"); ok {
		st.Align = align
	}
	if a := firstDescendant(targets[0], atom.A); a != nil {
		st.Link, _ = document.Attr(a, "href")
	}
	return st
}

// ApplyCommand runs a formatting command on the selected blocks.
func (e *Editor) ApplyCommand(name, value string) error {
	e.mu.Lock()
	err := e.apply(name, value)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.changed()
	return nil
}

func (e *Editor) apply(name, value string) error {
	switch name {
	case CmdBold, CmdItalic, CmdUnderline:
		e.toggleMark(marks[name])
	case CmdFormatBlock:
		tag, err := blockTag(value)
		if err != nil {
			return err
		}
		e.formatBlock(tag)
	case CmdUnorderedList:
		e.toggleList(atom.Ul)
	case CmdOrderedList:
		e.toggleList(atom.Ol)
	case CmdJustifyLeft:
		e.justify("")
	case CmdJustifyCenter:
		e.justify("center")
	case CmdJustifyRight:
		e.justify("right")
	case CmdCreateLink:
		href, err := linkTarget(value)
		if err != nil {
			return err
		}
		e.createLink(href)
	case CmdInsertPageBreak:
		n := document.NewElement(atom.Div, html.Attribute{Key: "class", Val: pipeline.PageBreakClass})
		n.AppendChild(document.NewText(PageBreakText))
		e.insertAfterSelection(n)
	case CmdInsertHorizontalRule:
		e.insertAfterSelection(document.NewElement(atom.Hr))
	case CmdClear:
		e.doc.Clear()
		e.selection = Selection{}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	e.clampSelection()
	return nil
}

// selected materializes and returns the selected block elements.
func (e *Editor) selected() []*html.Node {
	var els []*html.Node
	for i := e.selection.Start; i <= e.selection.End; i++ {
		if el := e.doc.Materialize(i); el != nil {
			els = append(els, el)
		}
	}
	return els
}

// selectedTargets returns the text-bearing elements of the selection, list
// items standing in for their lists.
func (e *Editor) selectedTargets() []*html.Node {
	var targets []*html.Node
	for _, el := range e.selected() {
		targets = append(targets, textTargets(el)...)
	}
	return targets
}

func (e *Editor) toggleMark(tags []atom.Atom) {
	targets := e.selectedTargets()
	if len(targets) == 0 {
		return
	}
	if allMarked(targets, tags) {
		for _, t := range targets {
			unwrapAll(t, tags)
		}
		return
	}
	for _, t := range targets {
		if !isMarked(t, tags) {
			document.WrapChildren(t, document.NewElement(tags[0]))
		}
	}
}

func (e *Editor) formatBlock(tag atom.Atom) {
	els := e.selected()
	// Reverse order keeps earlier block indices valid while lists expand.
	for i := len(els) - 1; i >= 0; i-- {
		el := els[i]
		switch {
		case el.DataAtom == atom.Ul || el.DataAtom == atom.Ol:
			added := splitList(el, tag)
			e.selection.End += added - 1
		case isTextBlock(el):
			document.ReplaceTag(el, tag)
		}
	}
}

func (e *Editor) toggleList(tag atom.Atom) {
	els := e.selected()
	if len(els) == 0 {
		return
	}
	if len(els) == 1 && (els[0].DataAtom == atom.Ul || els[0].DataAtom == atom.Ol) {
		if els[0].DataAtom == tag {
			added := splitList(els[0], atom.P)
			e.selection.End = e.selection.Start + added - 1
		} else {
			document.ReplaceTag(els[0], tag)
		}
		return
	}

	list := document.NewElement(tag)
	var first *html.Node
	for _, el := range els {
		switch {
		case el.DataAtom == atom.Ul || el.DataAtom == atom.Ol:
			for li := el.FirstChild; li != nil; {
				next := li.NextSibling
				el.RemoveChild(li)
				if li.Type == html.ElementNode && li.DataAtom == atom.Li {
					list.AppendChild(li)
				}
				li = next
			}
		case isTextBlock(el):
			li := document.NewElement(atom.Li)
			copyAlign(el, li)
			moveInto(el, li)
			list.AppendChild(li)
		default:
			continue
		}
		if first == nil {
			first = el
			el.Parent.InsertBefore(list, el)
		}
		el.Parent.RemoveChild(el)
	}
	if first == nil {
		return
	}
	for i, b := range e.doc.Blocks() {
		if b.Element() == list {
			e.selection = Selection{Start: i, End: i}
			break
		}
	}
}

func (e *Editor) justify(align string) {
	for _, t := range e.selectedTargets() {
		if align == "" {
			document.RemoveAttr(t, "align")
			continue
		}
		document.SetAttr(t, "align", align)
	}
}

func (e *Editor) createLink(href string) {
	for _, t := range e.selectedTargets() {
		if a := onlyChild(t, atom.A); a != nil {
			document.SetAttr(a, "href", href)
			continue
		}
		document.WrapChildren(t, document.NewElement(atom.A, html.Attribute{Key: "href", Val: href}))
	}
}

// insertAfterSelection places n after the last selected block and selects it.
func (e *Editor) insertAfterSelection(n *html.Node) {
	blocks := e.doc.Blocks()
	if len(blocks) == 0 {
		e.doc.Append(n)
		e.selection = Selection{}
		return
	}
	at := e.selection.End
	if el := e.doc.Materialize(at); el != nil {
		el.Parent.InsertBefore(n, el.NextSibling)
	} else {
		e.doc.InsertAfterBlock(at, n)
	}
	e.selection = Selection{Start: at + 1, End: at + 1}
}

func (e *Editor) clampSelection() {
	n := len(e.doc.Blocks())
	if n == 0 {
		e.selection = Selection{}
		return
	}
	e.selection.End = min(max(e.selection.End, 0), n-1)
	e.selection.Start = min(max(e.selection.Start, 0), e.selection.End)
}

func (e *Editor) changed() {
	e.mu.RLock()
	fn := e.onChange
	var markup string
	if fn != nil {
		markup = e.doc.String()
	}
	e.mu.RUnlock()
	if fn != nil {
		fn(markup)
	}
}

// blockTag parses a formatBlock value such as "h2" or "<h2>".
func blockTag(value string) (atom.Atom, error) {
	v := strings.ToLower(strings.Trim(strings.TrimSpace(value), "<>"))
	for _, allowed := range BlockFormats {
		if v == allowed {
			return atom.Lookup([]byte(v)), nil
		}
	}
	return 0, fmt.Errorf("%w: formatBlock %q (want one of %s)", ErrInvalidCommandValue, value, strings.Join(BlockFormats, ", "))
}

// linkTarget accepts http, https and mailto URLs, and relative references.
func linkTarget(value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", fmt.Errorf("%w: createLink needs a URL", ErrInvalidCommandValue)
	}
	u, err := url.Parse(v)
	if err != nil {
		return "", fmt.Errorf("%w: createLink %q: %v", ErrInvalidCommandValue, value, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto":
		return v, nil
	}
	return "", fmt.Errorf("%w: createLink scheme %q not allowed", ErrInvalidCommandValue, u.Scheme)
}

// textTargets returns the elements formatting commands act on within a
// block: list items for lists, nothing for rules and page breaks.
func textTargets(el *html.Node) []*html.Node {
	switch {
	case el.DataAtom == atom.Ul || el.DataAtom == atom.Ol:
		var items []*html.Node
		for li := el.FirstChild; li != nil; li = li.NextSibling {
			if li.Type == html.ElementNode && li.DataAtom == atom.Li {
				items = append(items, li)
			}
		}
		return items
	case isTextBlock(el):
		return []*html.Node{el}
	}
	return nil
}

func isTextBlock(el *html.Node) bool {
	return el.DataAtom != atom.Hr && !document.HasClass(el, pipeline.PageBreakClass)
}

// splitList replaces a list with one block per item, tagged tag. It returns
// the number of blocks created.
func splitList(list *html.Node, tag atom.Atom) int {
	parent := list.Parent
	n := 0
	for li := list.FirstChild; li != nil; {
		next := li.NextSibling
		if li.Type == html.ElementNode && li.DataAtom == atom.Li {
			list.RemoveChild(li)
			document.ReplaceTag(li, tag)
			parent.InsertBefore(li, list)
			n++
		}
		li = next
	}
	parent.RemoveChild(list)
	return n
}

// moveInto moves the remaining children of from into to.
func moveInto(from, to *html.Node) {
	for c := from.FirstChild; c != nil; {
		next := c.NextSibling
		from.RemoveChild(c)
		to.AppendChild(c)
		c = next
	}
}

func copyAlign(from, to *html.Node) {
	if align, ok := document.Attr(from, "align"); ok {
		document.SetAttr(to, "align", align)
	}
}

// isMarked reports whether every non-blank text node under el sits inside
// one of tags.
func isMarked(el *html.Node, tags []atom.Atom) bool {
	sawText := false
	ok := true
	var visit func(n *html.Node, inside bool)
	visit = func(n *html.Node, inside bool) {
		if n.Type == html.ElementNode && hasTag(tags, n.DataAtom) {
			inside = true
		}
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			sawText = true
			if !inside {
				ok = false
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c, inside)
		}
	}
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		visit(c, false)
	}
	return sawText && ok
}

func allMarked(targets []*html.Node, tags []atom.Atom) bool {
	found := false
	for _, t := range targets {
		if strings.TrimSpace(document.TextOf(t)) == "" {
			continue
		}
		if !isMarked(t, tags) {
			return false
		}
		found = true
	}
	return found
}

// unwrapAll removes every descendant element of el tagged with one of tags.
func unwrapAll(el *html.Node, tags []atom.Atom) {
	var found []*html.Node
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && hasTag(tags, c.DataAtom) {
				found = append(found, c)
			}
			visit(c)
		}
	}
	visit(el)
	for _, n := range found {
		document.Unwrap(n)
	}
}

// onlyChild returns el's single non-blank child when it is a tag element.
func onlyChild(el *html.Node, tag atom.Atom) *html.Node {
	var only *html.Node
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		if only != nil {
			return nil
		}
		only = c
	}
	if only != nil && only.Type == html.ElementNode && only.DataAtom == tag {
		return only
	}
	return nil
}

func firstDescendant(el *html.Node, tag atom.Atom) *html.Node {
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == tag {
			return c
		}
		if found := firstDescendant(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func hasTag(tags []atom.Atom, a atom.Atom) bool {
	for _, t := range tags {
		if t == a {
			return true
		}
	}
	return false
}
