package txt2pdf

import "github.com/alnah/go-txt2pdf/internal/document"

// Surface is the editing surface seen by the title detector and the
// exporter. The core never depends on a concrete DOM; Editor is the
// in-memory implementation, and a browser bridge can provide another.
type Surface interface {
	// ApplyCommand runs a named formatting command on the current selection.
	ApplyCommand(name, value string) error
	// QueryState reports formatting at the current selection.
	QueryState() State
	// Content returns the serialized markup. The caller owns the string.
	Content() string
	// SetContent replaces the whole document.
	SetContent(markup string) error
	// PlainText returns the line-broken text rendering.
	PlainText() string
	Layout() Layout
	SetLayout(Layout)
}

// Layout is the part of the surface's presentation the exporter changes
// while capturing the full content.
type Layout struct {
	Height    string `json:"height"`
	Overflow  string `json:"overflow"`
	ScrollTop int    `json:"scrollTop"`
}

// DefaultLayout is the layout of a new Editor.
var DefaultLayout = Layout{Height: "500px", Overflow: "auto"}

// expandedLayout shows the whole content while exporting.
var expandedLayout = Layout{Height: "auto", Overflow: "visible"}

// Selection is an inclusive range of top-level block indices.
type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// State describes the formatting at the selection plus document counters.
type State struct {
	Selection Selection      `json:"selection"`
	Blocks    int            `json:"blocks"`
	Block     string         `json:"block"` // tag of the first selected block, "text" for a bare line
	Bold      bool           `json:"bold"`
	Italic    bool           `json:"italic"`
	Underline bool           `json:"underline"`
	Align     string         `json:"align"` // "left", "center" or "right"
	Link      string         `json:"link,omitempty"`
	Stats     document.Stats `json:"stats"`
}
