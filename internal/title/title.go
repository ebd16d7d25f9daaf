// Package title derives a short display title from a document.
//
// Detection is a heuristic fallback chain; the first strategy that yields a
// non-empty cleaned candidate wins:
//
//  1. the first h1, h2 or h3 in document order (position, not level)
//  2. the first non-blank paragraph: its first sentence when longer than
//     MinLength characters, else its first ChunkLength characters
//  3. the first plain-text line longer than MinLength characters
//  4. the caller's default
//
// A short first sentence wins over a longer raw chunk even though the chunk
// carries more text.
package title

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alnah/go-txt2pdf/internal/document"
	"golang.org/x/net/html/atom"
)

// Heuristic thresholds, in characters (runes).
const (
	MinLength   = 10
	ChunkLength = 60
)

// Default is used when no strategy yields a candidate.
const Default = "Untitled Document"

// Detector derives titles from documents.
type Detector struct {
	// Fallback replaces Default when non-empty.
	Fallback string
}

// Detect returns the best-guess title for doc. Never empty.
func (d Detector) Detect(doc *document.Document) string {
	if t, ok := Find(doc); ok {
		return t
	}
	if fb := Clean(d.Fallback); fb != "" {
		return fb
	}
	return Default
}

// Detect runs the chain with the package default.
func Detect(doc *document.Document) string {
	return Detector{}.Detect(doc)
}

// Find runs the chain without the final default. The boolean reports
// whether any strategy matched.
func Find(doc *document.Document) (string, bool) {
	strategies := []func(*document.Document) string{
		fromHeading,
		fromParagraph,
		fromLines,
	}
	for _, strategy := range strategies {
		if t := strategy(doc); t != "" {
			return t, true
		}
	}
	return "", false
}

// fromHeading takes the first heading of level 1-3 by position.
func fromHeading(doc *document.Document) string {
	h := doc.First(atom.H1, atom.H2, atom.H3)
	if h == nil {
		return ""
	}
	return Clean(document.TextOf(h))
}

// fromParagraph takes the first paragraph holding visible text.
func fromParagraph(doc *document.Document) string {
	for _, p := range doc.Paragraphs() {
		text := strings.TrimSpace(document.TextOf(p))
		if text == "" {
			continue
		}
		return Clean(leadingPhrase(text))
	}
	return ""
}

// leadingPhrase returns the first sentence when it is long enough,
// otherwise the first ChunkLength runes of text.
func leadingPhrase(text string) string {
	if i := strings.IndexAny(text, ".!?"); i >= 0 {
		sentence := strings.TrimSpace(text[:i])
		if utf8.RuneCountInString(sentence) > MinLength {
			return sentence
		}
	}
	return truncate(text, ChunkLength)
}

// fromLines scans the plain-text rendering line by line.
func fromLines(doc *document.Document) string {
	for _, line := range strings.Split(doc.PlainText(), "\n") {
		cleaned := Clean(line)
		if utf8.RuneCountInString(cleaned) > MinLength {
			return cleaned
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Clean strips every rune that is not a letter, digit, whitespace or one of
// "-.,!?", collapses whitespace runs to a single space and trims the result.
// Clean is idempotent.
func Clean(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case unicode.IsLetter(r), unicode.IsDigit(r), strings.ContainsRune("-.,!?", r):
		default:
			continue
		}
		if space && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		space = false
		sb.WriteRune(r)
	}
	return sb.String()
}
