package txt2pdf

import (
	"github.com/alnah/go-txt2pdf/internal/document"
	"github.com/alnah/go-txt2pdf/internal/title"
)

// DefaultTitle is returned when no title can be derived.
const DefaultTitle = title.Default

// DetectTitle derives a title from the surface content. Never empty.
func DetectTitle(s Surface) string {
	if ed, ok := s.(*Editor); ok {
		return title.Detect(ed.Snapshot())
	}
	return DetectTitleHTML(s.Content())
}

// DetectTitleHTML derives a title from serialized markup. Never empty.
// Markup the parser rejects is treated as plain text.
func DetectTitleHTML(markup string) string {
	doc, err := document.Parse(markup)
	if err != nil {
		doc = document.MustParse(document.FromPlainText(markup))
	}
	return title.Detect(doc)
}

// CleanTitle applies the title clean-up rules to s: characters other than
// letters, digits, whitespace and "- . , ! ?" are removed and whitespace is
// collapsed. It is idempotent.
func CleanTitle(s string) string {
	return title.Clean(s)
}

// DetectTitleOr is DetectTitle with fallback returned, cleaned, instead of
// DefaultTitle when no strategy matches and fallback cleans to something.
func DetectTitleOr(s Surface, fallback string) string {
	var doc *document.Document
	if ed, ok := s.(*Editor); ok {
		doc = ed.Snapshot()
	} else if parsed, err := document.Parse(s.Content()); err == nil {
		doc = parsed
	} else {
		doc = document.MustParse(document.FromPlainText(s.Content()))
	}
	return title.Detector{Fallback: fallback}.Detect(doc)
}
