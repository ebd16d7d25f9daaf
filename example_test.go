package txt2pdf_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-txt2pdf"
)

// Example edits a document and exports it as standalone HTML.
// PDF output works the same way but requires Chrome.
func Example() {
	ed, err := txt2pdf.NewEditor("<p>Quarterly report</p><p>Revenue grew by ten percent.</p>")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := ed.ApplyCommand(txt2pdf.CmdFormatBlock, "h1"); err != nil {
		fmt.Println("error:", err)
		return
	}

	exp, err := txt2pdf.NewExporter(txt2pdf.WithFormat(txt2pdf.FormatHTML))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer exp.Close()

	title := txt2pdf.DetectTitle(ed)
	result, err := exp.Export(context.Background(), ed, title)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(result.Filename)
	fmt.Println(strings.Contains(string(result.Data), "<title>Quarterly report</title>"))
	// Output:
	// Quarterly report.html
	// true
}

// ExampleDetectTitleHTML shows the fallback chain.
func ExampleDetectTitleHTML() {
	fmt.Println(txt2pdf.DetectTitleHTML("<p>intro</p><h2>Meeting Notes: Q3 *</h2>"))
	fmt.Println(txt2pdf.DetectTitleHTML("<p>Budget review is due Friday. Bring numbers.</p>"))
	fmt.Println(txt2pdf.DetectTitleHTML("<p>   </p>"))
	// Output:
	// Meeting Notes Q3
	// Budget review is due Friday
	// Untitled Document
}

// ExampleImporter_Import converts a plain text upload to editor markup.
func ExampleImporter_Import() {
	imp := txt2pdf.NewImporter()
	markup, err := imp.Import(context.Background(), "notes.txt", "text/plain", []byte("a < b\nsecond line"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(markup)
	// Output: a &lt; b<br>second line
}

// ExampleParseFormat resolves format names and aliases.
func ExampleParseFormat() {
	for _, name := range []string{"", "markdown", "word"} {
		f, _ := txt2pdf.ParseFormat(name)
		fmt.Println(f, txt2pdf.FileName("Notes", f))
	}
	// Output:
	// pdf Notes.pdf
	// md Notes.md
	// docx Notes.docx
}
