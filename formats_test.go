package txt2pdf

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatPDF, false},
		{"pdf", FormatPDF, false},
		{" PDF ", FormatPDF, false},
		{".html", FormatHTML, false},
		{"htm", FormatHTML, false},
		{"md", FormatMarkdown, false},
		{"Markdown", FormatMarkdown, false},
		{"docx", FormatDOCX, false},
		{"word", FormatDOCX, false},
		{"odt", "", true},
		{"txt", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Fatalf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestFormat_Properties(t *testing.T) {
	t.Parallel()

	for _, f := range Formats {
		if !f.Valid() {
			t.Errorf("%q not valid", f)
		}
		if f.MIMEType() == "" || f.Extension() == "" {
			t.Errorf("%q has no MIME type or extension", f)
		}
	}
	if Format("rtf").Valid() {
		t.Error("rtf should not be valid")
	}
	if got := FormatPDF.MIMEType(); got != "application/pdf" {
		t.Errorf("pdf MIME = %q", got)
	}
	if got := FormatMarkdown.Extension(); got != "md" {
		t.Errorf("markdown extension = %q", got)
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title  string
		format Format
		want   string
	}{
		{"Quarterly Report", FormatPDF, "Quarterly Report.pdf"},
		{"", FormatPDF, "document.pdf"},
		{"   ", FormatHTML, "document.html"},
		{"Notes", FormatDOCX, "Notes.docx"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if got := FileName(tt.title, tt.format); got != tt.want {
				t.Errorf("FileName(%q, %q) = %q, want %q", tt.title, tt.format, got, tt.want)
			}
		})
	}
}
