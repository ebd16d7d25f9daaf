package document

import "testing"

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "br separated lines",
			markup: "hi<br>This is a longer first usable line<br>more",
			want:   "hi\nThis is a longer first usable line\nmore",
		},
		{
			name:   "blocks on own lines",
			markup: "<h1>Title</h1><p>First</p><p>Second</p>",
			want:   "Title\nFirst\nSecond",
		},
		{
			name:   "whitespace collapsed",
			markup: "<p>  lots   of\n\tspace  </p>",
			want:   "lots of space",
		},
		{
			name:   "inline marks keep spacing",
			markup: "<p>a <b>bold</b> word</p>",
			want:   "a bold word",
		},
		{
			name:   "list items",
			markup: "<ul><li>one</li><li>two</li></ul>",
			want:   "one\ntwo",
		},
		{
			name:   "pre keeps whitespace",
			markup: "<pre>a  b\nc</pre>",
			want:   "a  b\nc",
		},
		{
			name:   "empty",
			markup: "",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MustParse(tt.markup).PlainText()
			if got != tt.want {
				t.Errorf("PlainText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextContent_NoLineBreaks(t *testing.T) {
	t.Parallel()

	got := MustParse("<p>one</p><p>two</p>").TextContent()
	if got != "onetwo" {
		t.Errorf("TextContent() = %q, want %q", got, "onetwo")
	}
}

func TestIsBlank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		markup string
		want   bool
	}{
		{"", true},
		{"<p>   </p>", true},
		{"<p><br></p>", true},
		{"<hr>", true},
		{"<p>x</p>", false},
	}

	for _, tt := range tests {
		t.Run(tt.markup, func(t *testing.T) {
			t.Parallel()

			if got := MustParse(tt.markup).IsBlank(); got != tt.want {
				t.Errorf("IsBlank(%q) = %v, want %v", tt.markup, got, tt.want)
			}
		})
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	got := MustParse("<p>Héllo  world</p><p>again</p>").Stats()
	if got.Words != 2 {
		// "world" and "again" are glued by textContent, as in the browser.
		t.Errorf("Words = %d, want 2", got.Words)
	}
	if got.Characters != 17 {
		t.Errorf("Characters = %d, want 17", got.Characters)
	}
}

func TestFromPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"newlines", "a\nb", "a<br>b"},
		{"crlf", "a\r\nb\rc", "a<br>b<br>c"},
		{"escapes markup", "<b>x</b> & y", "&lt;b&gt;x&lt;/b&gt; &amp; y"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FromPlainText(tt.in); got != tt.want {
				t.Errorf("FromPlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHeadingLevel(t *testing.T) {
	t.Parallel()

	doc := MustParse("<h1>a</h1><h3>b</h3><p>c</p>")
	blocks := doc.Blocks()
	want := []int{1, 3, 0}
	for i, b := range blocks {
		if got := HeadingLevel(b.Element()); got != want[i] {
			t.Errorf("HeadingLevel(block %d) = %d, want %d", i, got, want[i])
		}
	}
}
