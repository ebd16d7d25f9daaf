package pipeline

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-txt2pdf/internal/document"
)

func TestResolveRelativePaths(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}

	dir := t.TempDir()
	abs, err := filepath.Abs(dir)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"relative image", `<img src="img/a.png">`, `<img src="file://` + abs + `/img/a.png"/>`},
		{"relative link", `<a href="notes.txt">n</a>`, `<a href="file://` + abs + `/notes.txt">n</a>`},
		{"remote url", `<img src="https://x.org/a.png">`, `<img src="https://x.org/a.png"/>`},
		{"data uri", `<img src="data:image/png;base64,aGk=">`, `<img src="data:image/png;base64,aGk="/>`},
		{"anchor", `<a href="#top">t</a>`, `<a href="#top">t</a>`},
		{"absolute path", `<img src="/etc/a.png">`, `<img src="/etc/a.png"/>`},
		{"traversal", `<img src="../../secret.png">`, `<img src="../../secret.png"/>`},
		{"protocol relative", `<img src="//cdn/x.png">`, `<img src="//cdn/x.png"/>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := document.MustParse(tt.markup)
			if err := ResolveRelativePaths(doc, dir); err != nil {
				t.Fatalf("ResolveRelativePaths() error = %v", err)
			}
			if got := doc.String(); got != tt.want {
				t.Errorf("ResolveRelativePaths() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveRelativePaths_EmptyDir(t *testing.T) {
	t.Parallel()

	doc := document.MustParse(`<img src="a.png">`)
	if err := ResolveRelativePaths(doc, ""); err != nil {
		t.Fatal(err)
	}
	if got := doc.String(); !strings.Contains(got, `src="a.png"`) {
		t.Errorf("empty dir rewrote path: %q", got)
	}
}
