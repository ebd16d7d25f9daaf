package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-txt2pdf/internal/document"
)

// ResolveRelativePaths rewrites relative img[src] and a[href] values in doc
// to absolute file:// URLs under sourceDir. Paths escaping sourceDir, URLs,
// anchors and absolute paths are left alone. An empty sourceDir is a no-op.
func ResolveRelativePaths(doc *document.Document, sourceDir string) error {
	if sourceDir == "" {
		return nil
	}
	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return err
	}

	doc.Walk(func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch n.DataAtom {
		case atom.Img:
			rewriteAttr(n, "src", absDir)
		case atom.A:
			rewriteAttr(n, "href", absDir)
		}
		return true
	})
	return nil
}

func rewriteAttr(n *html.Node, key, dir string) {
	val, ok := document.Attr(n, key)
	if !ok || !isRelativePath(val) {
		return
	}
	abs := filepath.Join(dir, filepath.FromSlash(val))
	if !isPathUnderDir(abs, dir) {
		return
	}
	document.SetAttr(n, key, pathToFileURL(abs))
}

func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	if u, err := url.Parse(path); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return false
	}
	return !filepath.IsAbs(path)
}

func isPathUnderDir(absPath, dir string) bool {
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(absPath)+string(filepath.Separator), cleanDir)
}

func pathToFileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
