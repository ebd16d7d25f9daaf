package assets

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alnah/go-txt2pdf/internal/yamlutil"
)

// DefaultTheme is used when no theme is configured.
const DefaultTheme = "classic"

// Style keys. Element kinds map to tag names; the remaining keys address the
// synthetic nodes added around the exported content.
const (
	StyleTitle     = "title"
	StyleTimestamp = "timestamp"
	StyleHeader    = "header"
	StyleFooter    = "footer"
	StylePageBreak = "page-break"
)

// StyleKeys lists every key accepted in a theme's styles map.
var StyleKeys = []string{
	"h1", "h2", "h3", "p", "ul", "ol", "li",
	"em", "strong", "u", "a", "hr", "blockquote",
	StylePageBreak, StyleHeader, StyleTitle, StyleTimestamp, StyleFooter,
}

// Theme describes how an exported document looks.
type Theme struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	CSS         string            `yaml:"css"`
	Styles      map[string]string `yaml:"styles"`
}

// Style returns the inline declarations for a node kind, or "".
func (t *Theme) Style(kind string) string {
	if t == nil {
		return ""
	}
	return t.Styles[kind]
}

// Validate checks the theme name and style keys.
func (t *Theme) Validate() error {
	if err := ValidateAssetName(t.Name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTheme, err)
	}
	for key, decl := range t.Styles {
		if !slices.Contains(StyleKeys, key) {
			return fmt.Errorf("%w: %q: unknown style key %q", ErrInvalidTheme, t.Name, key)
		}
		if strings.ContainsAny(decl, "{}") {
			return fmt.Errorf("%w: %q: style %q must hold declarations only", ErrInvalidTheme, t.Name, key)
		}
	}
	return nil
}

// ParseTheme decodes a theme file strictly. A missing name is filled from
// fallbackName.
func ParseTheme(data []byte, fallbackName string) (*Theme, error) {
	var t Theme
	if err := yamlutil.UnmarshalStrict(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTheme, fallbackName, err)
	}
	if t.Name == "" {
		t.Name = fallbackName
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
