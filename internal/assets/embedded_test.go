package assets

import (
	"errors"
	"slices"
	"testing"
)

func TestEmbeddedLoader_LoadTheme(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()
	names, err := loader.ListThemes()
	if err != nil {
		t.Fatalf("ListThemes() error = %v", err)
	}
	for _, want := range []string{"classic", "minimal", "modern"} {
		if !slices.Contains(names, want) {
			t.Errorf("ListThemes() = %v, missing %q", names, want)
		}
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			theme, err := loader.LoadTheme(name)
			if err != nil {
				t.Fatalf("LoadTheme(%q) error = %v", name, err)
			}
			if theme.Name != name {
				t.Errorf("Name = %q, want %q", theme.Name, name)
			}
			if theme.CSS == "" {
				t.Error("built-in theme has no CSS")
			}
			if theme.Style(StylePageBreak) == "" {
				t.Error("built-in theme has no page-break style")
			}
		})
	}
}

func TestEmbeddedLoader_Errors(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()
	if _, err := loader.LoadTheme("nonexistent"); !errors.Is(err, ErrThemeNotFound) {
		t.Errorf("LoadTheme(nonexistent) error = %v, want ErrThemeNotFound", err)
	}
	if _, err := loader.LoadTheme("../classic"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadTheme(../classic) error = %v, want ErrInvalidAssetName", err)
	}
}

func TestClassicTheme_ExportChrome(t *testing.T) {
	t.Parallel()

	theme, err := NewEmbeddedLoader().LoadTheme(DefaultTheme)
	if err != nil {
		t.Fatalf("LoadTheme() error = %v", err)
	}
	if got := theme.Style(StyleTitle); got != "text-align: center; margin-bottom: 20px;" {
		t.Errorf("title style = %q", got)
	}
	if got := theme.Style(StyleFooter); got != "text-align: center; margin-top: 30px; font-size: 12px; color: #666;" {
		t.Errorf("footer style = %q", got)
	}
}
