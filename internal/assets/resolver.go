package assets

import (
	"errors"
	"sort"
)

// ThemeResolver tries a custom loader first and falls back to the embedded
// themes when the custom location has no such theme.
type ThemeResolver struct {
	custom   ThemeLoader // nil without a custom base path
	embedded ThemeLoader
}

// NewThemeResolver uses only embedded themes when customBasePath is empty.
func NewThemeResolver(customBasePath string) (*ThemeResolver, error) {
	resolver := &ThemeResolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}
	return resolver, nil
}

// LoadTheme resolves name; an empty name selects DefaultTheme.
func (r *ThemeResolver) LoadTheme(name string) (*Theme, error) {
	if name == "" {
		name = DefaultTheme
	}
	if r.custom == nil {
		return r.embedded.LoadTheme(name)
	}

	theme, err := r.custom.LoadTheme(name)
	if err == nil {
		return theme, nil
	}
	// Validation and I/O errors surface; only a miss falls back.
	if !errors.Is(err, ErrThemeNotFound) {
		return nil, err
	}
	return r.embedded.LoadTheme(name)
}

// ListThemes merges custom and embedded names without duplicates.
func (r *ThemeResolver) ListThemes() ([]string, error) {
	names, err := r.embedded.ListThemes()
	if err != nil {
		return nil, err
	}
	if r.custom == nil {
		return names, nil
	}
	custom, err := r.custom.ListThemes()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	for _, n := range custom {
		if !seen[n] {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (r *ThemeResolver) HasCustomLoader() bool {
	return r.custom != nil
}

var _ ThemeLoader = (*ThemeResolver)(nil)
