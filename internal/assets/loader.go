package assets

// ThemeLoader loads export themes by name (without the .yaml extension).
type ThemeLoader interface {
	// LoadTheme returns ErrThemeNotFound when no such theme exists and
	// ErrInvalidAssetName when name is unsafe.
	LoadTheme(name string) (*Theme, error)

	// ListThemes returns the available theme names, sorted.
	ListThemes() ([]string, error)
}
