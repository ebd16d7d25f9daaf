// Package config loads the YAML configuration shared by the CLI, the HTTP
// server and the MCP server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-txt2pdf/internal/dateutil"
	"github.com/alnah/go-txt2pdf/internal/fileutil"
	"github.com/alnah/go-txt2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppName names the per-user config and data directories.
const AppName = "go-txt2pdf"

// Field length limits.
const (
	MaxTitleLength    = 200
	MaxFooterLength   = 500
	MaxPathLength     = 4096
	MaxKeyLength      = 100
	MaxAddrLength     = 100
	MaxThemeLength    = 64
	MaxDurationLength = 20
)

// Accepted enumerations.
var (
	PageSizes    = []string{"a3", "a4", "a5", "letter", "legal"}
	Orientations = []string{"portrait", "landscape"}
	Formats      = []string{"pdf", "html", "md", "docx"}
	StoreDrivers = []string{"sqlite", "memory", "none"}
)

// Defaults, matching the classic html2pdf export options.
const (
	DefaultPageSize     = "a4"
	DefaultOrientation  = "portrait"
	DefaultMargin       = 10.0 // mm
	DefaultScale        = 2.0
	DefaultQuality      = 0.98
	DefaultTimeout      = 30 * time.Second
	DefaultFormat       = "pdf"
	DefaultFooter       = "Exported from TXT to PDF"
	DefaultStoreKey     = "txt2pdf-content"
	DefaultMaxBytes     = 5 << 20
	DefaultAddr         = ":8080"
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 120 * time.Second
)

// Config holds all settings. Durations are Go duration strings ("30s").
type Config struct {
	Page   PageConfig   `yaml:"page"`
	Render RenderConfig `yaml:"render"`
	Export ExportConfig `yaml:"export"`
	Import ImportConfig `yaml:"import"`
	Store  StoreConfig  `yaml:"store"`
	Server ServerConfig `yaml:"server"`
	Assets AssetsConfig `yaml:"assets"`
}

// PageConfig sets the PDF page geometry.
type PageConfig struct {
	Size        string  `yaml:"size"`
	Orientation string  `yaml:"orientation"`
	Margin      float64 `yaml:"margin"` // millimeters
}

// RenderConfig tunes the renderer.
type RenderConfig struct {
	Scale   float64 `yaml:"scale"`   // device scale factor, 0.1-4
	Quality float64 `yaml:"quality"` // JPEG quality for embedded images, (0, 1]
	Timeout string  `yaml:"timeout"`
}

// ExportConfig controls export content.
type ExportConfig struct {
	Format        string `yaml:"format"`
	Theme         string `yaml:"theme"`
	Footer        string `yaml:"footer"`
	DateFormat    string `yaml:"dateFormat"`
	RestoreScroll *bool  `yaml:"restoreScroll"`
	DefaultTitle  string `yaml:"defaultTitle"`
}

// ImportConfig controls file import.
type ImportConfig struct {
	Markdown bool  `yaml:"markdown"`
	MaxBytes int64 `yaml:"maxBytes"`
}

// StoreConfig selects where auto-saved content lives.
type StoreConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Key      string `yaml:"key"`
	Compress *bool  `yaml:"compress"`
}

// ServerConfig configures `txt2pdf serve`.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	ReadTimeout  string `yaml:"readTimeout"`
	WriteTimeout string `yaml:"writeTimeout"`
}

// AssetsConfig points at custom themes. Empty uses the built-in ones.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"`
}

// DefaultConfig returns a fully populated configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every zero-valued field with its default.
func (c *Config) ApplyDefaults() {
	setString(&c.Page.Size, DefaultPageSize)
	setString(&c.Page.Orientation, DefaultOrientation)
	if c.Page.Margin == 0 {
		c.Page.Margin = DefaultMargin
	}
	if c.Render.Scale == 0 {
		c.Render.Scale = DefaultScale
	}
	if c.Render.Quality == 0 {
		c.Render.Quality = DefaultQuality
	}
	setString(&c.Render.Timeout, DefaultTimeout.String())
	setString(&c.Export.Format, DefaultFormat)
	setString(&c.Export.Footer, DefaultFooter)
	setString(&c.Export.DateFormat, dateutil.DefaultFormat)
	if c.Export.RestoreScroll == nil {
		c.Export.RestoreScroll = boolPtr(true)
	}
	if c.Import.MaxBytes == 0 {
		c.Import.MaxBytes = DefaultMaxBytes
	}
	setString(&c.Store.Driver, "sqlite")
	setString(&c.Store.Path, DefaultStorePath())
	setString(&c.Store.Key, DefaultStoreKey)
	if c.Store.Compress == nil {
		c.Store.Compress = boolPtr(true)
	}
	setString(&c.Server.Addr, DefaultAddr)
	setString(&c.Server.ReadTimeout, DefaultReadTimeout.String())
	setString(&c.Server.WriteTimeout, DefaultWriteTimeout.String())
}

// Validate checks lengths, enumerations, ranges and durations. Called by
// LoadConfig after defaults are applied.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"export.footer", c.Export.Footer, MaxFooterLength},
		{"export.defaultTitle", c.Export.DefaultTitle, MaxTitleLength},
		{"export.theme", c.Export.Theme, MaxThemeLength},
		{"store.path", c.Store.Path, MaxPathLength},
		{"store.key", c.Store.Key, MaxKeyLength},
		{"server.addr", c.Server.Addr, MaxAddrLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	enums := []struct {
		field   string
		value   string
		allowed []string
	}{
		{"page.size", c.Page.Size, PageSizes},
		{"page.orientation", c.Page.Orientation, Orientations},
		{"export.format", c.Export.Format, Formats},
		{"store.driver", c.Store.Driver, StoreDrivers},
	}
	for _, e := range enums {
		if !slices.Contains(e.allowed, strings.ToLower(e.value)) {
			return fmt.Errorf("%w: %s %q (must be one of %s)", ErrInvalidValue, e.field, e.value, strings.Join(e.allowed, ", "))
		}
	}

	if c.Page.Margin < 0 || c.Page.Margin > 50 {
		return fmt.Errorf("%w: page.margin must be between 0 and 50 mm, got %.2f", ErrInvalidValue, c.Page.Margin)
	}
	if c.Render.Scale < 0.1 || c.Render.Scale > 4 {
		return fmt.Errorf("%w: render.scale must be between 0.1 and 4, got %.2f", ErrInvalidValue, c.Render.Scale)
	}
	if c.Render.Quality <= 0 || c.Render.Quality > 1 {
		return fmt.Errorf("%w: render.quality must be in (0, 1], got %.2f", ErrInvalidValue, c.Render.Quality)
	}
	if c.Import.MaxBytes < 0 {
		return fmt.Errorf("%w: import.maxBytes must not be negative", ErrInvalidValue)
	}
	if _, err := dateutil.Layout(c.Export.DateFormat); err != nil {
		return fmt.Errorf("%w: export.dateFormat: %v", ErrInvalidValue, err)
	}

	durations := []struct{ field, value string }{
		{"render.timeout", c.Render.Timeout},
		{"server.readTimeout", c.Server.ReadTimeout},
		{"server.writeTimeout", c.Server.WriteTimeout},
	}
	for _, d := range durations {
		if _, err := parseDuration(d.field, d.value); err != nil {
			return err
		}
	}
	return nil
}

// RenderTimeout returns render.timeout, or the default when unparsable.
func (c *Config) RenderTimeout() time.Duration {
	return durationOr(c.Render.Timeout, DefaultTimeout)
}

func (c *Config) ReadTimeout() time.Duration {
	return durationOr(c.Server.ReadTimeout, DefaultReadTimeout)
}

func (c *Config) WriteTimeout() time.Duration {
	return durationOr(c.Server.WriteTimeout, DefaultWriteTimeout)
}

// RestoreScroll reports export.restoreScroll, true when unset.
func (c *Config) RestoreScroll() bool {
	return c.Export.RestoreScroll == nil || *c.Export.RestoreScroll
}

// Compress reports store.compress, true when unset.
func (c *Config) Compress() bool {
	return c.Store.Compress == nil || *c.Store.Compress
}

// LoadConfig loads a file path, or a config name searched in the current
// directory then the user config directory. A missing file is an error;
// there is no silent fallback to defaults.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := yamlutil.ReadFileStrict(configPath, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveConfigPath tries name.yaml and name.yml in the current directory,
// then in the user config directory.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	dirs := []string{""}
	if userDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userDir, AppName))
	}
	for _, dir := range dirs {
		for _, ext := range extensions {
			p := filepath.Join(dir, name+ext)
			if fileutil.FileExists(p) {
				return p, nil
			}
			tried = append(tried, p)
		}
	}
	return "", &NotFoundError{Name: name, Tried: tried}
}

// NotFoundError lists the paths searched for a named config.
type NotFoundError struct {
	Name  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s (tried %s)", ErrConfigNotFound, e.Name, strings.Join(e.Tried, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }

// DefaultStorePath is $XDG_DATA_HOME/go-txt2pdf/autosave.db, falling back to
// ~/.local/share, then to the working directory.
func DefaultStorePath() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "autosave.db"
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, AppName, "autosave.db")
}

func validateFieldLength(field, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, field, len(value), maxLength)
	}
	return nil
}

func parseDuration(field, value string) (time.Duration, error) {
	if len(value) > MaxDurationLength {
		return 0, fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, field, len(value), MaxDurationLength)
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive duration such as \"30s\", got %q", ErrInvalidValue, field, value)
	}
	return d, nil
}

func durationOr(value string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	return fallback
}

func setString(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

func boolPtr(b bool) *bool { return &b }
