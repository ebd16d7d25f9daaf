package main

import (
	"fmt"
	"strings"

	"github.com/alnah/go-txt2pdf"
	"github.com/alnah/go-txt2pdf/internal/config"
)

// loadConfig returns defaults when name is empty, the loaded file otherwise.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergePageFlags merges page flags into config. CLI values override config values.
func mergePageFlags(f *pageFlags, cfg *config.Config) {
	if f.size != "" {
		cfg.Page.Size = f.size
	}
	if f.orientation != "" {
		cfg.Page.Orientation = f.orientation
	}
	if f.margin != marginUnset {
		cfg.Page.Margin = f.margin
	}
}

// mergeRenderFlags merges rasterization flags into config.
func mergeRenderFlags(f *renderFlags, cfg *config.Config) {
	if f.scale != 0 {
		cfg.Render.Scale = f.scale
	}
	if f.quality != 0 {
		cfg.Render.Quality = f.quality
	}
	if f.timeout != "" {
		cfg.Render.Timeout = f.timeout
	}
}

// mergeExportFlags merges export flags into config.
func mergeExportFlags(f *exportFlags, cfg *config.Config) {
	if f.format != "" {
		cfg.Export.Format = f.format
	}
	if f.theme != "" {
		cfg.Export.Theme = f.theme
	}
	if f.footer != "" {
		cfg.Export.Footer = f.footer
	}
	if f.noFooter {
		cfg.Export.Footer = ""
	}
	if f.dateFormat != "" {
		cfg.Export.DateFormat = f.dateFormat
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
}

// validateMerged re-validates config after flags were merged in.
func validateMerged(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// exporterOptions translates config into exporter options. env options
// come last so they win.
func exporterOptions(cfg *config.Config, env *Environment) ([]txt2pdf.Option, error) {
	format, err := txt2pdf.ParseFormat(cfg.Export.Format)
	if err != nil {
		return nil, err
	}
	opts := []txt2pdf.Option{
		txt2pdf.WithTimeout(cfg.RenderTimeout()),
		txt2pdf.WithFormat(format),
		txt2pdf.WithTheme(cfg.Export.Theme),
		txt2pdf.WithAssetPath(cfg.Assets.BasePath),
		txt2pdf.WithFooter(cfg.Export.Footer),
		txt2pdf.WithDateFormat(cfg.Export.DateFormat),
		txt2pdf.WithRestoreScroll(cfg.RestoreScroll()),
		txt2pdf.WithRenderOptions(txt2pdf.RenderOptions{
			Page: &txt2pdf.PageSettings{
				Size:        strings.ToLower(cfg.Page.Size),
				Orientation: strings.ToLower(cfg.Page.Orientation),
				Margin:      cfg.Page.Margin,
			},
			Scale:        cfg.Render.Scale,
			ImageQuality: cfg.Render.Quality,
		}),
	}
	if env.Now != nil {
		opts = append(opts, txt2pdf.WithClock(env.Now))
	}
	return append(opts, env.ExporterOptions...), nil
}

// importerFor builds an importer from config.
func importerFor(cfg *config.Config) *txt2pdf.Importer {
	return &txt2pdf.Importer{
		MaxBytes: cfg.Import.MaxBytes,
		Markdown: cfg.Import.Markdown,
	}
}
