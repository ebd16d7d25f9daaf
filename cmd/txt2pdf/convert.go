package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alnah/go-txt2pdf"
	"github.com/alnah/go-txt2pdf/internal/config"
)

// runConvertCmd parses flags and runs the convert command.
func runConvertCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	return runConvert(ctx, positional, flags, env)
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, inputs []string, flags *convertFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	mergePageFlags(&flags.page, cfg)
	mergeRenderFlags(&flags.render, cfg)
	mergeExportFlags(&flags.export, cfg)
	cfg.Import.Markdown = cfg.Import.Markdown || flags.markdown
	if err := validateMerged(cfg); err != nil {
		return err
	}

	if len(inputs) == 0 {
		return ErrNoInput
	}

	opts, err := exporterOptions(cfg, env)
	if err != nil {
		return err
	}
	format, err := txt2pdf.ParseFormat(cfg.Export.Format)
	if err != nil {
		return err
	}

	exts := inputExtensions(cfg.Import.Markdown)
	var files []FileToConvert
	for _, input := range inputs {
		found, err := discoverFiles(input, flags.output, format, exts)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no matching files in %v", ErrNoInput, inputs)
	}

	log := env.logger(flags.common.verbose, flags.common.quiet)
	poolSize := txt2pdf.ResolvePoolSize(flags.workers)
	log.Debug("starting conversion", slog.Int("files", len(files)), slog.Int("workers", poolSize))

	pool := txt2pdf.NewExporterPool(poolSize, opts...)
	defer func() { _ = pool.Close() }()

	params := newConversionParams(cfg, format, &flags.export)
	results := convertBatch(ctx, pool, files, params)
	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)

	if flags.watch {
		return watchInputs(ctx, inputs, flags.output, exts, pool, params, flags.common, env, log)
	}

	if failed > 0 {
		if len(results) == 1 {
			return results[0].Err
		}
		return fmt.Errorf("%d of %d conversions failed", failed, len(results))
	}
	return nil
}

// newConversionParams collects the per-file settings from merged config.
func newConversionParams(cfg *config.Config, format txt2pdf.Format, f *exportFlags) *conversionParams {
	return &conversionParams{
		importer:     importerFor(cfg),
		format:       format,
		title:        f.title,
		titleSet:     f.titleSet,
		defaultTitle: cfg.Export.DefaultTitle,
	}
}
