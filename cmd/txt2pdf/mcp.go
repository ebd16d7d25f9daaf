package main

import (
	"context"
	"log/slog"

	"github.com/alnah/go-txt2pdf"
	"github.com/alnah/go-txt2pdf/internal/mcptools"
)

// runMCPCmd serves the MCP tools on stdio, or on HTTP with --http.
func runMCPCmd(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseMCPFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	mergeExportFlags(&flags.export, cfg)
	if err := validateMerged(cfg); err != nil {
		return err
	}

	opts, err := exporterOptions(cfg, env)
	if err != nil {
		return err
	}
	pool := txt2pdf.NewExporterPool(txt2pdf.ResolvePoolSize(flags.workers), opts...)
	defer func() { _ = pool.Close() }()

	s := mcptools.NewServer(Version, pool, importerFor(cfg))

	if flags.http == "" {
		// stdout carries the protocol; logs stay on stderr.
		return mcptools.ServeStdio(s)
	}
	log := env.logger(flags.common.verbose, flags.common.quiet)
	log.Info("serving mcp", slog.String("addr", flags.http), slog.String("path", mcptools.EndpointPath))
	return mcptools.ServeHTTP(ctx, s, flags.http)
}
