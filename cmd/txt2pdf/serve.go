package main

import (
	"context"
	"log/slog"

	"github.com/alnah/go-txt2pdf"
	"github.com/alnah/go-txt2pdf/internal/config"
	"github.com/alnah/go-txt2pdf/internal/server"
	"github.com/alnah/go-txt2pdf/internal/store"
)

// runServeCmd parses flags and runs the editor server until ctx is done.
func runServeCmd(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	mergeServeFlags(flags, cfg)
	if err := validateMerged(cfg); err != nil {
		return err
	}

	log := env.logger(flags.common.verbose, flags.common.quiet)

	st, err := store.Open(ctx, store.Options{
		Driver:   cfg.Store.Driver,
		Path:     cfg.Store.Path,
		Compress: cfg.Compress(),
	})
	if err != nil {
		return err
	}
	if st != nil {
		defer func() { _ = st.Close() }()
	}

	saver := txt2pdf.NewAutoSaver(st, cfg.Store.Key, log)
	editor, err := txt2pdf.NewEditor("")
	if err != nil {
		return err
	}
	restored, err := saver.Restore(ctx, editor)
	if err != nil {
		log.Warn("restoring saved content", slog.Any("error", err))
	}

	opts, err := exporterOptions(cfg, env)
	if err != nil {
		return err
	}
	exporter, err := txt2pdf.NewExporter(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = exporter.Close() }()

	srv, err := server.New(server.Options{
		Editor:       editor,
		Exporter:     exporter,
		Importer:     importerFor(cfg),
		Saver:        saver,
		Logger:       log,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
	})
	if err != nil {
		return err
	}

	log.Info("serving",
		slog.String("addr", cfg.Server.Addr),
		slog.String("store", cfg.Store.Driver),
		slog.Bool("restored", restored))
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

// mergeServeFlags merges serve flags into config.
func mergeServeFlags(f *serveFlags, cfg *config.Config) {
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.storeDriver != "" {
		cfg.Store.Driver = f.storeDriver
	}
	if f.storePath != "" {
		cfg.Store.Path = f.storePath
	}
	cfg.Import.Markdown = cfg.Import.Markdown || f.markdown
	mergeExportFlags(&f.export, cfg)
}
