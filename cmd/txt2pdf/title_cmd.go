package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-txt2pdf"
)

// runTitleCmd prints the detected title of each file. With several files
// every line is prefixed by the file path.
func runTitleCmd(args []string, env *Environment) error {
	flags, files, err := parseTitleFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(files) == 0 {
		return ErrNoInput
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	cfg.Import.Markdown = cfg.Import.Markdown || flags.markdown
	importer := importerFor(cfg)

	for _, path := range files {
		title, err := titleOf(importer, path, cfg.Export.DefaultTitle)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if len(files) > 1 {
			fmt.Fprintf(env.Stdout, "%s: %s\n", path, title)
		} else {
			fmt.Fprintln(env.Stdout, title)
		}
	}
	return nil
}

func titleOf(importer *txt2pdf.Importer, path, fallback string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	markup, err := importer.Import(context.Background(), filepath.Base(path), "", data)
	if err != nil {
		return "", err
	}
	ed, err := txt2pdf.NewEditor(markup)
	if err != nil {
		return "", err
	}
	return txt2pdf.DetectTitleOr(ed, fallback), nil
}
