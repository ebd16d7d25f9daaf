package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alnah/go-txt2pdf"
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// inputExtensions returns the accepted input extensions.
func inputExtensions(markdown bool) []string {
	if markdown {
		return []string{".txt", ".md", ".markdown"}
	}
	return []string{".txt"}
}

func hasExtension(path string, exts []string) bool {
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}

// discoverFiles finds all input files below inputPath.
func discoverFiles(inputPath, output string, format txt2pdf.Format, exts []string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !hasExtension(inputPath, exts) {
			return nil, fmt.Errorf("%w: %q (accepted: %s)", ErrInvalidExtension, filepath.Ext(inputPath), strings.Join(exts, ", "))
		}
		outPath := resolveOutputPath(inputPath, output, "", format)
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !hasExtension(path, exts) {
			return nil
		}
		outPath := resolveOutputPath(path, output, inputPath, format)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the output path for an input file. An output
// ending in the format's extension names the file itself; otherwise it is a
// directory mirroring the input tree below baseInputDir.
func resolveOutputPath(inputPath, output, baseInputDir string, format txt2pdf.Format) string {
	ext := "." + format.Extension()
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	if output == "" {
		return filepath.Join(filepath.Dir(inputPath), base+ext)
	}

	if strings.EqualFold(filepath.Ext(output), ext) {
		return output
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(output, filepath.Dir(relPath), base+ext)
		}
	}

	return filepath.Join(output, base+ext)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > txt2pdf.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, txt2pdf.MaxPoolSize)
	}
	return nil
}
