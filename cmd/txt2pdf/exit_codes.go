package main

import (
	"errors"
	"os"

	"github.com/alnah/go-txt2pdf"
	"github.com/alnah/go-txt2pdf/internal/config"
	"github.com/alnah/go-txt2pdf/internal/store"
)

// Exit codes for the txt2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome or export errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, txt2pdf.ErrBrowserConnect) ||
		errors.Is(err, txt2pdf.ErrPageCreate) ||
		errors.Is(err, txt2pdf.ErrPageLoad) ||
		errors.Is(err, txt2pdf.ErrPDFGeneration) ||
		errors.Is(err, txt2pdf.ErrExportFailed) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, store.ErrOpen) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, store.ErrUnknownDrv) ||
		errors.Is(err, txt2pdf.ErrEmptyDocument) ||
		errors.Is(err, txt2pdf.ErrInvalidFileType) ||
		errors.Is(err, txt2pdf.ErrFileTooLarge) ||
		errors.Is(err, txt2pdf.ErrUnknownFormat) ||
		errors.Is(err, txt2pdf.ErrInvalidPageSize) ||
		errors.Is(err, txt2pdf.ErrInvalidOrientation) ||
		errors.Is(err, txt2pdf.ErrInvalidMargin) ||
		errors.Is(err, txt2pdf.ErrInvalidScale) ||
		errors.Is(err, txt2pdf.ErrInvalidQuality) ||
		errors.Is(err, txt2pdf.ErrThemeNotFound) ||
		errors.Is(err, txt2pdf.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}
