package txt2pdf

import (
	"errors"

	"github.com/alnah/go-txt2pdf/internal/assets"
)

// Sentinel errors for library operations.
var (
	// Import errors.
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")

	// Export errors.
	ErrEmptyDocument    = errors.New("document is empty")
	ErrExportFailed     = errors.New("export failed")
	ErrExportInProgress = errors.New("an export is already in progress")
	ErrUnknownFormat    = errors.New("unknown export format")

	// Editor errors.
	ErrUnknownCommand      = errors.New("unknown command")
	ErrInvalidCommandValue = errors.New("invalid command value")
	ErrInvalidSelection    = errors.New("invalid selection")

	// Render settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")
	ErrInvalidScale       = errors.New("invalid scale")
	ErrInvalidQuality     = errors.New("invalid image quality")

	// Browser errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Asset loading errors.
	ErrThemeNotFound    = assets.ErrThemeNotFound
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
