package main

import (
	"context"
	"errors"

	"github.com/alnah/go-txt2pdf"
	"github.com/alnah/go-txt2pdf/internal/config"
	"github.com/alnah/go-txt2pdf/internal/hints"
	"github.com/alnah/go-txt2pdf/internal/store"
)

// Sentinel errors for CLI operations.
var (
	ErrUnknownCommand     = errors.New("unknown command")
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrReadInput          = errors.New("failed to read input file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrInvalidExtension   = errors.New("unsupported input file extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// formatError appends an actionable hint to the message when one applies.
func formatError(err error) string {
	msg := err.Error()

	var notFound *config.NotFoundError
	switch {
	case errors.As(err, &notFound):
		return msg + hints.ForConfigNotFound(notFound.Tried)
	case errors.Is(err, txt2pdf.ErrBrowserConnect):
		return msg + hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return msg + hints.ForTimeout()
	case errors.Is(err, txt2pdf.ErrThemeNotFound):
		names, _ := txt2pdf.Themes("")
		return msg + hints.ForThemeNotFound(names)
	case errors.Is(err, txt2pdf.ErrInvalidFileType), errors.Is(err, ErrInvalidExtension):
		return msg + hints.ForInvalidFileType(false)
	case errors.Is(err, txt2pdf.ErrEmptyDocument):
		return msg + hints.ForEmptyDocument()
	case errors.Is(err, ErrWriteOutput):
		return msg + hints.ForOutputDirectory()
	case errors.Is(err, store.ErrOpen):
		return msg + hints.ForStoreOpen()
	case errors.Is(err, store.ErrUnknownDrv):
		return msg + hints.ForStoreDriver(config.StoreDrivers)
	case errors.Is(err, ErrInvalidWorkerCount):
		return msg + hints.ForWorkerCount(txt2pdf.MaxPoolSize)
	case errors.Is(err, txt2pdf.ErrExportInProgress):
		return msg + hints.ForExportInProgress()
	}
	return msg
}
