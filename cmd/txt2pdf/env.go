package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alnah/go-txt2pdf"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	// ExporterOptions are appended to the options built from config.
	// Tests use them to replace the browser renderer.
	ExporterOptions []txt2pdf.Option
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// logger returns a text logger on Stderr. Verbose enables debug records,
// quiet keeps only errors.
func (e *Environment) logger(verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(e.Stderr, &slog.HandlerOptions{Level: level}))
}
