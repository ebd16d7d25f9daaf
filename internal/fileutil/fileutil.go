// Package fileutil holds file and path helpers shared by the renderer and
// the CLI.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// MaxBaseNameLength bounds names derived from titles, in runes.
const MaxBaseNameLength = 100

// WriteTempFile stores content in a new temporary file with the given
// extension. The returned cleanup removes the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", "txt2pdf-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, err := tmpFile.WriteString(content); err != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}
	return path, cleanup, nil
}

// ValidateExtension rejects empty extensions and ones that could change the
// directory of a temp file.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// SafeBaseName turns a document title into a file base name. Path
// separators, control characters and characters reserved on Windows are
// replaced by "_", surrounding dots and spaces are trimmed and the result is
// capped at MaxBaseNameLength runes. It returns "" when nothing usable is
// left.
func SafeBaseName(title string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsControl(r), strings.ContainsRune(`/\:*?"<>|`, r):
			sb.WriteByte('_')
		default:
			sb.WriteRune(r)
		}
	}
	name := []rune(strings.Trim(sb.String(), ". "))
	if len(name) > MaxBaseNameLength {
		name = []rune(strings.TrimRight(string(name[:MaxBaseNameLength]), ". "))
	}
	return string(name)
}

// FileExists reports whether path is an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ReplaceExt swaps the extension of path for ext (given without the dot).
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
}

// IsFilePath reports whether s looks like a path rather than a bare name:
// it contains a separator or ends in .yaml/.yml.
func IsFilePath(s string) bool {
	if strings.ContainsAny(s, `/\`) {
		return true
	}
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}
