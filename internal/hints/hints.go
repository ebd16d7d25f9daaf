// Package hints builds the "hint:" lines the CLI appends to error messages.
package hints

import (
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-txt2pdf/internal/fileutil"
)

const prefix = "\n  hint: "

// IsInContainer reports whether the process runs under Docker or Podman.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv") || fileutil.FileExists("/run/.containerenv")
}

// doctorHint closes every environment hint.
const doctorHint = "run 'txt2pdf doctor' to check the setup"

// ForBrowserConnect suggests the rod variables that get Chrome running,
// followed by the doctor command.
func ForBrowserConnect() string {
	var lines []string
	if sandboxed() {
		lines = append(lines, "set ROD_NO_SANDBOX=1 when running in a container or CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		lines = append(lines, "set ROD_BROWSER_BIN to an installed Chrome to skip the download")
	}
	return join(append(lines, doctorHint))
}

// sandboxed reports a CI or container run that still has Chrome's sandbox on.
func sandboxed() bool {
	if os.Getenv("ROD_NO_SANDBOX") == "1" {
		return false
	}
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI"} {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return IsInContainer()
}

// ForTimeout names the flag and the config key that bound an export.
func ForTimeout() string {
	return line("raise --timeout or render.timeout; the first PDF export also downloads Chromium")
}

// ForConfigNotFound suggests --config, or creating the file in the user
// config directory when that was searched.
func ForConfigNotFound(searchedPaths []string) string {
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-txt2pdf") {
			return line("use --config /path/to/file.yaml or create " + p)
		}
	}
	return line("use --config /path/to/file.yaml")
}

func ForOutputDirectory() string {
	return line("check that --output points to a writable location")
}

// ForThemeNotFound lists the available themes.
func ForThemeNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return line("available themes: " + strings.Join(available, ", "))
}

// ForInvalidFileType names the accepted import types.
func ForInvalidFileType(markdown bool) string {
	if markdown {
		return line("accepted: .txt, .md, .markdown")
	}
	return line("accepted: .txt; pass --markdown or set import.markdown for .md files")
}

func ForEmptyDocument() string {
	return line("the document has no visible text; add content before exporting")
}

// ForStoreOpen covers an auto-save database that cannot be opened.
func ForStoreOpen() string {
	return join([]string{"check --store-path is writable, or use --store memory", doctorHint})
}

// ForStoreDriver lists the accepted auto-save drivers.
func ForStoreDriver(drivers []string) string {
	return line("--store accepts " + strings.Join(drivers, ", "))
}

// ForWorkerCount states the accepted --workers range.
func ForWorkerCount(maxWorkers int) string {
	return line(fmt.Sprintf("--workers takes 0 (auto) to %d", maxWorkers))
}

func ForExportInProgress() string {
	return line("wait for the running export to finish, then retry")
}

func line(hint string) string {
	if hint == "" {
		return ""
	}
	return prefix + hint
}

func join(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return line(strings.Join(lines, "; "))
}
