package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-txt2pdf/internal/config"
	"github.com/alnah/go-txt2pdf/internal/hints"
	"github.com/alnah/go-txt2pdf/internal/store"
)

// ErrNotReady is returned by doctor when a check reports an error.
var ErrNotReady = errors.New("environment not ready")

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type envInfo struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	Container  bool   `json:"container"`
	CI         bool   `json:"ci"`
	NoSandbox  string `json:"rod_no_sandbox"`
	BrowserBin string `json:"rod_browser_bin"`
}

type systemInfo struct {
	TempWritable bool   `json:"temp_writable"`
	StoreDriver  string `json:"store_driver"`
	StorePath    string `json:"store_path,omitempty"`
	StoreUsable  bool   `json:"store_usable"`
}

// doctorChecks are the environment checks doctor runs; tests replace them.
type doctorChecks struct {
	lookChrome  func() (string, bool)
	chromeVer   func(path string) (string, error)
	inContainer func() bool
	getenv      func(string) string
	tempDir     func() string
	openStore   func(ctx context.Context, opts store.Options) (store.Store, error)
}

func defaultDoctorChecks() doctorChecks {
	return doctorChecks{
		lookChrome: launcher.LookPath,
		chromeVer: func(path string) (string, error) {
			out, err := exec.Command(path, "--version").Output() // #nosec G204 -- detected browser path
			return strings.TrimSpace(string(out)), err
		},
		inContainer: hints.IsInContainer,
		getenv:      os.Getenv,
		tempDir:     os.TempDir,
		openStore:   store.Open,
	}
}

// runDoctorCmd executes the doctor command.
func runDoctorCmd(args []string, env *Environment) error {
	return runDoctorWith(args, env, defaultDoctorChecks())
}

func runDoctorWith(args []string, env *Environment, checks doctorChecks) error {
	jsonOutput := false
	configName := ""
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--json":
			jsonOutput = true
		case (arg == "--config" || arg == "-c") && i+1 < len(args):
			i++
			configName = args[i]
		case strings.HasPrefix(arg, "--config="):
			configName = strings.TrimPrefix(arg, "--config=")
		case arg == "-h" || arg == "--help":
			printDoctorUsage(env.Stdout)
			return nil
		default:
			return fmt.Errorf("%w: doctor: unknown flag %q", ErrUsage, arg)
		}
	}

	cfg, err := loadConfig(configName)
	if err != nil {
		return err
	}

	result := runDoctor(cfg, checks)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return fmt.Errorf("%w: %s", ErrNotReady, strings.Join(result.Errors, "; "))
	}
	return nil
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config, checks doctorChecks) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  checks.getenv("ROD_NO_SANDBOX"),
			BrowserBin: checks.getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result, checks)
	checkEnvironment(result, checks)
	checkTempDir(result, checks)
	checkStore(result, cfg, checks)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

// checkChrome detects Chrome/Chromium. A missing browser only blocks PDF
// export, so it is reported as a warning.
func checkChrome(result *doctorResult, checks doctorChecks) {
	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = checks.lookChrome()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; PDF export needs Chrome or ROD_BROWSER_BIN")
			return
		}
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	if v, err := checks.chromeVer(chromePath); err == nil {
		result.Chrome.Version = v
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

func checkEnvironment(result *doctorResult, checks doctorChecks) {
	result.Env.Container = checks.inContainer()
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if checks.getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

func checkTempDir(result *doctorResult, checks doctorChecks) {
	tmpDir := checks.tempDir()
	f, err := os.CreateTemp(tmpDir, "txt2pdf-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	result.System.TempWritable = true
}

// checkStore opens the configured auto-save store and closes it again.
func checkStore(result *doctorResult, cfg *config.Config, checks doctorChecks) {
	result.System.StoreDriver = cfg.Store.Driver
	if cfg.Store.Driver == "sqlite" {
		result.System.StorePath = cfg.Store.Path
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	st, err := checks.openStore(ctx, store.Options{
		Driver:   cfg.Store.Driver,
		Path:     cfg.Store.Path,
		Compress: cfg.Compress(),
	})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Auto-save store: %v", err))
		return
	}
	if st != nil {
		_ = st.Close()
	}
	result.System.StoreUsable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "txt2pdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	storeDesc := r.System.StoreDriver
	if r.System.StorePath != "" {
		storeDesc += " at " + filepath.Clean(r.System.StorePath)
	}
	if r.System.StoreUsable {
		fmt.Fprintf(w, "  [OK] Auto-save store: %s\n", storeDesc)
	} else {
		fmt.Fprintf(w, "  [ERROR] Auto-save store: %s\n", storeDesc)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
