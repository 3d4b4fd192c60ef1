package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	certpdf "github.com/alnah/go-certpdf"
)

// doctorReport holds the deployment diagnosis: can this machine render
// templated certificates, can it reach the asset roots, and what remains
// usable when the browser runtime is missing.
type doctorReport struct {
	Status   string           `json:"status"` // "ready", "warnings", "errors"
	Layout   layoutEngineInfo `json:"layout_engine"`
	Fallback fallbackInfo     `json:"fallback"`
	Assets   assetRootsInfo   `json:"asset_roots"`
	Warnings []string         `json:"warnings,omitempty"`
	Errors   []string         `json:"errors,omitempty"`
}

// layoutEngineInfo reports whether the templated rendering path (layout
// JSON through headless Chrome) can run.
type layoutEngineInfo struct {
	Available  bool   `json:"available"`
	Detail     string `json:"detail,omitempty"`
	BrowserBin string `json:"rod_browser_bin,omitempty"`
	Sandbox    bool   `json:"sandbox"`
}

// fallbackInfo reports on the flow-layout document path, which needs no
// browser and is therefore always available.
type fallbackInfo struct {
	Available bool   `json:"available"`
	Detail    string `json:"detail"`
}

// assetRootsInfo reports on the two filesystem roots of the asset
// resolution protocol.
type assetRootsInfo struct {
	Static  rootInfo `json:"static"`
	Uploads rootInfo `json:"uploads"`
}

// rootInfo is the check result for one asset root.
type rootInfo struct {
	Path   string `json:"path,omitempty"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	assets assetRootFlags
	json   bool
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string) (*doctorFlags, error) {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	f := &doctorFlags{}

	fs.BoolVar(&f.json, "json", false, "machine-readable output")
	addCommonFlags(fs, &f.common)
	addAssetRootFlags(fs, &f.assets)

	return f, fs.Parse(args)
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args)
	if err != nil {
		return ExitUsage
	}

	if flags.common.config != "" {
		cfg, err := LoadConfig(flags.common.config)
		if err != nil {
			fmt.Fprintf(env.Stderr, "Error: %v\n", err)
			return mapErrorToExitCode(err)
		}
		if flags.assets.staticRoot == "" {
			flags.assets.staticRoot = cfg.Assets.StaticRoot
		}
		if flags.assets.uploadsRoot == "" {
			flags.assets.uploadsRoot = cfg.Assets.UploadsRoot
		}
	}

	report := runDoctor(flags.assets.staticRoot, flags.assets.uploadsRoot)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		printDoctorReport(env.Stdout, report)
	}

	if report.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(staticRoot, uploadsRoot string) *doctorReport {
	report := &doctorReport{Status: "ready"}

	checkLayoutEngine(report, staticRoot, uploadsRoot)
	checkFallbackPath(report)
	checkAssetRoots(report, staticRoot, uploadsRoot)
	checkTempDir(report)

	if len(report.Errors) > 0 {
		report.Status = "errors"
	} else if len(report.Warnings) > 0 {
		report.Status = "warnings"
	}
	return report
}

// checkLayoutEngine asks the rendering service itself whether the
// templated path can run. A missing browser is a warning, not an error:
// the fallback document still renders.
func checkLayoutEngine(report *doctorReport, staticRoot, uploadsRoot string) {
	svc := certpdf.New(staticRoot, uploadsRoot)
	defer func() { _ = svc.Close() }()

	report.Layout.BrowserBin = os.Getenv("ROD_BROWSER_BIN")
	report.Layout.Sandbox = os.Getenv("ROD_NO_SANDBOX") != "1"

	if err := svc.Available(); err != nil {
		report.Layout.Available = false
		if errors.Is(err, certpdf.ErrRenderingUnavailable) {
			report.Layout.Detail = err.Error()
			report.Warnings = append(report.Warnings,
				"templated rendering unavailable; only fallback documents can render: "+err.Error())
		} else {
			report.Layout.Detail = err.Error()
			report.Errors = append(report.Errors, "layout engine check failed: "+err.Error())
		}
		return
	}

	report.Layout.Available = true

	// Chrome refuses its sandbox as root, which is the common case in
	// containers and CI.
	if hint := containerHint(); hint != "" && report.Layout.Sandbox {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("containerized environment detected (%s) but ROD_NO_SANDBOX not set; templated renders may fail to launch Chrome", hint))
	}
}

// containerHint returns the signal identifying a container or CI
// environment, or "" when none is found.
func containerHint() string {
	if os.Getenv("CERTPDF_CONTAINER") == "1" {
		return "CERTPDF_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return "KUBERNETES_SERVICE_HOST"
	}
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(v) != "" {
			return v
		}
	}
	return ""
}

// checkFallbackPath reports the flow-layout document path. It is a pure
// PDF builder with no runtime dependency, so it cannot be unavailable;
// the entry exists to make the degraded mode explicit in the report.
func checkFallbackPath(report *doctorReport) {
	report.Fallback.Available = true
	report.Fallback.Detail = "flow-layout documents render without a browser"
}

// checkAssetRoots verifies the two roots of the asset resolution
// protocol. An unset root is a warning (its URL prefix will never
// resolve); a configured root that is not a readable directory is an
// error, since templates referencing it would silently lose their images.
func checkAssetRoots(report *doctorReport, staticRoot, uploadsRoot string) {
	report.Assets.Static = checkRoot(report, "static", "/static/", staticRoot)
	report.Assets.Uploads = checkRoot(report, "uploads", "/uploads/", uploadsRoot)
}

func checkRoot(report *doctorReport, name, prefix, root string) rootInfo {
	if root == "" {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("no %s root configured; %s references will pass through unresolved", name, prefix))
		return rootInfo{Detail: "not configured"}
	}

	info := rootInfo{Path: root}
	stat, err := os.Stat(root)
	switch {
	case err != nil:
		info.Detail = err.Error()
		report.Errors = append(report.Errors,
			fmt.Sprintf("%s root %s: %v", name, root, err))
	case !stat.IsDir():
		info.Detail = "not a directory"
		report.Errors = append(report.Errors,
			fmt.Sprintf("%s root %s is not a directory", name, root))
	default:
		if _, err := os.ReadDir(root); err != nil {
			info.Detail = err.Error()
			report.Errors = append(report.Errors,
				fmt.Sprintf("%s root %s is not readable: %v", name, root, err))
		} else {
			info.OK = true
		}
	}
	return info
}

// checkTempDir verifies the temp directory, which carries the composed
// HTML handoff file between the compositor and Chrome.
func checkTempDir(report *doctorReport) {
	probe := filepath.Join(os.TempDir(), "certpdf-doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		report.Errors = append(report.Errors,
			fmt.Sprintf("temp directory not writable (templated renders need it): %s", os.TempDir()))
		return
	}
	_ = os.Remove(probe)
}

// printDoctorReport outputs human-readable diagnostic results.
func printDoctorReport(w io.Writer, r *doctorReport) {
	fmt.Fprintln(w, "certpdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Layout engine (templated certificates)")
	if r.Layout.Available {
		fmt.Fprintln(w, "  [OK] Chrome/Chromium runtime available")
	} else {
		fmt.Fprintf(w, "  [WARN] Unavailable: %s\n", r.Layout.Detail)
	}
	if r.Layout.BrowserBin != "" {
		fmt.Fprintf(w, "  [OK] ROD_BROWSER_BIN=%s\n", r.Layout.BrowserBin)
	}
	if r.Layout.Sandbox {
		fmt.Fprintln(w, "  [OK] Sandbox: enabled")
	} else {
		fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Fallback documents")
	fmt.Fprintf(w, "  [OK] %s\n", r.Fallback.Detail)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Asset roots")
	printRootLine(w, "static", r.Assets.Static)
	printRootLine(w, "uploads", r.Assets.Uploads)
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
		fmt.Fprintln(w, "Status: Ready to render")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func printRootLine(w io.Writer, name string, info rootInfo) {
	switch {
	case info.OK:
		fmt.Fprintf(w, "  [OK] %s: %s\n", name, info.Path)
	case info.Path == "":
		fmt.Fprintf(w, "  [WARN] %s: not configured\n", name)
	default:
		fmt.Fprintf(w, "  [ERROR] %s: %s (%s)\n", name, info.Path, info.Detail)
	}
}
