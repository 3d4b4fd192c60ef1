package main

// Notes:
// - parseRenderFlags: we test long and short forms plus defaults. pflag's
//   own parsing is trusted; we only verify our wiring.
// These are acceptable gaps: we test observable behavior, not implementation details.

import "testing"

// ---------------------------------------------------------------------------
// TestParseRenderFlags - Render flag parsing
// ---------------------------------------------------------------------------

func TestParseRenderFlags(t *testing.T) {
	t.Parallel()

	flags, args, err := parseRenderFlags([]string{
		"--layout", "diploma.json",
		"--context", "jane.yaml",
		"--out", "jane.pdf",
		"--static-root", "/srv/static",
		"--uploads-root", "/srv/uploads",
		"--workers", "4",
		"--timeout", "45s",
		"--html-only",
		"--verbose",
	})
	if err != nil {
		t.Fatalf("parseRenderFlags() error: %v", err)
	}

	if len(args) != 0 {
		t.Errorf("positional args = %v, want none", args)
	}
	if flags.input.layout != "diploma.json" {
		t.Errorf("layout = %q, want diploma.json", flags.input.layout)
	}
	if flags.input.context != "jane.yaml" {
		t.Errorf("context = %q, want jane.yaml", flags.input.context)
	}
	if flags.output.out != "jane.pdf" {
		t.Errorf("out = %q, want jane.pdf", flags.output.out)
	}
	if flags.assets.staticRoot != "/srv/static" {
		t.Errorf("staticRoot = %q, want /srv/static", flags.assets.staticRoot)
	}
	if flags.assets.uploadsRoot != "/srv/uploads" {
		t.Errorf("uploadsRoot = %q, want /srv/uploads", flags.assets.uploadsRoot)
	}
	if flags.workers != 4 {
		t.Errorf("workers = %d, want 4", flags.workers)
	}
	if flags.timeout != "45s" {
		t.Errorf("timeout = %q, want 45s", flags.timeout)
	}
	if !flags.output.htmlOnly {
		t.Error("htmlOnly = false, want true")
	}
	if !flags.common.verbose {
		t.Error("verbose = false, want true")
	}
}

func TestParseRenderFlags_ShortForms(t *testing.T) {
	t.Parallel()

	flags, _, err := parseRenderFlags([]string{
		"-l", "diploma.json",
		"-o", "out.pdf",
		"-w", "2",
		"-t", "1m",
		"-q",
	})
	if err != nil {
		t.Fatalf("parseRenderFlags() error: %v", err)
	}

	if flags.input.layout != "diploma.json" {
		t.Errorf("layout = %q, want diploma.json", flags.input.layout)
	}
	if flags.output.out != "out.pdf" {
		t.Errorf("out = %q, want out.pdf", flags.output.out)
	}
	if flags.workers != 2 {
		t.Errorf("workers = %d, want 2", flags.workers)
	}
	if !flags.common.quiet {
		t.Error("quiet = false, want true")
	}
}

func TestParseRenderFlags_Defaults(t *testing.T) {
	t.Parallel()

	flags, _, err := parseRenderFlags(nil)
	if err != nil {
		t.Fatalf("parseRenderFlags() error: %v", err)
	}

	if flags.workers != 0 {
		t.Errorf("workers = %d, want 0 (auto)", flags.workers)
	}
	if flags.output.htmlOnly {
		t.Error("htmlOnly = true, want false")
	}
	if flags.common.config != "" {
		t.Errorf("config = %q, want empty", flags.common.config)
	}
}

func TestParseRenderFlags_Unknown(t *testing.T) {
	t.Parallel()

	_, _, err := parseRenderFlags([]string{"--no-such-flag"})
	if err == nil {
		t.Fatal("parseRenderFlags() should fail on unknown flag")
	}
}
