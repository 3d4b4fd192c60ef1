package main

// Notes:
// - template/asset commands: we test through run() so the dispatch,
//   flag parsing, and store wiring are all exercised together.
// - render --template-id: the happy path uses --html-only so the store
//   lookup and composition run without a browser.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// createTemplate runs "template create" and returns the new template ID.
func createTemplate(t *testing.T, dir, name string) string {
	t.Helper()

	env, stdout, stderr := testEnv()
	code := run([]string{"template", "create", "-n", name, "--templates-dir", dir}, env)
	if code != ExitSuccess {
		t.Fatalf("template create = %d, stderr: %s", code, stderr.String())
	}

	// Output shape: "Created template <id> (<name>)"
	fields := strings.Fields(stdout.String())
	if len(fields) < 3 {
		t.Fatalf("unexpected create output: %q", stdout.String())
	}
	return fields[2]
}

// ---------------------------------------------------------------------------
// TestTemplateCmd - Store lifecycle through the CLI
// ---------------------------------------------------------------------------

func TestTemplateCmd_CreateAndList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	id := createTemplate(t, dir, "Diploma")

	env, stdout, _ := testEnv()
	code := run([]string{"template", "list", "--templates-dir", dir}, env)
	if code != ExitSuccess {
		t.Fatalf("template list = %d", code)
	}
	if !strings.Contains(stdout.String(), id) {
		t.Errorf("list output missing template id %s:\n%s", id, stdout.String())
	}
	if !strings.Contains(stdout.String(), "Diploma") {
		t.Errorf("list output missing template name:\n%s", stdout.String())
	}
}

func TestTemplateCmd_Duplicate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	id := createTemplate(t, dir, "Diploma")

	env, stdout, stderr := testEnv()
	code := run([]string{"template", "duplicate", id, "--templates-dir", dir}, env)
	if code != ExitSuccess {
		t.Fatalf("template duplicate = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Diploma (copy)") {
		t.Errorf("duplicate output missing copy name:\n%s", stdout.String())
	}
	if strings.Contains(stdout.String(), id) {
		t.Error("duplicate should print a fresh id, not the source id")
	}
}

func TestTemplateCmd_Delete(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	id := createTemplate(t, dir, "Diploma")

	env, _, _ := testEnv()
	if code := run([]string{"template", "delete", id, "--templates-dir", dir}, env); code != ExitSuccess {
		t.Fatalf("template delete = %d", code)
	}

	env, _, stderr := testEnv()
	code := run([]string{"template", "delete", id, "--templates-dir", dir}, env)
	if code != ExitIO {
		t.Errorf("deleting a missing template = %d, want %d (not found)", code, ExitIO)
	}
	if !strings.Contains(stderr.String(), "template not found") {
		t.Errorf("stderr should name the missing template, got %q", stderr.String())
	}
}

func TestTemplateCmd_CreateRequiresName(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	code := run([]string{"template", "create", "--templates-dir", t.TempDir()}, env)
	if code != ExitUsage {
		t.Errorf("template create without name = %d, want %d", code, ExitUsage)
	}
}

func TestTemplateCmd_UnknownAction(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	code := run([]string{"template", "frobnicate", "--templates-dir", t.TempDir()}, env)
	if code != ExitGeneral {
		t.Errorf("unknown template action = %d, want %d", code, ExitGeneral)
	}
}

// ---------------------------------------------------------------------------
// TestAssetCmd - Upload into the static asset store
// ---------------------------------------------------------------------------

func TestAssetCmd_Upload(t *testing.T) {
	t.Parallel()

	staticRoot := t.TempDir()
	src := filepath.Join(t.TempDir(), "logo.PNG")
	if err := os.WriteFile(src, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	env, stdout, stderr := testEnv()
	code := run([]string{"asset", "upload", src, "--static-root", staticRoot}, env)
	if code != ExitSuccess {
		t.Fatalf("asset upload = %d, stderr: %s", code, stderr.String())
	}

	urlPath := strings.TrimSpace(stdout.String())
	if !strings.HasPrefix(urlPath, "/static/uploads/certificates/") {
		t.Fatalf("printed path = %q, want a /static/uploads/certificates/ URL", urlPath)
	}
	if !strings.HasSuffix(urlPath, ".png") {
		t.Errorf("printed path = %q, want lowercased .png extension", urlPath)
	}

	stored := filepath.Join(staticRoot, strings.TrimPrefix(urlPath, "/static/"))
	data, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("uploaded asset not on disk: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("stored content = %q, want source bytes", data)
	}
}

func TestAssetCmd_RequiresStaticRoot(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	code := run([]string{"asset", "upload", "logo.png"}, env)
	if code != ExitUsage {
		t.Errorf("asset upload without static root = %d, want %d", code, ExitUsage)
	}
}

// ---------------------------------------------------------------------------
// TestRender_TemplateID - Stored templates feed the render path
// ---------------------------------------------------------------------------

func TestRender_TemplateIDNotFound(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv()
	code := run([]string{
		"render",
		"--template-id", "no-such-template",
		"--templates-dir", t.TempDir(),
		"--context", "ctx.yaml",
	}, env)

	if code != ExitIO {
		t.Errorf("render with missing template = %d, want %d", code, ExitIO)
	}
	if !strings.Contains(stderr.String(), "template not found") {
		t.Errorf("stderr should name the missing template, got %q", stderr.String())
	}
}

func TestRender_TemplateIDHTMLOnly(t *testing.T) {
	t.Parallel()

	templatesDir := t.TempDir()
	id := createTemplate(t, templatesDir, "Diploma")

	// Give the stored template a variable element to substitute.
	layoutPath := filepath.Join(templatesDir, id+".json")
	data, err := os.ReadFile(layoutPath)
	if err != nil {
		t.Fatal(err)
	}
	patched := strings.Replace(string(data), `"elements": []`,
		`"elements": [{"type":"variable","x":40,"y":60,"content":"{{nom}}"}]`, 1)
	if patched == string(data) {
		t.Fatalf("could not patch stored layout:\n%s", data)
	}
	if err := os.WriteFile(layoutPath, []byte(patched), 0o644); err != nil {
		t.Fatal(err)
	}

	workDir := t.TempDir()
	ctxPath := filepath.Join(workDir, "jane.yaml")
	if err := os.WriteFile(ctxPath, []byte("nom: Martin\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(workDir, "jane.html")

	env, _, stderr := testEnv()
	code := run([]string{
		"render",
		"--template-id", id,
		"--templates-dir", templatesDir,
		"--context", ctxPath,
		"--out", outPath,
		"--html-only",
	}, env)
	if code != ExitSuccess {
		t.Fatalf("render = %d, stderr: %s", code, stderr.String())
	}

	html, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(html), "Martin") {
		t.Errorf("composed HTML missing substituted variable:\n%s", html)
	}
}

func TestRender_LayoutAndTemplateIDConflict(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	code := run([]string{
		"render",
		"--layout", "a.json",
		"--template-id", "b",
		"--context", "ctx.yaml",
	}, env)
	if code != ExitUsage {
		t.Errorf("conflicting layout sources = %d, want %d", code, ExitUsage)
	}
}
