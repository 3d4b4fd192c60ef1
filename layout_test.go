package certpdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestResolveDimension - Lenient Dimension Parsing
// ---------------------------------------------------------------------------

func TestResolveDimension(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantAuto bool
		wantPx   int
	}{
		{"empty", "", true, 0},
		{"auto literal", "auto", true, 0},
		{"bare integer", "120", false, 120},
		{"px suffix", "120px", false, 120},
		{"spaces around", "  150px  ", false, 150},
		{"float truncated", "99.9", false, 99},
		{"float with suffix", "99.9px", false, 99},
		{"percent suffix", "50%", false, 50},
		{"negative", "-5", true, 0},
		{"negative with suffix", "-5px", true, 0},
		{"non-numeric", "abc", true, 0},
		{"suffix only", "px", true, 0},
		{"numeric prefix kept", "1a2", false, 1},
		{"zero", "0", false, 0},
		{"leading dot", ".5", false, 0},
		{"plus sign", "+30", false, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDimension(tt.value)
			if got.Auto != tt.wantAuto {
				t.Errorf("ResolveDimension(%q).Auto = %v, want %v", tt.value, got.Auto, tt.wantAuto)
			}
			if !tt.wantAuto && got.Px != tt.wantPx {
				t.Errorf("ResolveDimension(%q).Px = %d, want %d", tt.value, got.Px, tt.wantPx)
			}
		})
	}
}

func TestDimension_CSS(t *testing.T) {
	if got := (Dimension{Auto: true}).CSS(); got != "auto" {
		t.Errorf("auto CSS = %q, want auto", got)
	}
	if got := (Dimension{Px: 150}).CSS(); got != "150px" {
		t.Errorf("fixed CSS = %q, want 150px", got)
	}
}

// ---------------------------------------------------------------------------
// TestRenderElement - Text Elements
// ---------------------------------------------------------------------------

func newTestResolver(t *testing.T) *resolver {
	t.Helper()
	return newResolver(t.TempDir(), t.TempDir(), nil)
}

func TestRenderElement_TextWithDefaults(t *testing.T) {
	r := newTestResolver(t)

	el := Element{Type: ElementText, X: 10, Y: 20, Content: "Hello"}
	got := r.renderElement(el, Context{})

	for _, want := range []string{
		"position: absolute;",
		"left: 10px;",
		"top: 20px;",
		"font-size: 16px;",
		"font-family: Arial;",
		"font-weight: normal;",
		"color: #000000;",
		"text-align: left;",
		">Hello</div>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("fragment missing %q:\n%s", want, got)
		}
	}
}

func TestRenderElement_TextWithExplicitStyle(t *testing.T) {
	r := newTestResolver(t)

	el := Element{
		Type: ElementText, X: 5, Y: 7, Content: "Titre",
		Style: Style{
			Width:      "150px",
			FontSize:   "32px",
			FontFamily: "Georgia",
			FontWeight: "bold",
			Color:      "#112233",
			TextAlign:  "center",
		},
	}
	got := r.renderElement(el, Context{})

	for _, want := range []string{
		"width: 150px;",
		"font-size: 32px;",
		"font-family: Georgia;",
		"font-weight: bold;",
		"color: #112233;",
		"text-align: center;",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("fragment missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "height:") {
		t.Errorf("fragment has height rule for auto height:\n%s", got)
	}
}

func TestRenderElement_FractionalCoordinates(t *testing.T) {
	r := newTestResolver(t)

	got := r.renderElement(Element{Type: ElementText, X: 10.5, Y: 0, Content: "x"}, Context{})
	if !strings.Contains(got, "left: 10.5px;") {
		t.Errorf("fragment missing fractional coordinate:\n%s", got)
	}
	if !strings.Contains(got, "top: 0px;") {
		t.Errorf("fragment missing zero coordinate:\n%s", got)
	}
}

// ---------------------------------------------------------------------------
// TestRenderElement - Variable Elements
// ---------------------------------------------------------------------------

func TestRenderElement_VariableSubstitution(t *testing.T) {
	r := newTestResolver(t)

	el := Element{Type: ElementVariable, X: 10, Y: 20, Content: "{{prenom}}"}
	got := r.renderElement(el, Context{"prenom": "Alice"})

	if !strings.Contains(got, "left: 10px;") || !strings.Contains(got, "top: 20px;") {
		t.Errorf("fragment not positioned at (10,20):\n%s", got)
	}
	if !strings.Contains(got, ">Alice</div>") {
		t.Errorf("fragment text is not the substituted value:\n%s", got)
	}
}

func TestRenderElement_MissingKeyKeepsLiteralToken(t *testing.T) {
	r := newTestResolver(t)

	el := Element{Type: ElementVariable, Content: "{{missing_key}}"}
	got := r.renderElement(el, Context{})

	if !strings.Contains(got, ">{{missing_key}}</div>") {
		t.Errorf("fragment does not carry the literal token:\n%s", got)
	}
}

func TestRenderElement_VariableTokenWithSpaces(t *testing.T) {
	r := newTestResolver(t)

	el := Element{Type: ElementVariable, Content: "{{ organizer }}"}
	got := r.renderElement(el, Context{"organizer": "ACME"})

	if !strings.Contains(got, ">ACME</div>") {
		t.Errorf("padded token not resolved:\n%s", got)
	}
}

func TestRenderElement_SignatureBecomesImage(t *testing.T) {
	r := newTestResolver(t)

	el := Element{Type: ElementVariable, X: 30, Y: 40, Content: "{{signature}}"}
	got := r.renderElement(el, Context{"signature": "/srv/uploads/sig.png"})

	if !strings.HasPrefix(got, "<img ") {
		t.Fatalf("signature did not render as an image:\n%s", got)
	}
	if !strings.Contains(got, `src="file:///srv/uploads/sig.png"`) {
		t.Errorf("signature path not converted to file URI:\n%s", got)
	}
	if !strings.Contains(got, "width: 200px;") {
		t.Errorf("signature missing 200px default width:\n%s", got)
	}
	if !strings.Contains(got, "height: auto;") {
		t.Errorf("signature missing auto height:\n%s", got)
	}
}

func TestRenderElement_SignatureKeepsFileURI(t *testing.T) {
	r := newTestResolver(t)

	el := Element{Type: ElementVariable, Content: "{{signature}}"}
	got := r.renderElement(el, Context{"signature": "file:///srv/uploads/sig.png"})

	if !strings.Contains(got, `src="file:///srv/uploads/sig.png"`) {
		t.Errorf("pre-resolved URI was mangled:\n%s", got)
	}
}

func TestRenderElement_SignatureExplicitWidthWins(t *testing.T) {
	r := newTestResolver(t)

	el := Element{
		Type: ElementVariable, Content: "{{signature}}",
		Style: Style{Width: "120px", Height: "60"},
	}
	got := r.renderElement(el, Context{"signature": "/srv/uploads/sig.png"})

	if !strings.Contains(got, "width: 120px;") {
		t.Errorf("explicit width not honored:\n%s", got)
	}
	if !strings.Contains(got, "height: 60px;") {
		t.Errorf("explicit height not honored:\n%s", got)
	}
}

func TestRenderElement_EmptySignatureRendersTextBlock(t *testing.T) {
	r := newTestResolver(t)

	el := Element{Type: ElementVariable, Content: "{{signature}}"}
	got := r.renderElement(el, Context{"signature": ""})

	if strings.HasPrefix(got, "<img ") {
		t.Errorf("empty signature rendered as image:\n%s", got)
	}
	if !strings.Contains(got, "></div>") {
		t.Errorf("empty signature did not render an empty block:\n%s", got)
	}
}

// ---------------------------------------------------------------------------
// TestRenderElement - Image Elements and Asset Resolution
// ---------------------------------------------------------------------------

func TestRenderElement_ImageStaticPrefixResolved(t *testing.T) {
	staticRoot := t.TempDir()
	logoDir := filepath.Join(staticRoot, "img")
	if err := os.MkdirAll(logoDir, 0o750); err != nil {
		t.Fatal(err)
	}
	logo := filepath.Join(logoDir, "logo.png")
	if err := os.WriteFile(logo, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newResolver(staticRoot, "", nil)
	el := Element{Type: ElementImage, X: 1, Y: 2, Content: "/static/img/logo.png"}
	got := r.renderElement(el, Context{})

	if !strings.Contains(got, `src="file://`) || !strings.Contains(got, "logo.png") {
		t.Errorf("static asset not resolved to a file URI:\n%s", got)
	}
	if !strings.Contains(got, "width: auto;") || !strings.Contains(got, "height: auto;") {
		t.Errorf("image defaults are not auto/auto:\n%s", got)
	}
}

func TestRenderElement_ImageUploadsPrefixResolved(t *testing.T) {
	uploadsRoot := t.TempDir()
	pic := filepath.Join(uploadsRoot, "pic.jpg")
	if err := os.WriteFile(pic, []byte("jpg"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newResolver(t.TempDir(), uploadsRoot, nil)
	el := Element{Type: ElementImage, Content: "/uploads/pic.jpg"}
	got := r.renderElement(el, Context{})

	if !strings.Contains(got, `src="file://`) || !strings.Contains(got, "pic.jpg") {
		t.Errorf("uploaded asset not resolved to a file URI:\n%s", got)
	}
}

func TestRenderElement_ImageMissingFilePassesThrough(t *testing.T) {
	r := newTestResolver(t)

	el := Element{Type: ElementImage, Content: "/static/img/missing.png"}
	got := r.renderElement(el, Context{})

	if !strings.Contains(got, `src="/static/img/missing.png"`) {
		t.Errorf("missing asset reference was not passed through:\n%s", got)
	}
}

func TestRenderElement_ImageRemoteURLUntouched(t *testing.T) {
	r := newTestResolver(t)

	el := Element{Type: ElementImage, Content: "https://cdn.example.test/logo.png"}
	got := r.renderElement(el, Context{})

	if !strings.Contains(got, `src="https://cdn.example.test/logo.png"`) {
		t.Errorf("remote URL was rewritten:\n%s", got)
	}
}

func TestRenderElement_ImageHostedStaticURLResolved(t *testing.T) {
	// Full URLs whose path component starts with /static/ resolve too,
	// since the editor stores url_for-style absolute URLs.
	staticRoot := t.TempDir()
	bg := filepath.Join(staticRoot, "bg.png")
	if err := os.WriteFile(bg, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newResolver(staticRoot, "", nil)
	el := Element{Type: ElementImage, Content: "http://localhost:5000/static/bg.png"}
	got := r.renderElement(el, Context{})

	if !strings.Contains(got, `src="file://`) {
		t.Errorf("hosted static URL not resolved via its path:\n%s", got)
	}
}

func TestRenderElement_ImageSizedFromStyle(t *testing.T) {
	r := newTestResolver(t)

	el := Element{
		Type: ElementImage, Content: "x.png",
		Style: Style{Width: "300", Height: "100px"},
	}
	got := r.renderElement(el, Context{})

	if !strings.Contains(got, "width: 300px;") || !strings.Contains(got, "height: 100px;") {
		t.Errorf("image dimensions not applied:\n%s", got)
	}
}

// ---------------------------------------------------------------------------
// TestRenderElement - Unknown Types
// ---------------------------------------------------------------------------

func TestRenderElement_UnknownTypesContributeNothing(t *testing.T) {
	r := newTestResolver(t)

	for _, typ := range []string{"", "shape", "qrcode", "TEXT"} {
		el := Element{Type: typ, X: 1, Y: 2, Content: "ignored"}
		if got := r.renderElement(el, Context{}); got != "" {
			t.Errorf("renderElement(type=%q) = %q, want empty", typ, got)
		}
	}
}

// ---------------------------------------------------------------------------
// TestResolveAssetRef - Degradation
// ---------------------------------------------------------------------------

func TestResolveAssetRef_MalformedURLPassesThrough(t *testing.T) {
	r := newTestResolver(t)

	ref := "http://bad url with spaces\x7f"
	if got := r.resolveAssetRef(ref); got != ref {
		t.Errorf("malformed reference was altered: %q", got)
	}
}

func TestResolveAssetRef_UploadsWithoutRootPassesThrough(t *testing.T) {
	r := newResolver(t.TempDir(), "", nil)

	ref := "/uploads/pic.jpg"
	if got := r.resolveAssetRef(ref); got != ref {
		t.Errorf("uploads reference without a root was altered: %q", got)
	}
}
