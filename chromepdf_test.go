package certpdf

import (
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestInjectIntoHead - Fragment Insertion
// ---------------------------------------------------------------------------

func TestInjectIntoHead(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		fragment string
		want     string
	}{
		{
			"before closing head",
			"<html><head><title>t</title></head><body></body></html>",
			"<base href=\"file:///srv/static/\">",
			"<html><head><title>t</title><base href=\"file:///srv/static/\"></head><body></body></html>",
		},
		{
			"after body when no head",
			"<html><body class=\"x\"><p>hi</p></body></html>",
			"<style>s</style>",
			"<html><body class=\"x\"><style>s</style><p>hi</p></body></html>",
		},
		{
			"prepended when neither",
			"<p>bare</p>",
			"<style>s</style>",
			"<style>s</style><p>bare</p>",
		},
		{
			"empty fragment is a no-op",
			"<html><head></head></html>",
			"",
			"<html><head></head></html>",
		},
		{
			"case-insensitive head match",
			"<HTML><HEAD></HEAD></HTML>",
			"<style>s</style>",
			"<HTML><HEAD><style>s</style></HEAD></HTML>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := injectIntoHead(tt.html, tt.fragment); got != tt.want {
				t.Errorf("injectIntoHead() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBuildPDFOptions - Page Geometry
// ---------------------------------------------------------------------------

func TestBuildPDFOptions_A4ZeroMargin(t *testing.T) {
	opts := buildPDFOptions()

	if *opts.PaperWidth != paperWidthInches || *opts.PaperHeight != paperHeightInches {
		t.Errorf("paper = %.2fx%.2f, want %.2fx%.2f",
			*opts.PaperWidth, *opts.PaperHeight, paperWidthInches, paperHeightInches)
	}
	for name, m := range map[string]*float64{
		"top": opts.MarginTop, "bottom": opts.MarginBottom,
		"left": opts.MarginLeft, "right": opts.MarginRight,
	} {
		if *m != 0 {
			t.Errorf("margin %s = %v, want 0", name, *m)
		}
	}
	if !opts.PrintBackground {
		t.Error("PrintBackground not set")
	}
	if !opts.PreferCSSPageSize {
		t.Error("PreferCSSPageSize not set")
	}
}

// ---------------------------------------------------------------------------
// TestChromeConverter - Base URL Anchoring
// ---------------------------------------------------------------------------

func TestNewChromeConverter_BaseURL(t *testing.T) {
	c := newChromeConverter(time.Second, "/srv/app/static")
	defer c.Close()

	if c.baseURL != "file:///srv/app/static/" {
		t.Errorf("baseURL = %q, want file URI with trailing slash", c.baseURL)
	}
}

func TestNewChromeConverter_EmptyStaticRoot(t *testing.T) {
	c := newChromeConverter(time.Second, "")
	defer c.Close()

	if c.baseURL != "" {
		t.Errorf("baseURL = %q, want empty", c.baseURL)
	}
}

func TestOverrideCSS_AssertsPageRule(t *testing.T) {
	if !strings.Contains(overrideCSS, "@page { size: A4; margin: 0; }") {
		t.Errorf("override CSS missing A4 zero-margin rule: %s", overrideCSS)
	}
}
