package certpdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-certpdf/internal/fileutil"
)

// pdfConverter abstracts HTML to PDF conversion to allow different backends.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string) ([]byte, error)
	Available() error
	Close() error
}

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string) ([]byte, error)
}

// Compile-time interface checks
var (
	_ pdfConverter = (*chromeConverter)(nil)
	_ pdfRenderer  = (*chromeRenderer)(nil)
)

// PDF page dimensions in inches (A4, zero margins: the certificate
// canvas is full-bleed).
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
)

// overrideCSS re-asserts the A4 zero-margin page rule at print time,
// in case a composed document ever omits it.
const overrideCSS = `<style>@page { size: A4; margin: 0; } body { margin: 0; padding: 0; }</style>`

// chromeRenderer implements pdfRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type chromeRenderer struct {
	browser *rod.Browser
	timeout time.Duration
}

func newChromeRenderer(timeout time.Duration) *chromeRenderer {
	return &chromeRenderer{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (r *chromeRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (r *chromeRenderer) Close() error {
	if r.browser != nil {
		err := r.browser.Close()
		r.browser = nil
		return err
	}
	return nil
}

// RenderFromFile opens a local HTML file in headless Chrome and renders
// it to PDF with the fixed certificate page geometry.
func (r *chromeRenderer) RenderFromFile(ctx context.Context, filePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(buildPDFOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// buildPDFOptions constructs the Chrome print options for a certificate:
// A4 paper, zero margins, backgrounds painted.
func buildPDFOptions() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:        floatPtr(paperWidthInches),
		PaperHeight:       floatPtr(paperHeightInches),
		MarginTop:         floatPtr(0),
		MarginBottom:      floatPtr(0),
		MarginLeft:        floatPtr(0),
		MarginRight:       floatPtr(0),
		PrintBackground:   true,
		PreferCSSPageSize: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// chromeConverter converts HTML to PDF using headless Chrome via go-rod.
type chromeConverter struct {
	renderer *chromeRenderer
	baseURL  string // file:// URI of the static root, for leftover relative URLs
}

// newChromeConverter creates a chromeConverter with production renderer.
// staticRoot anchors relative URLs left unresolved in the document.
func newChromeConverter(timeout time.Duration, staticRoot string) *chromeConverter {
	baseURL := ""
	if staticRoot != "" {
		baseURL = fileutil.FileURI(absOrKeep(staticRoot)) + "/"
	}
	return &chromeConverter{
		renderer: newChromeRenderer(timeout),
		baseURL:  baseURL,
	}
}

// ToPDF converts HTML content to PDF bytes using headless Chrome.
// Browser connection failures surface as ErrRenderingUnavailable since a
// missing Chrome runtime is an environment problem, not a document one.
func (c *chromeConverter) ToPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	htmlContent = injectIntoHead(htmlContent, overrideCSS)
	if c.baseURL != "" {
		htmlContent = injectIntoHead(htmlContent, fmt.Sprintf(`<base href="%s">`, c.baseURL))
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	pdfBytes, err := c.renderer.RenderFromFile(ctx, tmpPath)
	if err != nil {
		if isUnavailable(err) {
			return nil, fmt.Errorf("%w: %v", ErrRenderingUnavailable, err)
		}
		return nil, err
	}
	return pdfBytes, nil
}

// Available probes for a usable Chrome/Chromium without launching one.
// A nil return means a browser binary was found; ErrRenderingUnavailable
// means none is installed, though rod may still download a managed
// Chromium on first render unless downloads are blocked.
func (c *chromeConverter) Available() error {
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		if fileutil.FileExists(bin) {
			return nil
		}
		return fmt.Errorf("%w: ROD_BROWSER_BIN=%q does not exist", ErrRenderingUnavailable, bin)
	}
	if _, found := launcher.LookPath(); found {
		return nil
	}
	return fmt.Errorf("%w: no Chrome/Chromium binary found", ErrRenderingUnavailable)
}

// Close releases browser resources.
func (c *chromeConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}

// isUnavailable reports whether an error stems from the browser runtime
// rather than the document being rendered.
func isUnavailable(err error) bool {
	return errors.Is(err, ErrBrowserConnect)
}

// injectIntoHead inserts a fragment into an HTML document.
// Tries before </head> first, then after <body...>, then prepends.
func injectIntoHead(htmlContent, fragment string) string {
	if fragment == "" {
		return htmlContent
	}

	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + fragment + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + fragment + htmlContent[insertPos:]
		}
	}

	return fragment + htmlContent
}
