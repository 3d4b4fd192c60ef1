// Package certpdf renders event-attendance certificates to PDF from
// positioned layout templates, using headless Chrome.
//
// # Quick Start
//
// Create a service with the two asset roots, render, and close when done:
//
//	svc := certpdf.New("/srv/app/static", "/srv/app/uploads")
//	defer svc.Close()
//
//	pdfBytes, err := svc.Render(ctx, certpdf.Input{
//	    Template:     tpl, // nil selects the flow-layout fallback
//	    Event:        event,
//	    Registration: reg,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("certificate.pdf", pdfBytes, 0644)
//
// # Rendering Pipeline
//
// The layout path follows these stages:
//
//  1. Context building (recipient, event fields, signature file URI)
//  2. Layout resolution (elements to absolutely-positioned HTML fragments,
//     asset references to file:// URIs)
//  3. Document composition (fixed 794x1123 canvas, background layer)
//  4. PDF rendering via headless Chrome (go-rod), A4 with zero margins
//
// When Input.Template is nil the service instead builds a flow-layout
// certificate with gofpdf: sequential paragraphs, no coordinate system,
// no browser dependency.
//
// # Leniency Contract
//
// The layout resolver never fails on data-shape problems. Malformed
// dimensions resolve to auto, unresolved variable bindings render their
// literal token, unresolvable image references pass through unchanged,
// and unknown element types are skipped. Only environment problems
// surface as errors: ErrRenderingUnavailable when the Chrome runtime is
// missing, ErrTemplateNotFound when an assigned template record is gone.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := certpdf.New(staticRoot, uploadsRoot,
//	    certpdf.WithTimeout(2*time.Minute),
//	    certpdf.WithLogger(logger),
//	)
//
// # Parallel Processing
//
// For batch rendering, use ServicePool to manage multiple browser
// instances:
//
//	pool := certpdf.NewServicePool(4, func() *certpdf.Service {
//	    return certpdf.New(staticRoot, uploadsRoot)
//	})
//	defer pool.Close()
//
//	svc := pool.Acquire()
//	defer pool.Release(svc)
//
// # Browser Requirements
//
// PDF generation for templated certificates requires Chrome/Chromium.
// The go-rod library automatically downloads a managed Chromium instance
// on first run (~/.cache/rod/browser/). For containers and CI
// environments, set ROD_NO_SANDBOX=1 to disable the Chrome sandbox. Use
// ROD_BROWSER_BIN to specify a custom Chrome binary. The fallback
// document renders without a browser.
package certpdf
