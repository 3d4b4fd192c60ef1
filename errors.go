package certpdf

import "errors"

// Sentinel errors for library operations.
var (
	// ErrNilTemplate indicates a layout render was requested without a template.
	ErrNilTemplate = errors.New("template cannot be nil")

	// ErrTemplateNotFound indicates an explicitly assigned template record
	// does not exist. Callers should surface this as a non-retryable error.
	ErrTemplateNotFound = errors.New("assigned template not found")

	// ErrNotEligible indicates the registration is not marked as attended.
	ErrNotEligible = errors.New("registration is not marked as attended")

	// ErrRenderingUnavailable indicates the HTML-to-PDF runtime is missing
	// in this deployment. Non-retryable; the flow-layout fallback document
	// does not depend on it.
	ErrRenderingUnavailable = errors.New("PDF rendering unavailable")

	// Browser-level errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)
