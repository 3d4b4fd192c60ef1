package main

import (
	"errors"
	"os"

	certpdf "github.com/alnah/go-certpdf"
)

// Exit codes for certpdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful render
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors, rendering unavailable
)

// mapErrorToExitCode translates an error into a CLI exit code.
func mapErrorToExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, certpdf.ErrRenderingUnavailable),
		errors.Is(err, certpdf.ErrBrowserConnect),
		errors.Is(err, certpdf.ErrPageCreate),
		errors.Is(err, certpdf.ErrPageLoad),
		errors.Is(err, certpdf.ErrPDFGeneration):
		return ExitBrowser
	case errors.Is(err, ErrNoLayout),
		errors.Is(err, ErrNoContext),
		errors.Is(err, ErrNoTemplateName),
		errors.Is(err, ErrNoTemplateID),
		errors.Is(err, ErrNoAssetFile),
		errors.Is(err, ErrNoStaticRoot),
		errors.Is(err, ErrInvalidWorkerCount),
		errors.Is(err, ErrConfigNotFound),
		errors.Is(err, ErrConfigParse):
		return ExitUsage
	case errors.Is(err, os.ErrNotExist),
		errors.Is(err, os.ErrPermission),
		errors.Is(err, certpdf.ErrTemplateNotFound),
		errors.Is(err, ErrReadLayout),
		errors.Is(err, ErrReadContext),
		errors.Is(err, ErrWriteOutput):
		return ExitIO
	default:
		return ExitGeneral
	}
}
