package certpdf

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/alnah/go-certpdf/internal/dateutil"
	"github.com/alnah/go-certpdf/internal/fileutil"
	"github.com/alnah/go-certpdf/internal/textutil"
)

// flowRenderer abstracts the zero-configuration fallback document so
// tests can observe which rendering path the service picked.
type flowRenderer interface {
	Render(reg Registration, event Event) ([]byte, error)
}

var _ flowRenderer = (*flowCompositor)(nil)

// Signature image box on the fallback document, in points.
const (
	fallbackSignatureWidthPt  = 200
	fallbackSignatureHeightPt = 50
)

// flowCompositor builds the default attendance certificate: a
// conventional top-to-bottom flowing document with no coordinate system
// and no binding language. It is structurally independent from the
// layout engine and needs no browser, so it stays available when the
// HTML-to-PDF runtime is missing.
type flowCompositor struct {
	uploadsRoot string
	now         func() time.Time // injectable for deterministic tests
}

func newFlowCompositor(uploadsRoot string) *flowCompositor {
	return &flowCompositor{
		uploadsRoot: absOrKeep(uploadsRoot),
		now:         time.Now,
	}
}

// Render produces the flow-layout certificate PDF.
func (f *flowCompositor) Render(reg Registration, event Event) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(72, 72, 72)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 24, "Certificate of Attendance", "", 1, "C", false, 0, "")
	pdf.Ln(24)

	pdf.SetFont("Helvetica", "", 12)
	para := func(text string) {
		pdf.MultiCell(0, 16, text, "", "L", false)
	}

	para("This certifies that:")
	para(fmt.Sprintf("Name: %s %s", reg.FirstName, reg.LastName))
	para(fmt.Sprintf("Has attended the event: %s", event.Title))
	para(fmt.Sprintf("Held on: %s", dateutil.FormatISODate(event.Date)))
	para(fmt.Sprintf("Organized by: %s", event.Organizer))
	pdf.Ln(12)

	para("Event Description:")
	para(textutil.StripTags(event.Description))
	pdf.Ln(12)

	para("Event Program:")
	para(textutil.StripTags(event.Program))
	pdf.Ln(12)

	para(fmt.Sprintf("Eligible Hours: %s", formatHours(event.EligibleHours)))
	pdf.Ln(24)

	para(fmt.Sprintf("Date: %s", dateutil.FormatISODate(f.now())))

	f.addSignature(pdf, event)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return buf.Bytes(), nil
}

// addSignature embeds the organizer's signature image in a fixed small
// box when one is on disk. A missing file is skipped, not an error.
func (f *flowCompositor) addSignature(pdf *gofpdf.Fpdf, event Event) {
	if event.SignatureFile == "" || f.uploadsRoot == "" {
		return
	}

	path := filepath.Join(f.uploadsRoot, event.SignatureFile)
	if !fileutil.FileExists(path) {
		return
	}

	pdf.Ln(24)
	pdf.MultiCell(0, 16, "Signature:", "", "L", false)
	pdf.Ln(12)
	pdf.ImageOptions(path, pdf.GetX(), pdf.GetY(),
		fallbackSignatureWidthPt, fallbackSignatureHeightPt,
		true, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
}

// formatHours renders an eligible-hours count without a trailing .0 for
// whole values.
func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
