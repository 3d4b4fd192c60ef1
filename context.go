package certpdf

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/alnah/go-certpdf/internal/dateutil"
	"github.com/alnah/go-certpdf/internal/fileutil"
)

// Standard context keys bound by templates. The key names match what the
// layout editor offers in its variable picker.
const (
	KeyLastName      = "nom"
	KeyFirstName     = "prenom"
	KeyDate          = "date"
	KeyEventName     = "event_name"
	KeyOrganizer     = "organizer"
	KeyEligibleHours = "eligible_hours"
	KeySignature     = "signature"
)

// BuildContext produces the standard per-recipient variable bindings for
// an event and registration. The signature key holds a file:// URI when
// the signature image exists under the uploads root, empty otherwise so
// the resolver degrades to a blank block instead of a broken image.
func (s *Service) BuildContext(event Event, reg Registration) Context {
	c := Context{
		KeyLastName:      reg.LastName,
		KeyFirstName:     reg.FirstName,
		KeyDate:          dateutil.FormatEventDate(event.Date),
		KeyEventName:     event.Title,
		KeyOrganizer:     event.Organizer,
		KeyEligibleHours: formatHours(event.EligibleHours),
		KeySignature:     s.signatureURI(event.SignatureFile),
	}
	return c
}

// signatureURI resolves a signature filename under the uploads root to a
// loadable file:// URI. Missing files resolve to an empty value.
func (s *Service) signatureURI(filename string) string {
	if filename == "" || s.resolver.uploadsRoot == "" {
		return ""
	}

	path := filepath.Join(s.resolver.uploadsRoot, filename)
	if !fileutil.FileExists(path) {
		s.cfg.logger.Debug("signature image not found", zap.String("path", path))
		return ""
	}
	return fileutil.FileURI(path)
}
