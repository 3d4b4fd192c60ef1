package certpdf

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Service renders attendance certificates. It owns two structurally
// independent backends: the positioned layout engine (HTML composed from
// a template, rendered by headless Chrome) and the flow-layout fallback
// document used when no template is assigned.
type Service struct {
	cfg      serviceConfig
	resolver *resolver
	pdf      pdfConverter
	fallback flowRenderer
}

// New creates a Service. staticRoot and uploadsRoot are the two
// filesystem roots of the asset resolution protocol; they are explicit
// parameters so the engine has no hidden environment coupling. Use
// options to customize behavior (e.g., WithTimeout, WithLogger).
func New(staticRoot, uploadsRoot string, opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			timeout: defaultTimeout,
			logger:  zap.NewNop(),
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.resolver = newResolver(staticRoot, uploadsRoot, s.cfg.logger)

	// Create backends if not injected (e.g., by tests)
	if s.pdf == nil {
		s.pdf = newChromeConverter(s.cfg.timeout, staticRoot)
	}
	if s.fallback == nil {
		s.fallback = newFlowCompositor(uploadsRoot)
	}

	return s
}

// Render produces the certificate PDF for one registration.
//
// The rendering path is a single branch on template presence: a nil
// Input.Template selects the flow-layout fallback, anything else goes
// through the layout engine. Both paths are pure request/response
// transforms; no state is retained between renders, so concurrent calls
// on separate Services are independent.
func (s *Service) Render(ctx context.Context, input Input) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if input.Template == nil {
		if !input.Registration.Attended {
			return nil, ErrNotEligible
		}
		return s.fallback.Render(input.Registration, input.Event)
	}

	c := input.Context
	if c == nil {
		c = s.BuildContext(input.Event, input.Registration)
	}

	htmlContent := s.resolver.composeHTML(input.Template.Layout, c)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdfBytes, err := s.pdf.ToPDF(ctx, htmlContent)
	if err != nil {
		return nil, fmt.Errorf("rendering certificate: %w", err)
	}
	return pdfBytes, nil
}

// ComposeHTML returns the intermediate HTML document for a template and
// context, for debugging and HTML-only output. The result is complete
// and self-contained: every resolvable asset reference is a file:// URI.
func (s *Service) ComposeHTML(tpl *Template, c Context) (string, error) {
	if tpl == nil {
		return "", ErrNilTemplate
	}
	if c == nil {
		c = Context{}
	}
	return s.resolver.composeHTML(tpl.Layout, c), nil
}

// Available reports whether the HTML-to-PDF runtime can be used in this
// deployment. Callers wanting a startup capability flag should call this
// once and surface ErrRenderingUnavailable as a non-retryable condition.
// The fallback document path does not depend on it.
func (s *Service) Available() error {
	return s.pdf.Available()
}

// Close releases resources (headless Chrome browser).
func (s *Service) Close() error {
	if s.pdf != nil {
		return s.pdf.Close()
	}
	return nil
}
