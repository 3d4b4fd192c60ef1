package certpdf

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-certpdf/internal/fileutil"
)

// Recognized URL-path prefixes for the asset resolution protocol. Each
// maps 1:1 onto a filesystem root passed to the resolver.
const (
	staticURLPrefix  = "/static/"
	uploadsURLPrefix = "/uploads/"
)

// Text styling defaults applied when an element's style omits a field.
const (
	defaultFontSize   = "16px"
	defaultFontFamily = "Arial"
	defaultFontWeight = "normal"
	defaultTextColor  = "#000000"
	defaultTextAlign  = "left"
)

// defaultSignatureWidth is the rendered width of a signature image when
// the element does not set one. This default is specific to the
// signature variable; plain image elements default to natural size.
const defaultSignatureWidth = "200px"

// signatureKey is the context key with image semantics: its value is an
// image reference, not display text.
const signatureKey = "signature"

// Dimension is a resolved style length: either automatic (natural size)
// or a fixed non-negative pixel count.
type Dimension struct {
	Px   int
	Auto bool
}

// String renders the dimension the way it appears in a CSS length,
// without the px suffix.
func (d Dimension) String() string {
	if d.Auto {
		return "auto"
	}
	return strconv.Itoa(d.Px)
}

// CSS renders the dimension as a CSS length value.
func (d Dimension) CSS() string {
	if d.Auto {
		return "auto"
	}
	return strconv.Itoa(d.Px) + "px"
}

// ResolveDimension parses a style dimension leniently. The value may be
// empty, "auto", a bare number, or a number with a trailing unit suffix
// ("120px"). The numeric prefix is parsed as a real number and truncated
// to an integer. Missing, non-numeric, and negative values all resolve
// to auto. Never fails: malformed editor output must not crash a render.
func ResolveDimension(value string) Dimension {
	s := strings.TrimSpace(value)
	if s == "" || s == "auto" {
		return Dimension{Auto: true}
	}

	num, err := strconv.ParseFloat(numericPrefix(s), 64)
	if err != nil || num < 0 {
		return Dimension{Auto: true}
	}
	return Dimension{Px: int(num)}
}

// numericPrefix returns the leading substring of s that can form a real
// number: an optional sign, digits, and at most one decimal point.
func numericPrefix(s string) string {
	end := 0
	seenDot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			end = i + 1
		case r == '.' && !seenDot:
			seenDot = true
			end = i + 1
		case (r == '-' || r == '+') && i == 0:
			end = i + 1
		default:
			return s[:end]
		}
	}
	return s[:end]
}

// resolver transforms layout elements into absolutely-positioned HTML
// fragments, resolving static/uploads/absolute references into URIs a
// downstream HTML renderer can load without a network round trip.
//
// Both roots are explicit so the resolver is a pure function of its
// inputs plus readable filesystem state.
type resolver struct {
	staticRoot  string // absolute path of the static assets root
	uploadsRoot string // absolute path of the uploads root, may be empty
	log         *zap.Logger
}

func newResolver(staticRoot, uploadsRoot string, log *zap.Logger) *resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &resolver{
		staticRoot:  absOrKeep(staticRoot),
		uploadsRoot: absOrKeep(uploadsRoot),
		log:         log,
	}
}

// absOrKeep makes a path absolute, keeping the original if it cannot be
// resolved (same degrade-and-continue contract as the rest of the resolver).
func absOrKeep(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// renderElement emits the HTML fragment for one element. Unknown element
// types contribute nothing. Element content is trusted as-is: layouts
// come from the authenticated template editor, never from end users, so
// no HTML escaping happens here.
func (r *resolver) renderElement(el Element, c Context) string {
	switch el.Kind() {
	case KindText:
		return fmt.Sprintf(`<div style="%s">%s</div>`, r.textStyle(el), el.Content)

	case KindVariable:
		return r.renderVariable(el, c)

	case KindImage:
		src := r.resolveAssetRef(el.Content)
		return r.imageTag(el, src, Dimension{Auto: true})
	}
	return ""
}

// renderVariable substitutes the element's binding token from the
// context. A missing key falls back to the literal token text, which
// keeps broken bindings visible on the document instead of blank.
func (r *resolver) renderVariable(el Element, c Context) string {
	key := bindingKey(el.Content)
	val, ok := c[key]
	if !ok {
		val = el.Content
	}

	// The signature variable carries an image reference, not text.
	if key == signatureKey && val != "" {
		src := val
		if fileutil.IsAbsPath(src) {
			src = fileutil.FileURI(src)
		}
		return r.imageTag(el, src, ResolveDimension(defaultSignatureWidth))
	}

	return fmt.Sprintf(`<div style="%s">%s</div>`, r.textStyle(el), val)
}

// bindingKey strips the {{ }} delimiters from a binding token.
func bindingKey(content string) string {
	key := strings.ReplaceAll(content, "{{", "")
	key = strings.ReplaceAll(key, "}}", "")
	return strings.TrimSpace(key)
}

// imageTag emits an absolutely positioned <img>. widthDefault is used
// when the element's width style resolves to auto; pass an auto
// dimension to keep natural sizing.
func (r *resolver) imageTag(el Element, src string, widthDefault Dimension) string {
	width := ResolveDimension(string(el.Style.Width))
	if width.Auto {
		width = widthDefault
	}
	height := ResolveDimension(string(el.Style.Height))

	return fmt.Sprintf(
		`<img src="%s" style="position: absolute; left: %spx; top: %spx; width: %s; height: %s; display: block;">`,
		src, formatCoord(el.X), formatCoord(el.Y), width.CSS(), height.CSS(),
	)
}

// textStyle builds the inline style for text and variable blocks:
// absolute position, optional fixed dimensions, and font styling with
// engine defaults for absent fields.
func (r *resolver) textStyle(el Element) string {
	var b strings.Builder
	fmt.Fprintf(&b, "position: absolute; left: %spx; top: %spx;", formatCoord(el.X), formatCoord(el.Y))

	if w := ResolveDimension(string(el.Style.Width)); !w.Auto {
		fmt.Fprintf(&b, " width: %dpx;", w.Px)
	}
	if h := ResolveDimension(string(el.Style.Height)); !h.Auto {
		fmt.Fprintf(&b, " height: %dpx;", h.Px)
	}

	fmt.Fprintf(&b, " font-size: %s; font-family: %s; font-weight: %s; color: %s; text-align: %s;",
		orDefault(string(el.Style.FontSize), defaultFontSize),
		orDefault(el.Style.FontFamily, defaultFontFamily),
		orDefault(el.Style.FontWeight, defaultFontWeight),
		orDefault(el.Style.Color, defaultTextColor),
		orDefault(el.Style.TextAlign, defaultTextAlign),
	)
	return b.String()
}

// resolveAssetRef maps a static or uploads URL path onto its filesystem
// root and converts it to a file:// URI when the file exists. Everything
// else passes through unchanged: an absolute remote URL stays remote,
// and a broken reference stays broken rather than failing the render.
func (r *resolver) resolveAssetRef(ref string) string {
	if ref == "" {
		return ref
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		r.log.Warn("resolving asset reference", zap.String("ref", ref), zap.Error(err))
		return ref
	}

	var abs string
	path := parsed.Path
	switch {
	case strings.HasPrefix(path, staticURLPrefix):
		rel := strings.TrimLeft(strings.TrimPrefix(path, staticURLPrefix), "/")
		abs = filepath.Join(r.staticRoot, filepath.FromSlash(rel))
	case strings.HasPrefix(path, uploadsURLPrefix):
		if r.uploadsRoot == "" {
			return ref
		}
		rel := strings.TrimLeft(strings.TrimPrefix(path, uploadsURLPrefix), "/")
		abs = filepath.Join(r.uploadsRoot, filepath.FromSlash(rel))
	default:
		return ref
	}

	if !fileutil.FileExists(abs) {
		r.log.Debug("asset not found on disk, passing reference through",
			zap.String("ref", ref), zap.String("path", abs))
		return ref
	}
	return fileutil.FileURI(abs)
}

// formatCoord renders a pixel coordinate without a trailing .0 for
// whole numbers.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// orDefault returns s, or def when s is empty.
func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
