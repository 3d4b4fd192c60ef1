package certpdf

import (
	"fmt"
	"strings"
)

// Fixed certificate canvas in page pixels: A4 at 96 DPI.
const (
	CanvasWidthPx  = 794
	CanvasHeightPx = 1123
)

// pageShell is the fixed-canvas HTML document wrapping the rendered
// elements. The first %s receives the background style rules, the second
// the concatenated element fragments. print-color-adjust is forced to
// exact so print heuristics do not lighten backgrounds.
const pageShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
@page { size: A4; margin: 0; }
body { margin: 0; padding: 0; -webkit-print-color-adjust: exact; print-color-adjust: exact; }
.certificate-container {
  position: relative;
  width: %dpx;
  height: %dpx;
  overflow: hidden;
  %s
}
</style>
</head>
<body>
<div class="certificate-container">%s</div>
</body>
</html>
`

// composeHTML assembles the complete, self-contained certificate
// document: background layer plus every element fragment in list order.
// Identical inputs and filesystem state produce byte-identical output.
func (r *resolver) composeHTML(layout Layout, c Context) string {
	var frags strings.Builder
	for _, el := range layout.Elements {
		frags.WriteString(r.renderElement(el, c))
	}

	return fmt.Sprintf(pageShell,
		CanvasWidthPx, CanvasHeightPx,
		r.backgroundStyle(layout.BackgroundImage),
		frags.String(),
	)
}

// backgroundStyle builds the CSS background rules for the page container.
// The reference goes through the same asset resolution protocol as image
// elements; an unresolvable reference is kept as-is so the renderer can
// still try it, and an absent reference omits the rules entirely.
func (r *resolver) backgroundStyle(ref string) string {
	if ref == "" {
		return ""
	}
	src := r.resolveAssetRef(ref)
	return fmt.Sprintf(`background-image: url("%s"); background-size: cover; background-position: center;`, src)
}
