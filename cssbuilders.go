package reportpdf

import (
	"fmt"
	"strings"
)

// defaultFontFamily is used by the footer template and the watermark.
const defaultFontFamily = "Helvetica, Arial, sans-serif"

const watermarkFontSize = "8rem"

// buildWatermarkCSS draws w.Text diagonally behind every printed page.
func buildWatermarkCSS(w *Watermark) string {
	if w == nil || w.Text == "" {
		return ""
	}

	color := w.Color
	if color == "" {
		color = DefaultWatermarkColor
	}
	opacity := w.Opacity
	if opacity == 0 {
		opacity = DefaultWatermarkOpacity
	}

	return fmt.Sprintf(`
/* Watermark */
body::before {
  content: "%s";
  position: fixed;
  top: 50%%;
  left: 50%%;
  transform: translate(-50%%, -50%%) rotate(%.1fdeg);
  font-size: %s;
  font-weight: bold;
  color: %s;
  opacity: %.2f;
  z-index: -1;
  pointer-events: none;
  white-space: nowrap;
  font-family: %s;
}
`, escapeCSSString(breakURLPattern(w.Text)), w.Angle, watermarkFontSize, color, opacity, defaultFontFamily)
}

// buildThemeCSS overrides the stylesheet's color custom properties.
// html:root outranks the plain :root of the style, which comes later.
func buildThemeCSS(t *Theme) string {
	if t == nil {
		return ""
	}

	vars := []struct{ name, value string }{
		{"--primary", t.Primary},
		{"--secondary", t.Secondary},
		{"--cover-bg", t.CoverBackground},
		{"--accent-bg", t.AccentBackground},
	}

	var buf strings.Builder
	for _, v := range vars {
		if v.value != "" {
			fmt.Fprintf(&buf, "  %s: %s;\n", v.name, v.value)
		}
	}
	if buf.Len() == 0 {
		return ""
	}
	return "\n/* Theme */\nhtml:root {\n" + buf.String() + "}\n"
}

// escapeCSSString escapes s for a double-quoted CSS string.
func escapeCSSString(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\A `,
		"\r", "",
	)
	return r.Replace(s)
}

// breakURLPattern swaps dots for ONE DOT LEADER (U+2024) so PDF viewers do
// not turn watermark text into links. Every dot is replaced.
func breakURLPattern(text string) string {
	return strings.ReplaceAll(text, ".", "\u2024")
}

// buildPageBreaksCSS always keeps headings with the following block and
// tables and figures whole; the rest comes from pb.
func buildPageBreaksCSS(pb *PageBreaks) string {
	var buf strings.Builder

	buf.WriteString(`
/* Page breaks: keep headings with their content */
h1, h2, h3, h4, h5, h6 {
  break-after: avoid;
  page-break-after: avoid;
  break-inside: avoid;
  page-break-inside: avoid;
}
img.figure, tr, blockquote {
  break-inside: avoid;
  page-break-inside: avoid;
}
`)

	orphans, widows := DefaultOrphans, DefaultWidows
	if pb != nil {
		if pb.Orphans > 0 {
			orphans = pb.Orphans
		}
		if pb.Widows > 0 {
			widows = pb.Widows
		}
	}

	fmt.Fprintf(&buf, `
/* Page breaks: orphans and widows */
p, li, dd, dt, blockquote {
  orphans: %d;
  widows: %d;
}
`, orphans, widows)

	if pb == nil {
		return buf.String()
	}

	for _, h := range []struct {
		on  bool
		tag string
	}{
		{pb.BeforeH1, "h1"},
		{pb.BeforeH2, "h2"},
		{pb.BeforeH3, "h3"},
	} {
		if !h.on {
			continue
		}
		fmt.Fprintf(&buf, `
/* Page breaks: before %[1]s */
%[1]s {
  break-before: page;
  page-break-before: always;
}
`, h.tag)
	}

	// A heading that opens the body already starts a page.
	if pb.BeforeH1 {
		buf.WriteString(`
body > h1:first-child {
  break-before: auto;
  page-break-before: auto;
}
`)
	}

	return buf.String()
}
