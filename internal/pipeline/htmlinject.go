package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"strings"
)

var (
	ErrCoverRender    = errors.New("cover template rendering failed")
	ErrColophonRender = errors.New("colophon template rendering failed")
)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, after <body>, or at the
// start of the document, whichever is found first.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"

	if idx := strings.Index(strings.ToLower(htmlContent), "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	if pos, ok := afterBodyTag(htmlContent); ok {
		return htmlContent[:pos] + styleBlock + htmlContent[pos:]
	}
	return styleBlock + htmlContent
}

// sanitizeCSS escapes "</" so user CSS cannot close the style element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// afterBodyTag returns the offset just past the opening <body ...> tag.
func afterBodyTag(htmlContent string) (int, bool) {
	idx := strings.Index(strings.ToLower(htmlContent), "<body")
	if idx == -1 {
		return 0, false
	}
	closeIdx := strings.Index(htmlContent[idx:], ">")
	if closeIdx == -1 {
		return 0, false
	}
	return idx + closeIdx + 1, true
}

// ---------------------------------------------------------------------------
// Cover
// ---------------------------------------------------------------------------

// CoverData holds the values rendered by the cover template.
type CoverData struct {
	Kicker        string   // small line above the title, e.g. "ACTIVIDAD 9"
	Title         string
	SubtitleLines []string
	Emblem        string
	Course        string
	Term          string
	DateLabel     string // printed as "<DateLabel>: <Date>"
	Date          string
	Organization  string
	Logo          string
}

type CoverInjector interface {
	InjectCover(ctx context.Context, htmlContent string, data *CoverData) (string, error)
}

// CoverInjection renders and injects a cover page into HTML content.
type CoverInjection struct {
	tmpl *template.Template
}

func NewCoverInjection(tmplContent string) (*CoverInjection, error) {
	tmpl, err := template.New("cover").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing cover template: %w", err)
	}
	return &CoverInjection{tmpl: tmpl}, nil
}

// InjectCover renders the cover template right after <body>.
// A nil data leaves htmlContent unchanged.
func (c *CoverInjection) InjectCover(ctx context.Context, htmlContent string, data *CoverData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCoverRender, err)
	}

	if pos, ok := afterBodyTag(htmlContent); ok {
		return htmlContent[:pos] + buf.String() + htmlContent[pos:], nil
	}
	return buf.String() + htmlContent, nil
}

// ---------------------------------------------------------------------------
// Colophon
// ---------------------------------------------------------------------------

// ColophonData is the closing note appended to a report.
type ColophonData struct {
	Title      string
	Paragraphs []string
	FilesTitle string
	Files      []string
}

type ColophonInjector interface {
	InjectColophon(ctx context.Context, htmlContent string, data *ColophonData) (string, error)
}

type ColophonInjection struct {
	tmpl *template.Template
}

func NewColophonInjection(tmplContent string) (*ColophonInjection, error) {
	tmpl, err := template.New("colophon").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing colophon template: %w", err)
	}
	return &ColophonInjection{tmpl: tmpl}, nil
}

// InjectColophon renders the colophon before </body>, or appends it when the
// document has no closing body tag.
func (c *ColophonInjection) InjectColophon(ctx context.Context, htmlContent string, data *ColophonData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrColophonRender, err)
	}

	if idx := strings.LastIndex(strings.ToLower(htmlContent), "</body>"); idx != -1 {
		return htmlContent[:idx] + buf.String() + htmlContent[idx:], nil
	}
	return htmlContent + buf.String(), nil
}

// ---------------------------------------------------------------------------
// Footer
// ---------------------------------------------------------------------------

// FooterData holds footer configuration for the PDF footer template.
type FooterData struct {
	Position       string // "left", "center", "right"
	ShowPageNumber bool
	Date           string
	Text           string
}

// coverEndPattern matches the end of the cover section. A span marker is used
// because html/template strips comments.
var coverEndPattern = regexp.MustCompile(`(?i)</div>\s*</section>\s*<span[^>]*data-cover-end[^>]*>\s*</span>`)

func afterCover(htmlContent string) (int, bool) {
	if loc := coverEndPattern.FindStringIndex(htmlContent); loc != nil {
		return loc[1], true
	}
	return afterBodyTag(htmlContent)
}
