package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var ErrHTMLConversion = errors.New("HTML conversion failed")

// htmlTemplate wraps the goldmark fragment: lang, title, body.
const htmlTemplate = `<!DOCTYPE html>
<html lang="%s">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>`

// DocumentMeta fills the <html lang> attribute and <title>.
type DocumentMeta struct {
	Title string
	Lang  string
}

type HTMLConverter interface {
	ToHTML(ctx context.Context, content string, meta DocumentMeta) (string, error)
}

// GoldmarkConverter renders Markdown with GFM tables, footnotes, heading IDs
// and chroma class-based highlighting. Raw HTML in the source is dropped.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // TOC links need ids
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
		),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML returns a complete HTML5 document. goldmark has no context support,
// so conversion runs in a goroutine and ctx only bounds the wait.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string, meta DocumentMeta) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lang := meta.Lang
	if lang == "" {
		lang = "es"
	}
	title := meta.Title
	if title == "" {
		title = "Reporte"
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: fmt.Sprintf(htmlTemplate, html.EscapeString(lang), html.EscapeString(title), buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
