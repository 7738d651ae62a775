package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Layout directives travel through goldmark as Private Use Area runes, which
// it treats as plain text. ConvertPlaceholders turns them into HTML after
// conversion, so raw HTML never has to be enabled.
const (
	MarkStart     = "\uE000"
	MarkEnd       = "\uE001"
	ColorStart    = "\uE002" // followed by the color, then ColorNameEnd
	ColorNameEnd  = "\uE003"
	ColorEnd      = "\uE004"
	LineBreak     = "\uE005"
	PageBreak     = "\uE006"
	SpacerStart   = "\uE007" // followed by a CSS length, then SpacerEnd
	SpacerEnd     = "\uE008"
	TableStyleTag = "\uE009" // followed by a style name, then TableStyleEnd
	TableStyleEnd = "\uE00A"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	highlightPattern = regexp.MustCompile(`==(.*?)==`)

	// Colors are CSS names or hex literals; anything else stays literal text.
	colorOpenPattern  = regexp.MustCompile(`\{color:(#[0-9A-Fa-f]{3}|#[0-9A-Fa-f]{6}|[A-Za-z]{3,20})\}`)
	colorClosePattern = regexp.MustCompile(`\{/color\}`)

	// A color span wrapping a whole bold run moves inside the asterisks. The
	// placeholder runes are not punctuation, so a closing ** after a symbol
	// such as ✓ or ) would otherwise not close the emphasis.
	colorBoldPattern = regexp.MustCompile(`\{color:(#[0-9A-Fa-f]{3}|#[0-9A-Fa-f]{6}|[A-Za-z]{3,20})\}\*\*([^*\n]+?)\*\*\{/color\}`)

	pageBreakLine  = regexp.MustCompile(`(?m)^[ \t]*\{pagebreak\}[ \t]*$`)
	spacerLine     = regexp.MustCompile(`(?m)^[ \t]*\{spacer:(\d{1,3}(?:\.\d{1,3})?(?:in|cm|mm|pt|px|em))\}[ \t]*$`)
	tableStyleLine = regexp.MustCompile(`(?m)^[ \t]*\{table:([a-z][a-z0-9-]{0,30})\}[ \t]*$`)
)

type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor rewrites inline and block directives into
// placeholders and normalizes whitespace.
type CommonMarkPreprocessor struct{}

func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = convertBlockDirectives(content)
	content = convertInlineDirectives(content)
	content = multipleBlankLines.ReplaceAllString(content, "\n\n")
	return content
}

// convertBlockDirectives handles directives that occupy a whole line. Each
// placeholder ends up alone in its own paragraph.
func convertBlockDirectives(content string) string {
	content = pageBreakLine.ReplaceAllString(content, "\n"+PageBreak+"\n")
	content = spacerLine.ReplaceAllString(content, "\n"+SpacerStart+"$1"+SpacerEnd+"\n")
	content = tableStyleLine.ReplaceAllString(content, "\n"+TableStyleTag+"$1"+TableStyleEnd+"\n")
	return content
}

func convertInlineDirectives(content string) string {
	content = highlightPattern.ReplaceAllString(content, MarkStart+"$1"+MarkEnd)
	content = colorBoldPattern.ReplaceAllString(content, "**{color:$1}$2{/color}**")
	content = colorOpenPattern.ReplaceAllString(content, ColorStart+"$1"+ColorNameEnd)
	content = colorClosePattern.ReplaceAllString(content, ColorEnd)
	content = strings.ReplaceAll(content, "{br}", LineBreak)
	return content
}

var (
	colorPlaceholder    = regexp.MustCompile(ColorStart + `([#A-Za-z0-9]+)` + ColorNameEnd)
	pageBreakParagraph  = regexp.MustCompile(`<p>` + PageBreak + `</p>`)
	spacerParagraph     = regexp.MustCompile(`<p>` + SpacerStart + `([0-9.]+[a-z]{2})` + SpacerEnd + `</p>`)
	tableStyleParagraph = regexp.MustCompile(`<p>` + TableStyleTag + `([a-z0-9-]+)` + TableStyleEnd + `</p>\s*<table>`)
	orphanTableStyle    = regexp.MustCompile(`<p>` + TableStyleTag + `[a-z0-9-]*` + TableStyleEnd + `</p>`)
	orphanPlaceholder   = regexp.MustCompile(`[` + PageBreak + SpacerStart + SpacerEnd + TableStyleTag + TableStyleEnd + `]`)
)

// ConvertPlaceholders finishes what PreprocessMarkdown started.
// Unbalanced color spans are closed by the browser's HTML parser at the end
// of the enclosing element.
func ConvertPlaceholders(content string) string {
	content = strings.ReplaceAll(content, MarkStart, "<mark>")
	content = strings.ReplaceAll(content, MarkEnd, "</mark>")

	content = colorPlaceholder.ReplaceAllString(content, `<span style="color:$1">`)
	content = strings.ReplaceAll(content, ColorEnd, "</span>")
	content = strings.ReplaceAll(content, LineBreak, "<br/>")

	content = pageBreakParagraph.ReplaceAllString(content, `<div class="page-break"></div>`)
	content = spacerParagraph.ReplaceAllString(content, `<div class="spacer" style="height:$1"></div>`)
	content = tableStyleParagraph.ReplaceAllString(content, `<table class="table-$1">`)

	// A table directive not followed by a table, or a directive that landed
	// inside other text, is dropped rather than shown as a glyph.
	content = orphanTableStyle.ReplaceAllString(content, "")
	return orphanPlaceholder.ReplaceAllString(content, "")
}
