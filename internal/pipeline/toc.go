package pipeline

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// TOCData holds TOC configuration for injection.
type TOCData struct {
	Title    string
	MinDepth int // lowest heading level listed
	MaxDepth int // highest heading level listed

	// Numbered prefixes entries with "1.", "1.1.", ... Leave it off when the
	// headings already carry their own numbers.
	Numbered bool

	// Entries replaces the heading text shown in the TOC. Entry i links to
	// the i-th listed heading; extra entries are ignored and missing ones
	// fall back to the heading text.
	Entries []string
}

type TOCInjector interface {
	InjectTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error)
}

type headingInfo struct {
	Level int
	ID    string
	Text  string
}

// headingPattern captures level, id and inner HTML of h1-h6 tags.
var headingPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTMLTags removes tags and decodes entities so the text is not
// double-escaped when written into the TOC.
func stripHTMLTags(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// extractHeadings returns headings with ids between minDepth and maxDepth.
func extractHeadings(htmlContent string, minDepth, maxDepth int) []headingInfo {
	var headings []headingInfo
	for _, m := range headingPattern.FindAllStringSubmatch(htmlContent, -1) {
		level, _ := strconv.Atoi(m[1])
		if level < minDepth || level > maxDepth {
			continue
		}
		headings = append(headings, headingInfo{Level: level, ID: m[2], Text: stripHTMLTags(m[3])})
	}
	return headings
}

// numberingState tracks hierarchical numbering. The shallowest first heading
// becomes depth 1 and skipped levels collapse onto the parent.
type numberingState struct {
	counters     [6]int
	minLevelSeen int
	lastLevel    int
}

func (n *numberingState) next(level int) (numStr string, effectiveDepth int) {
	if n.minLevelSeen == 0 {
		n.minLevelSeen = level
	}

	effectiveDepth = max(level-n.minLevelSeen+1, 1)
	if n.lastLevel > 0 && effectiveDepth > n.lastLevel+1 {
		effectiveDepth = n.lastLevel + 1
	}

	for i := effectiveDepth; i < len(n.counters); i++ {
		n.counters[i] = 0
	}
	n.counters[effectiveDepth-1]++
	n.lastLevel = effectiveDepth

	parts := make([]string, effectiveDepth)
	for i := range effectiveDepth {
		parts[i] = strconv.Itoa(n.counters[i])
	}
	return strings.Join(parts, ".") + ".", effectiveDepth
}

// generateTOC builds the TOC markup. Items are divs so list styles from the
// report CSS do not leak in.
func generateTOC(headings []headingInfo, data *TOCData) string {
	if len(headings) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString(`<nav class="toc">`)
	if data.Title != "" {
		buf.WriteString(`<h2 class="toc-title">`)
		buf.WriteString(html.EscapeString(data.Title))
		buf.WriteString(`</h2>`)
	}
	buf.WriteString(`<div class="toc-list">`)

	numbering := &numberingState{}
	for i, h := range headings {
		num, depth := numbering.next(h.Level)

		text := h.Text
		if i < len(data.Entries) && data.Entries[i] != "" {
			text = data.Entries[i]
		}
		if data.Numbered {
			text = num + " " + text
		}

		buf.WriteString(`<div class="toc-item"`)
		if depth > 1 {
			fmt.Fprintf(&buf, ` style="padding-left:%.1fem"`, float64(depth-1)*1.5)
		}
		buf.WriteString(`><a href="#`)
		buf.WriteString(html.EscapeString(h.ID))
		buf.WriteString(`">`)
		buf.WriteString(html.EscapeString(text))
		buf.WriteString(`</a></div>`)
	}

	buf.WriteString(`</div></nav>`)
	return buf.String()
}

// TOCInjection implements TOCInjector.
type TOCInjection struct{}

func NewTOCInjection() *TOCInjection {
	return &TOCInjection{}
}

// InjectTOC lists the document headings right after the cover, or after
// <body> when there is no cover. Documents without matching headings are
// returned unchanged.
func (t *TOCInjection) InjectTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tocHTML := generateTOC(extractHeadings(htmlContent, data.MinDepth, data.MaxDepth), data)
	if tocHTML == "" {
		return htmlContent, nil
	}

	if pos, ok := afterCover(htmlContent); ok {
		return htmlContent[:pos] + tocHTML + htmlContent[pos:], nil
	}
	return tocHTML + htmlContent, nil
}
