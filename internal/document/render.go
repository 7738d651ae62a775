package document

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/alnah/go-reportpdf/internal/fileutil"
)

// RenderOptions controls figure resolution.
type RenderOptions struct {
	// ImageDir is where figure files are looked up. Figure paths in the
	// output stay relative to it.
	ImageDir string

	// Exists reports whether a figure file is present. Defaults to a
	// regular-file check on disk.
	Exists func(path string) bool
}

// Rendered is the Markdown for a document plus the figure files that were
// included or left out.
type Rendered struct {
	Markdown string
	Included []string
	Skipped  []string
}

// Render validates doc and writes it as Markdown. A figure whose file is
// missing is dropped together with its heading and caption and listed in
// Skipped; that is not an error.
func Render(doc Document, opts RenderOptions) (Rendered, error) {
	if err := doc.Validate(); err != nil {
		return Rendered{}, err
	}

	exists := opts.Exists
	if exists == nil {
		exists = fileutil.FileExists
	}

	var buf strings.Builder
	md := markdown.NewMarkdown(&buf)
	var out Rendered

	for _, b := range doc.Blocks {
		if b.Figure != nil {
			if !exists(filepath.Join(opts.ImageDir, b.Figure.File)) {
				out.Skipped = append(out.Skipped, b.Figure.File)
				continue
			}
			out.Included = append(out.Included, b.Figure.File)
		}
		writeBlock(md, b)
	}

	if err := md.Build(); err != nil {
		return Rendered{}, fmt.Errorf("building markdown: %w", err)
	}
	out.Markdown = buf.String()
	return out, nil
}

// writeBlock emits one block followed by a blank line.
func writeBlock(md *markdown.Markdown, b Block) {
	switch b.Kind() {
	case "heading":
		writeHeading(md, b.Heading.Level, b.Heading.Text)
	case "paragraph":
		md.PlainText(*b.Paragraph)
	case "list":
		if b.List.Intro != "" {
			md.PlainText(b.List.Intro)
			md.PlainText("")
		}
		if b.List.Ordered {
			md.OrderedList(b.List.Items...)
		} else {
			md.BulletList(b.List.Items...)
		}
	case "table":
		style := b.Table.Style
		if style == "" {
			style = TableZebra
		}
		md.PlainText("{table:" + style + "}")
		md.PlainText("")
		md.Table(markdown.TableSet{Header: b.Table.Header, Rows: b.Table.Rows})
	case "figure":
		writeFigure(md, b.Figure)
		return
	case "quote":
		md.Blockquote(*b.Quote)
	case "spacer":
		md.PlainText("{spacer:" + *b.Spacer + "}")
	case "pagebreak":
		md.PlainText("{pagebreak}")
	case "rule":
		md.HorizontalRule()
	}
	md.PlainText("")
}

func writeHeading(md *markdown.Markdown, level int, text string) {
	switch level {
	case 1:
		md.H1(text)
	case 2:
		md.H2(text)
	default:
		md.H3(text)
	}
}

func writeFigure(md *markdown.Markdown, f *Figure) {
	if f.PageBreakBefore {
		md.PlainText("{pagebreak}")
		md.PlainText("")
	}
	alt := f.Heading
	if f.Heading != "" {
		md.H2(f.Heading)
		md.PlainText("")
	} else {
		alt = strings.TrimSuffix(filepath.Base(f.File), filepath.Ext(f.File))
	}

	md.PlainText(imageLine(alt, f.File, f.Width, f.Height))
	md.PlainText("")

	for _, c := range f.Caption {
		writeBlock(md, c)
	}
}

// imageLine writes the image with a "size:WxH" title, which the pipeline
// turns into inch dimensions.
func imageLine(alt, file string, width, height float64) string {
	alt = strings.NewReplacer("[", `\[`, "]", `\]`).Replace(alt)
	return fmt.Sprintf(`![%s](<%s> "size:%sx%s")`, alt, filepath.ToSlash(file),
		strconv.FormatFloat(width, 'f', -1, 64), strconv.FormatFloat(height, 'f', -1, 64))
}
