package reportpdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alnah/go-reportpdf/internal/assets"
	"github.com/alnah/go-reportpdf/internal/fileutil"
	"github.com/alnah/go-reportpdf/internal/logging"
	"github.com/alnah/go-reportpdf/internal/pipeline"
)

var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pipeline.CoverInjector        = (*pipeline.CoverInjection)(nil)
	_ pipeline.TOCInjector          = (*pipeline.TOCInjection)(nil)
	_ pipeline.ColophonInjector     = (*pipeline.ColophonInjection)(nil)
)

// Converter runs the report pipeline: Markdown to HTML, injections, then
// PDF through headless Chrome. A Converter owns one browser; it is not safe
// for concurrent Convert calls. Use ConverterPool for parallel work.
type Converter struct {
	cfg               converterConfig
	assetLoader       assets.AssetLoader
	publicAssetLoader AssetLoader
	preprocessor      pipeline.MarkdownPreprocessor
	htmlConverter     pipeline.HTMLConverter
	cssInjector       pipeline.CSSInjector
	coverInjector     pipeline.CoverInjector
	tocInjector       pipeline.TOCInjector
	colophonInjector  pipeline.ColophonInjector
	pdfConverter      pdfConverter
}

// publicToInternalAdapter lets a caller's AssetLoader serve the internal
// resolver contract.
type publicToInternalAdapter struct {
	pub AssetLoader
}

func (a *publicToInternalAdapter) LoadStyle(name string) (string, error) {
	return a.pub.LoadStyle(name)
}

func (a *publicToInternalAdapter) LoadTemplateSet(name string) (*assets.TemplateSet, error) {
	ts, err := a.pub.LoadTemplateSet(name)
	if err != nil {
		return nil, err
	}
	return &assets.TemplateSet{Name: ts.Name, Cover: ts.Cover, Colophon: ts.Colophon}, nil
}

// NewConverter builds a Converter. The browser starts on the first PDF
// conversion, not here.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:    defaultTimeout,
			styleInput: DefaultStyle,
			logger:     logging.Discard(),
		},
		assetLoader:   assets.NewEmbeddedLoader(),
		preprocessor:  &pipeline.CommonMarkPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
		cssInjector:   &pipeline.CSSInjection{},
		tocInjector:   pipeline.NewTOCInjection(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}
	if c.publicAssetLoader != nil {
		c.assetLoader = &publicToInternalAdapter{pub: c.publicAssetLoader}
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	templateSet := c.cfg.templateSet
	if templateSet == nil {
		internal, err := c.assetLoader.LoadTemplateSet(assets.DefaultTemplateSetName)
		if err != nil {
			return nil, fmt.Errorf("loading default template set: %w", convertAssetError(err))
		}
		templateSet = &TemplateSet{Name: internal.Name, Cover: internal.Cover, Colophon: internal.Colophon}
	}

	var err error
	if c.coverInjector == nil {
		if c.coverInjector, err = pipeline.NewCoverInjection(templateSet.Cover); err != nil {
			return nil, fmt.Errorf("initializing cover injector: %w", err)
		}
	}
	if c.colophonInjector == nil {
		if c.colophonInjector, err = pipeline.NewColophonInjection(templateSet.Colophon); err != nil {
			return nil, fmt.Errorf("initializing colophon injector: %w", err)
		}
	}

	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout, c.cfg.logger)
	}

	return c, nil
}

// Convert runs the pipeline on input. With input.HTMLOnly the PDF step is
// skipped and result.PDF is nil. Internal panics come back as errors.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	start := time.Now()
	log := c.cfg.logger.With(slog.String("title", input.Title))

	mdContent := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	htmlContent, err := c.htmlConverter.ToHTML(ctx, mdContent, pipeline.DocumentMeta{
		Title: input.Title,
		Lang:  input.Lang,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrHTMLConversion, err)
	}

	// Runs even without SourceDir: figure sizes live in image titles.
	htmlContent, err = pipeline.RewriteResources(htmlContent, input.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("rewriting resources: %w", err)
	}
	htmlContent = pipeline.ConvertPlaceholders(htmlContent)

	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, c.buildCSS(input))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	htmlContent, err = c.coverInjector.InjectCover(ctx, htmlContent, toCoverData(input.Cover))
	if err != nil {
		return nil, fmt.Errorf("injecting cover: %w", err)
	}

	// After the cover: the index is placed right behind its end marker.
	htmlContent, err = c.tocInjector.InjectTOC(ctx, htmlContent, toTOCData(input.TOC))
	if err != nil {
		return nil, fmt.Errorf("injecting TOC: %w", err)
	}

	htmlContent, err = c.colophonInjector.InjectColophon(ctx, htmlContent, toColophonData(input.Colophon))
	if err != nil {
		return nil, fmt.Errorf("injecting colophon: %w", err)
	}

	res := &ConvertResult{HTML: []byte(htmlContent)}
	if input.HTMLOnly {
		log.Debug("html ready", slog.Int("bytes", len(res.HTML)), slog.Duration("elapsed", time.Since(start)))
		return res, nil
	}

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, &pdfOptions{
		Footer: toFooterData(input.Footer),
		Page:   input.Page,
	})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	res.PDF = pdfBytes

	log.Debug("pdf ready", slog.Int("bytes", len(res.PDF)), slog.Duration("elapsed", time.Since(start)))
	return res, nil
}

// buildCSS concatenates, in order: page breaks, theme, watermark, style and
// the caller's CSS, so later rules override earlier ones.
func (c *Converter) buildCSS(input Input) string {
	css := buildPageBreaksCSS(input.PageBreaks) +
		buildThemeCSS(input.Theme) +
		buildWatermarkCSS(input.Watermark) +
		c.cfg.resolvedStyle
	if input.CSS != "" {
		css += "\n" + input.CSS
	}
	return css
}

// Close shuts down the browser, if one was started.
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// resolveStyle turns the style input (path, inline CSS or name) into CSS.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	switch {
	case input == "":
		return nil
	case fileutil.IsFilePath(input):
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
	case fileutil.IsCSS(input):
		c.cfg.resolvedStyle = input
	default:
		css, err := c.assetLoader.LoadStyle(input)
		if err != nil {
			return fmt.Errorf("loading style %q: %w", input, convertAssetError(err))
		}
		c.cfg.resolvedStyle = css
	}
	return nil
}

// validateInput is the single check point for library callers; the CLI has
// validated its config by then, but builds Input the same way.
func validateInput(input Input) error {
	if input.Markdown == "" {
		return ErrEmptyMarkdown
	}
	return errors.Join(
		input.Page.Validate(),
		input.Footer.Validate(),
		input.Cover.Validate(),
		input.TOC.Validate(),
		input.Theme.Validate(),
		input.Watermark.Validate(),
		input.PageBreaks.Validate(),
		input.Colophon.Validate(),
	)
}

func toFooterData(f *Footer) *pipeline.FooterData {
	if f == nil {
		return nil
	}
	return &pipeline.FooterData{
		Position:       f.Position,
		ShowPageNumber: f.ShowPageNumber,
		Date:           f.Date,
		Text:           f.Text,
	}
}

func toCoverData(c *Cover) *pipeline.CoverData {
	if c == nil {
		return nil
	}
	return &pipeline.CoverData{
		Kicker:        c.Kicker,
		Title:         c.Title,
		SubtitleLines: c.Subtitle,
		Emblem:        c.Emblem,
		Course:        c.Course,
		Term:          c.Term,
		DateLabel:     c.DateLabel,
		Date:          c.Date,
		Organization:  c.Organization,
		Logo:          c.Logo,
	}
}

func toTOCData(t *TOC) *pipeline.TOCData {
	if t == nil {
		return nil
	}
	minDepth := t.MinDepth
	if minDepth == 0 {
		minDepth = DefaultTOCMinDepth
	}
	maxDepth := t.MaxDepth
	if maxDepth == 0 {
		maxDepth = max(DefaultTOCMaxDepth, minDepth)
	}
	return &pipeline.TOCData{
		Title:    t.Title,
		MinDepth: minDepth,
		MaxDepth: maxDepth,
		Numbered: t.Numbered,
		Entries:  t.Entries,
	}
}

func toColophonData(c *Colophon) *pipeline.ColophonData {
	if c == nil {
		return nil
	}
	return &pipeline.ColophonData{
		Title:      c.Title,
		Paragraphs: c.Paragraphs,
		FilesTitle: c.FilesTitle,
		Files:      c.Files,
	}
}
