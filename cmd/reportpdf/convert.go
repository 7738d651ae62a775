package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"

	reportpdf "github.com/alnah/go-reportpdf"
	"github.com/alnah/go-reportpdf/internal/config"
	"github.com/alnah/go-reportpdf/internal/hints"
	"github.com/alnah/go-reportpdf/internal/logging"
)

// ErrInvalidExtension is returned when the convert input is not Markdown.
var ErrInvalidExtension = errors.New("file must have .md or .markdown extension")

// defaultTOCTitle heads the index of ad-hoc documents.
const defaultTOCTitle = "ÍNDICE"

var firstHeadingPattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// frontMatter is the optional YAML header of an ad-hoc document.
type frontMatter struct {
	Title        string `yaml:"title"`
	Subtitle     string `yaml:"subtitle"`
	Author       string `yaml:"author"`
	Date         string `yaml:"date"`
	Organization string `yaml:"organization"`
}

// runConvert converts one Markdown file with the same page setup as the reports.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: convert takes exactly one Markdown file", ErrInvalidArgs)
	}
	inputPath := positional[0]
	if err := validateMarkdownExtension(inputPath); err != nil {
		return err
	}

	cfg, err := resolveConfig(flags.common.config, env, flags.render.applyTo)
	if err != nil {
		return err
	}
	if err := validatePrintSettings(cfg); err != nil {
		return err
	}

	content, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}

	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(content), &meta)
	if err != nil {
		return fmt.Errorf("%w: front matter: %v", ErrReadMarkdown, err)
	}
	markdown := string(body)

	date := cfg.Date
	if meta.Date != "" {
		date = meta.Date
	}
	coverDate, err := reportpdf.ResolveDate(date, env.Now(), cfg.Locale)
	if err != nil {
		return err
	}

	logger := logging.New(env.Stderr, flags.common.verbosity())
	opts := converterOptions(cfg, logger)
	if err := checkConverterOptions(opts); err != nil {
		return err
	}

	sourceDir, err := filepath.Abs(filepath.Dir(inputPath))
	if err != nil {
		return fmt.Errorf("resolving %s: %w", inputPath, err)
	}

	input := reportpdf.Input{
		Markdown:  markdown,
		Title:     documentTitle(meta, markdown, inputPath),
		Lang:      cfg.Locale,
		SourceDir: sourceDir,
		Page:      buildPageSettings(cfg),
		Footer:    buildFooter(cfg),
		Cover:     buildDocumentCover(cfg, meta, markdown, inputPath, coverDate),
		TOC:       buildDocumentTOC(cfg),
		Watermark: buildWatermark(cfg),
		HTMLOnly:  flags.render.outputMode.htmlOnly,
	}

	pool := env.NewPool(1, opts...)
	defer func() { _ = pool.Close() }()

	conv, err := pool.Acquire()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConverterInit, err)
	}
	defer pool.Release(conv)

	res, err := conv.Convert(ctx, input)
	if err != nil {
		return withConvertHints(err)
	}

	pdfPath := resolveOutputPath(inputPath, flags.output)
	c := newConsole(env, flags.common.quiet)
	if input.HTMLOnly || cfg.Output.KeepHTML {
		htmlPath := strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".html"
		if err := writeOutput(htmlPath, res.HTML); err != nil {
			return fmt.Errorf("%w%s", err, hints.ForOutputDirectory())
		}
		c.statusf("%s %s", c.ok.Sprint("Created"), htmlPath)
	}
	if !input.HTMLOnly {
		if err := writeOutput(pdfPath, res.PDF); err != nil {
			return fmt.Errorf("%w%s", err, hints.ForOutputDirectory())
		}
		c.statusf("%s %s", c.ok.Sprint("Created"), pdfPath)
	}
	return nil
}

func validateMarkdownExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".md" && ext != ".markdown" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// resolveOutputPath returns -o when given, else the input with a .pdf extension.
func resolveOutputPath(inputPath, output string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".pdf"
}

func extractFirstHeading(markdown string) string {
	matches := firstHeadingPattern.FindStringSubmatch(markdown)
	if len(matches) >= 2 {
		return strings.TrimSpace(matches[1])
	}
	return ""
}

// documentTitle: front matter → H1 → filename.
func documentTitle(meta frontMatter, markdown, filename string) string {
	if meta.Title != "" {
		return meta.Title
	}
	if h1 := extractFirstHeading(markdown); h1 != "" {
		return h1
	}
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}

// buildDocumentCover fills the cover from the front matter. The author is
// printed as the last subtitle line.
func buildDocumentCover(cfg *config.Config, meta frontMatter, markdown, filename, date string) *reportpdf.Cover {
	if !cfg.Cover.Enabled {
		return nil
	}

	var subtitle []string
	for _, s := range []string{meta.Subtitle, meta.Author} {
		if s != "" {
			subtitle = append(subtitle, s)
		}
	}

	org := meta.Organization
	if cfg.Cover.Organization != "" {
		org = cfg.Cover.Organization
	}

	return &reportpdf.Cover{
		Title:        documentTitle(meta, markdown, filename),
		Subtitle:     subtitle,
		Date:         date,
		Organization: org,
		Logo:         cfg.Cover.Logo,
	}
}

// buildDocumentTOC indexes h1 to h3 of an ad-hoc document.
func buildDocumentTOC(cfg *config.Config) *reportpdf.TOC {
	if !cfg.TOC.Enabled {
		return nil
	}
	title := cfg.TOC.Title
	if title == "" {
		title = defaultTOCTitle
	}
	return &reportpdf.TOC{
		Title:    title,
		MinDepth: reportpdf.DefaultTOCMinDepth,
		MaxDepth: reportpdf.DefaultTOCMaxDepth,
	}
}

// withConvertHints appends the remediation for browser and timeout failures.
func withConvertHints(err error) error {
	switch {
	case errors.Is(err, reportpdf.ErrBrowserConnect):
		return fmt.Errorf("%w%s", err, hints.ForBrowserConnect())
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	default:
		return err
	}
}
