package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-reportpdf/internal/config"
	"github.com/alnah/go-reportpdf/internal/logging"
)

// ErrInvalidArgs is returned for flags or arguments that fail validation.
var ErrInvalidArgs = errors.New("invalid arguments")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// outputFlags holds output mode flags.
type outputFlags struct {
	html     bool // write the HTML next to the PDF
	htmlOnly bool // write the HTML, skip the PDF
}

// renderFlags are the document options shared by generate and convert.
type renderFlags struct {
	timeout       string
	date          string
	locale        string
	style         string
	assetPath     string
	watermarkText string
	noCover       bool
	noTOC         bool
	noFooter      bool
	page          pageFlags
	outputMode    outputFlags
}

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	common  commonFlags
	render  renderFlags
	output  string
	images  string
	workers int
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common commonFlags
	render renderFlags
	output string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVar(&f.size, "page-size", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.html, "html", false, "also write the HTML next to the PDF")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "write HTML only, skip the PDF")
}

// addRenderFlags adds the document flags shared by generate and convert.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout per report (e.g., 30s, 2m)")
	fs.StringVar(&f.date, "date", "", "cover date (\"auto\", \"auto:FORMAT\" or literal text)")
	fs.StringVar(&f.locale, "locale", "", "locale for month names (e.g., es, en-US)")
	fs.StringVar(&f.style, "style", "", "CSS style name, file path or inline CSS")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with custom styles/ and templates/")
	fs.StringVar(&f.watermarkText, "watermark-text", "", "diagonal watermark text")
	fs.BoolVar(&f.noCover, "no-cover", false, "omit the cover page")
	fs.BoolVar(&f.noTOC, "no-toc", false, "omit the index page")
	fs.BoolVar(&f.noFooter, "no-footer", false, "omit the page-number footer")
	addPageFlags(fs, &f.page)
	addOutputFlags(fs, &f.outputMode)
}

func newGenerateFlagSet(f *generateFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: working directory)")
	fs.StringVarP(&f.images, "images", "i", "", "figure directory (default: working directory)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel browsers (0 = auto)")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	return fs
}

func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "", "output PDF path (default: input with .pdf)")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	return fs
}

// parseGenerateFlags parses generate command flags and returns positional args.
func parseGenerateFlags(args []string, stderr io.Writer) (*generateFlags, []string, error) {
	f := &generateFlags{}
	fs := newGenerateFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printGenerateUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	if f.workers < 0 || f.workers > config.MaxWorkers {
		return nil, nil, fmt.Errorf("%w: --workers %d (must be 0-%d)", ErrInvalidArgs, f.workers, config.MaxWorkers)
	}
	if err := f.render.validate(); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printConvertUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	if err := f.render.validate(); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func (f *renderFlags) validate() error {
	if f.outputMode.html && f.outputMode.htmlOnly {
		return fmt.Errorf("%w: --html and --html-only are mutually exclusive", ErrInvalidArgs)
	}
	return nil
}

// usageError keeps flag.ErrHelp intact and marks other parse errors as usage errors.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
}

// verbosity maps -q/-v to a log level. -v wins when both are set.
func (f commonFlags) verbosity() logging.Verbosity {
	switch {
	case f.verbose:
		return logging.Verbose
	case f.quiet:
		return logging.Quiet
	default:
		return logging.Normal
	}
}
