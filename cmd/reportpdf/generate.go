package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	reportpdf "github.com/alnah/go-reportpdf"
	"github.com/alnah/go-reportpdf/internal/config"
	"github.com/alnah/go-reportpdf/internal/document"
	"github.com/alnah/go-reportpdf/internal/fileutil"
	"github.com/alnah/go-reportpdf/internal/hints"
	"github.com/alnah/go-reportpdf/internal/logging"
	"github.com/alnah/go-reportpdf/internal/reports"
)

// Sentinel errors for CLI operations.
var (
	ErrReadMarkdown    = errors.New("failed to read markdown file")
	ErrWriteOutput     = errors.New("failed to write output file")
	ErrConverterInit   = errors.New("failed to initialize converter")
	ErrMissingFigures  = errors.New("required figures are missing")
	ErrReportsFailed   = errors.New("reports failed")
	errNothingRendered = errors.New("converter returned no output")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// generateJob carries what every report of one run shares.
type generateJob struct {
	cfg       *config.Config
	outputDir string // absolute
	imageDir  string // absolute
	coverDate string
	now       time.Time
	htmlOnly  bool
	keepHTML  bool
	logger    *slog.Logger
	console   *console
}

// GenerateResult holds the outcome of one report.
type GenerateResult struct {
	Report   *reports.Definition
	PDFPath  string // empty with --html-only
	HTMLPath string // set with --html or --html-only
	Skipped  []string
	Err      error
	Duration time.Duration
}

// batchError summarizes a run with failed reports. The failures were
// already printed; Unwrap exposes them for exit code mapping.
type batchError struct {
	failed, total int
	err           error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d report(s) failed", e.failed, e.total)
}

func (e *batchError) Unwrap() []error {
	return []error{ErrReportsFailed, e.err}
}

// runGenerate renders the requested reports to PDF.
func runGenerate(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseGenerateFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(flags.common.config, env, func(cfg *config.Config) {
		flags.render.applyTo(cfg)
		if flags.output != "" {
			cfg.Output.Dir = flags.output
		}
		if flags.images != "" {
			cfg.Images.Dir = flags.images
		}
		if flags.workers > 0 {
			cfg.Generate.Workers = flags.workers
		}
	})
	if err != nil {
		return err
	}
	if err := validatePrintSettings(cfg); err != nil {
		return err
	}

	defs, err := reports.Resolve(positional)
	if err != nil {
		if errors.Is(err, reports.ErrUnknownReport) {
			return fmt.Errorf("%w%s", err, hints.ForUnknownReport(reports.Names()))
		}
		return err
	}

	logger := logging.New(env.Stderr, flags.common.verbosity())
	opts := converterOptions(cfg, logger)
	if err := checkConverterOptions(opts); err != nil {
		return err
	}

	now := env.Now()
	job, err := newGenerateJob(cfg, now, flags.render.outputMode.htmlOnly)
	if err != nil {
		return err
	}
	job.logger = logger
	job.console = newConsole(env, flags.common.quiet)

	size := min(reportpdf.ResolvePoolSize(cfg.Generate.Workers), len(defs))
	logger.Debug("starting run", slog.Int("reports", len(defs)), slog.Int("workers", size),
		slog.String("images", job.imageDir), slog.String("output", job.outputDir))

	pool := env.NewPool(size, opts...)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing converter pool", slog.Any("error", err))
		}
	}()

	results := generateBatch(ctx, pool, defs, job)
	return printGenerateResults(job.console, results, job, flags.common.verbose)
}

// newGenerateJob resolves directories and the cover date.
func newGenerateJob(cfg *config.Config, now time.Time, htmlOnly bool) (*generateJob, error) {
	outputDir, err := absDir(cfg.Output.Dir)
	if err != nil {
		return nil, err
	}
	imageDir, err := absDir(cfg.Images.Dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, dirPermissions); err != nil {
		return nil, fmt.Errorf("%w: %w%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}

	coverDate, err := reportpdf.ResolveDate(cfg.Date, now, cfg.Locale)
	if err != nil {
		return nil, err
	}

	return &generateJob{
		cfg:       cfg,
		outputDir: outputDir,
		imageDir:  imageDir,
		coverDate: coverDate,
		now:       now,
		htmlOnly:  htmlOnly,
		keepHTML:  cfg.Output.KeepHTML,
	}, nil
}

// absDir resolves dir against the working directory; empty means ".".
func absDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	return abs, nil
}

// generateBatch renders every definition, at most pool.Size() at a time.
// Every report is attempted; failures are recorded, never returned to the group.
func generateBatch(ctx context.Context, pool Pool, defs []*reports.Definition, job *generateJob) []GenerateResult {
	results := make([]GenerateResult, len(defs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(pool.Size())

	for i, def := range defs {
		g.Go(func() error {
			start := time.Now()
			if err := ctx.Err(); err != nil {
				results[i] = GenerateResult{Report: def, Err: err}
				return nil
			}

			conv, err := pool.Acquire()
			if err != nil {
				results[i] = GenerateResult{Report: def, Err: fmt.Errorf("%w: %w", ErrConverterInit, err)}
				return nil
			}
			defer pool.Release(conv)

			results[i] = generateReport(ctx, conv, def, job)
			results[i].Duration = time.Since(start)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// generateReport renders one definition and writes its files.
func generateReport(ctx context.Context, conv CLIConverter, def *reports.Definition, job *generateJob) GenerateResult {
	result := GenerateResult{Report: def}
	logger := job.logger.With(slog.String("job", uuid.NewString()), slog.String("report", def.Name))

	job.console.statusf("Generating %s report", def.Name)

	rendered, err := document.Render(def.Document(), document.RenderOptions{ImageDir: job.imageDir})
	if err != nil {
		result.Err = err
		return result
	}
	result.Skipped = rendered.Skipped
	for _, f := range rendered.Skipped {
		logger.Debug("figure not found, skipped", slog.String("file", f))
	}

	input := buildReportInput(def, rendered.Markdown, job)

	logger.Debug("converting", slog.Int("figures", len(rendered.Included)))
	res, err := conv.Convert(ctx, input)
	if err != nil {
		result.Err = err
		return result
	}

	pdfPath := filepath.Join(job.outputDir, def.FileName(job.now))
	if job.htmlOnly || job.keepHTML {
		htmlPath := strings.TrimSuffix(pdfPath, ".pdf") + ".html"
		if err := writeOutput(htmlPath, res.HTML); err != nil {
			result.Err = err
			return result
		}
		result.HTMLPath = htmlPath
	}
	if !job.htmlOnly {
		if err := writeOutput(pdfPath, res.PDF); err != nil {
			result.Err = err
			return result
		}
		result.PDFPath = pdfPath
	}

	logger.Debug("report written", slog.String("path", pdfPath))
	return result
}

// writeOutput replaces path atomically.
func writeOutput(path string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, filepath.Base(path), errNothingRendered)
	}
	if err := fileutil.WriteFileAtomic(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// printGenerateResults prints one block per report, in request order, and
// a summary. It returns a *batchError when any report failed.
func printGenerateResults(c *console, results []GenerateResult, job *generateJob, verbose bool) error {
	var failed int
	var errs []error

	for _, r := range results {
		if r.Err != nil {
			failed++
			errs = append(errs, r.Err)
			c.errorBlock(c.fail.Sprintf("failed to generate %s report: %v", r.Report.Name, r.Err) + failureHints(r, job))
			continue
		}
		c.block(successLines(c, r, job, verbose)...)
	}

	if len(results) > 1 {
		c.statusf("\n%d succeeded, %d failed", len(results)-failed, failed)
	}

	if failed > 0 {
		return &batchError{failed: failed, total: len(results), err: errors.Join(errs...)}
	}
	return nil
}

func successLines(c *console, r GenerateResult, job *generateJob, verbose bool) []string {
	path := r.PDFPath
	if path == "" {
		path = r.HTMLPath
	}

	created := c.ok.Sprint("Created ") + c.bold.Sprint(filepath.Base(path))
	if verbose {
		created += fmt.Sprintf(" (%v)", r.Duration.Round(time.Millisecond))
	}
	lines := []string{created, "  path: " + path}
	if r.PDFPath != "" && r.HTMLPath != "" {
		lines = append(lines, "  html: "+r.HTMLPath)
	}

	if len(r.Skipped) > 0 {
		lines = append(lines,
			c.warn.Sprintf("  skipped %d missing figure(s): %s", len(r.Skipped), strings.Join(r.Skipped, ", "))+
				hints.ForMissingFigures(r.Report.Notebook, job.imageDir))
	} else if r.Report.Notebook != "" {
		lines = append(lines, fmt.Sprintf("  note: figures come from the notebook '%s'; run it first when they change", r.Report.Notebook))
	}
	return lines
}

// failureHints picks the remediation for a failed report, then adds the
// catch-all.
func failureHints(r GenerateResult, job *generateJob) string {
	var specific string
	switch {
	case errors.Is(r.Err, reportpdf.ErrBrowserConnect):
		specific = hints.ForBrowserConnect()
	case errors.Is(r.Err, context.DeadlineExceeded):
		specific = hints.ForTimeout()
	case errors.Is(r.Err, ErrWriteOutput):
		specific = hints.ForOutputDirectory()
	}
	return specific + hints.ForGenerateFailure(r.Report.Notebook) +
		hints.ForMissingFigures("", job.imageDir)
}
