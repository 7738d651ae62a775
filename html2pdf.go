package reportpdf

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-reportpdf/internal/fileutil"
	"github.com/alnah/go-reportpdf/internal/pipeline"
	"github.com/alnah/go-reportpdf/internal/process"
)

// pdfConverter turns a finished HTML document into PDF bytes.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfRenderer prints a local HTML file.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error)
	Close() error
}

var (
	_ pdfConverter = (*rodConverter)(nil)
	_ pdfRenderer  = (*rodRenderer)(nil)
)

type pdfOptions struct {
	Footer *pipeline.FooterData
	Page   *PageSettings // nil = DefaultPageSettings
}

// paperSizes in inches, portrait.
var paperSizes = map[string]struct{ width, height float64 }{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// footerMargin is added to the bottom margin when a footer is printed.
const footerMargin = 0.25

// rodRenderer drives one headless Chrome. The browser is launched on the
// first render; ROD_BROWSER_BIN selects a preinstalled binary.
type rodRenderer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
	logger   *slog.Logger
}

func newRodRenderer(timeout time.Duration, logger *slog.Logger) *rodRenderer {
	return &rodRenderer{timeout: timeout, logger: logger}
}

func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	bin := os.Getenv("ROD_BROWSER_BIN")
	if bin != "" {
		l = l.Bin(bin)
	}
	// Containers and CI runners usually lack the namespaces the sandbox needs.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || bin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		r.killBrowser()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.logger.Debug("browser started", slog.Int("pid", l.PID()))
	return nil
}

// Close disconnects from the browser and kills its process group, which
// also reaps renderer and GPU helpers.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	r.killBrowser()
	return err
}

func (r *rodRenderer) killBrowser() {
	if r.launcher == nil {
		return
	}
	pid := r.launcher.PID()
	if err := process.KillTree(pid); err != nil {
		r.logger.Debug("browser process group not killed", slog.Int("pid", pid), slog.Any("error", err))
	}
	r.launcher.Kill()
	r.launcher = nil
}

// RenderFromFile opens filePath in a new tab, waits for the load event
// (images included) and prints it.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout {
			timeout = until
		}
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Context(ctx).Timeout(timeout).WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.Context(ctx).PDF(buildPDFOptions(opts))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

// buildPDFOptions maps page settings and footer to Chrome print options.
func buildPDFOptions(opts *pdfOptions) *proto.PagePrintToPDF {
	page := DefaultPageSettings()
	var footer *pipeline.FooterData
	if opts != nil {
		if opts.Page != nil {
			page = opts.Page
		}
		footer = opts.Footer
	}

	size, ok := paperSizes[strings.ToLower(page.Size)]
	if !ok {
		size = paperSizes[PageSizeLetter]
	}
	width, height := size.width, size.height
	if strings.EqualFold(page.Orientation, OrientationLandscape) {
		width, height = height, width
	}

	margin := page.Margin
	if margin == 0 {
		margin = DefaultMargin
	}
	marginBottom := margin
	if footer != nil {
		marginBottom += footerMargin
	}

	pdfOpts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(marginBottom),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: true,
	}

	if footer != nil {
		pdfOpts.DisplayHeaderFooter = true
		pdfOpts.HeaderTemplate = "<span></span>"
		pdfOpts.FooterTemplate = buildFooterTemplate(footer, margin)
	}
	return pdfOpts
}

// buildFooterTemplate returns Chrome's footer HTML. Chrome fills the
// pageNumber and totalPages classes itself.
func buildFooterTemplate(data *pipeline.FooterData, margin float64) string {
	if data == nil {
		return "<span></span>"
	}

	var parts []string
	if data.ShowPageNumber {
		parts = append(parts, `<span class="pageNumber"></span>`)
	}
	if data.Date != "" {
		parts = append(parts, html.EscapeString(data.Date))
	}
	if data.Text != "" {
		parts = append(parts, html.EscapeString(data.Text))
	}
	if len(parts) == 0 {
		return "<span></span>"
	}

	textAlign := FooterRight
	switch strings.ToLower(data.Position) {
	case FooterLeft, FooterCenter:
		textAlign = strings.ToLower(data.Position)
	}

	return fmt.Sprintf(`<div style="font-size: 9px; font-family: %s; color: #555; width: 100%%; text-align: %s; padding: 0 %.2fin;">%s</div>`,
		defaultFontFamily, textAlign, margin, strings.Join(parts, " - "))
}

func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter writes the HTML to a temp file so relative file:// resources
// resolve, then renders it.
type rodConverter struct {
	renderer pdfRenderer
}

func newRodConverter(timeout time.Duration, logger *slog.Logger) *rodConverter {
	return &rodConverter{renderer: newRodRenderer(timeout, logger)}
}

func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, tmpPath, opts)
}

func (c *rodConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
