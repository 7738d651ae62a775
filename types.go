package reportpdf

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"
)

// Page sizes.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientations.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// Footer positions.
const (
	FooterLeft   = "left"
	FooterCenter = "center"
	FooterRight  = "right"
)

// TOC depth bounds and defaults.
const (
	MinTOCDepth        = 1
	MaxTOCDepth        = 6
	DefaultTOCMinDepth = 1
	DefaultTOCMaxDepth = 3
)

// Watermark defaults and bounds.
const (
	DefaultWatermarkColor   = "#888888"
	DefaultWatermarkOpacity = 0.1
	DefaultWatermarkAngle   = -45.0
	MinWatermarkAngle       = -90.0
	MaxWatermarkAngle       = 90.0
)

// Orphan and widow bounds. Zero means the default.
const (
	MinOrphans     = 1
	MaxOrphans     = 5
	DefaultOrphans = 2
	MinWidows      = 1
	MaxWidows      = 5
	DefaultWidows  = 2
)

// colorPattern accepts #rgb, #rrggbb and CSS color names.
var colorPattern = regexp.MustCompile(`^(#[0-9A-Fa-f]{3}|#[0-9A-Fa-f]{6}|[A-Za-z]{3,20})$`)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, all sides
}

func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks size, orientation and margin. A nil p means defaults.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	switch strings.ToLower(p.Size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}
	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// Footer configures the footer Chrome prints on every page.
type Footer struct {
	Position       string // "left", "center", "right" (default: "right")
	ShowPageNumber bool
	Date           string
	Text           string
}

func (f *Footer) Validate() error {
	if f == nil {
		return nil
	}
	switch strings.ToLower(f.Position) {
	case "", FooterLeft, FooterCenter, FooterRight:
		return nil
	default:
		return fmt.Errorf("%w: %q (must be left, center, or right)", ErrInvalidFooterPosition, f.Position)
	}
}

// Cover is the title page placed before the index.
type Cover struct {
	Kicker       string   // small line above the title
	Title        string   // required
	Subtitle     []string // one paragraph per line
	Emblem       string
	Course       string
	Term         string
	DateLabel    string // printed as "<DateLabel>: <Date>"
	Date         string
	Organization string
	Logo         string // file path or URL
}

// Validate requires a title and checks that a local logo exists.
func (c *Cover) Validate() error {
	if c == nil {
		return nil
	}
	if strings.TrimSpace(c.Title) == "" {
		return ErrCoverTitleRequired
	}
	if c.Logo != "" && !isRemoteResource(c.Logo) {
		if _, err := os.Stat(c.Logo); err != nil {
			return fmt.Errorf("%w: %s", ErrCoverLogoNotFound, c.Logo)
		}
	}
	return nil
}

func isRemoteResource(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "data:")
}

// TOC configures the index page. Zero depths take the defaults.
type TOC struct {
	Title    string
	MinDepth int
	MaxDepth int
	Numbered bool     // prefix entries with 1., 1.1., ...
	Entries  []string // replaces the text of the i-th listed heading
}

func (t *TOC) Validate() error {
	if t == nil {
		return nil
	}
	if t.MinDepth != 0 && (t.MinDepth < MinTOCDepth || t.MinDepth > MaxTOCDepth) {
		return fmt.Errorf("%w: minDepth %d (must be between %d and %d)", ErrInvalidTOCDepth, t.MinDepth, MinTOCDepth, MaxTOCDepth)
	}
	if t.MaxDepth != 0 && (t.MaxDepth < MinTOCDepth || t.MaxDepth > MaxTOCDepth) {
		return fmt.Errorf("%w: maxDepth %d (must be between %d and %d)", ErrInvalidTOCDepth, t.MaxDepth, MinTOCDepth, MaxTOCDepth)
	}
	if t.MinDepth != 0 && t.MaxDepth != 0 && t.MinDepth > t.MaxDepth {
		return fmt.Errorf("%w: minDepth %d greater than maxDepth %d", ErrInvalidTOCDepth, t.MinDepth, t.MaxDepth)
	}
	return nil
}

// Theme overrides the stylesheet colors. Empty fields keep the style's value.
type Theme struct {
	Primary          string // headings, table header band
	Secondary        string // subheadings, quote border
	CoverBackground  string
	AccentBackground string // highlighted table bodies
}

func (t *Theme) Validate() error {
	if t == nil {
		return nil
	}
	for _, c := range []struct{ name, value string }{
		{"primary", t.Primary},
		{"secondary", t.Secondary},
		{"cover background", t.CoverBackground},
		{"accent background", t.AccentBackground},
	} {
		if c.value != "" && !colorPattern.MatchString(c.value) {
			return fmt.Errorf("%w: %s %q", ErrInvalidThemeColor, c.name, c.value)
		}
	}
	return nil
}

// Watermark is diagonal text behind every page.
type Watermark struct {
	Text    string
	Color   string  // empty = DefaultWatermarkColor
	Opacity float64 // 0 = DefaultWatermarkOpacity
	Angle   float64 // degrees
}

func (w *Watermark) Validate() error {
	if w == nil {
		return nil
	}
	if w.Color != "" && !colorPattern.MatchString(w.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidWatermarkColor, w.Color)
	}
	if w.Opacity < 0 || w.Opacity > 1 {
		return fmt.Errorf("%w: %.2f (must be between 0 and 1)", ErrInvalidWatermarkOpacity, w.Opacity)
	}
	if w.Angle < MinWatermarkAngle || w.Angle > MaxWatermarkAngle {
		return fmt.Errorf("%w: %.1f (must be between %.0f and %.0f)", ErrInvalidWatermarkAngle, w.Angle, MinWatermarkAngle, MaxWatermarkAngle)
	}
	return nil
}

// PageBreaks controls forced breaks before headings and orphan/widow lines.
type PageBreaks struct {
	BeforeH1 bool
	BeforeH2 bool
	BeforeH3 bool
	Orphans  int // 0 = DefaultOrphans
	Widows   int // 0 = DefaultWidows
}

func (pb *PageBreaks) Validate() error {
	if pb == nil {
		return nil
	}
	if pb.Orphans != 0 && (pb.Orphans < MinOrphans || pb.Orphans > MaxOrphans) {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidOrphans, pb.Orphans, MinOrphans, MaxOrphans)
	}
	if pb.Widows != 0 && (pb.Widows < MinWidows || pb.Widows > MaxWidows) {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidWidows, pb.Widows, MinWidows, MaxWidows)
	}
	return nil
}

// Colophon is the closing note appended after the last section.
type Colophon struct {
	Title      string
	Paragraphs []string
	FilesTitle string
	Files      []string
}

func (c *Colophon) Validate() error {
	if c == nil {
		return nil
	}
	if len(c.Paragraphs) == 0 && len(c.Files) == 0 {
		return ErrEmptyColophon
	}
	return nil
}

// Input is one conversion request. Every pointer field is optional.
type Input struct {
	Markdown  string // required
	Title     string // <title> of the HTML document
	Lang      string // <html lang>, default "es"
	SourceDir string // base for relative image and link paths
	CSS       string // appended after the style

	Page       *PageSettings
	Footer     *Footer
	Cover      *Cover
	TOC        *TOC
	Theme      *Theme
	Watermark  *Watermark
	PageBreaks *PageBreaks
	Colophon   *Colophon

	HTMLOnly bool // stop before PDF rendering
}

// ConvertResult carries the final HTML and, unless HTMLOnly, the PDF.
type ConvertResult struct {
	HTML []byte
	PDF  []byte
}

// Option configures a Converter.
type Option func(*Converter)

type converterConfig struct {
	timeout       time.Duration
	styleInput    string
	resolvedStyle string
	assetPath     string
	templateSet   *TemplateSet
	logger        *slog.Logger
}

const defaultTimeout = 30 * time.Second

// WithTimeout sets the page load timeout.
// Panics if d <= 0, like time.NewTicker.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("reportpdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithStyle selects the stylesheet: a style name known to the asset loader,
// a path to a .css file, or inline CSS.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
	}
}

// WithAssetPath loads styles and templates from dir, falling back to the
// embedded ones.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithAssetLoader replaces the asset loader. It wins over WithAssetPath.
func WithAssetLoader(l AssetLoader) Option {
	return func(c *Converter) {
		c.publicAssetLoader = l
	}
}

func WithTemplateSet(ts *TemplateSet) Option {
	return func(c *Converter) {
		c.cfg.templateSet = ts
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.cfg.logger = l
		}
	}
}
