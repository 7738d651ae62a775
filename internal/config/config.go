package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/alnah/go-reportpdf/internal/dateutil"
	"github.com/alnah/go-reportpdf/internal/fileutil"
	"github.com/alnah/go-reportpdf/internal/yamlutil"
)

var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory name under the XDG config home.
const AppDir = "go-reportpdf"

// Field length limits.
const (
	MaxPathLength           = 4096
	MaxStyleLength          = 4096
	MaxLocaleLength         = 35 // BCP 47 practical maximum
	MaxDateLength           = 50
	MaxTextLength           = 500
	MaxPageSizeLength       = 10
	MaxOrientationLength    = 10
	MaxWatermarkTextLength  = 50
	MaxWatermarkColorLength = 20
	MaxOrganizationLength   = 100
	MaxTOCTitleLength       = 100
	MaxWorkers              = 32
)

// DefaultCoverDate renders the cover date the way the bundled reports print it.
const DefaultCoverDate = "auto:es-long"

// Config holds the generator settings. Zero values mean "use the default".
type Config struct {
	Images    ImagesConfig    `yaml:"images"`
	Output    OutputConfig    `yaml:"output"`
	Style     string          `yaml:"style"` // name, path, or inline CSS
	Assets    AssetsConfig    `yaml:"assets"`
	Locale    string          `yaml:"locale"`
	Date      string          `yaml:"date"` // cover date; "auto" syntax accepted
	Page      PageConfig      `yaml:"page"`
	Footer    FooterConfig    `yaml:"footer"`
	Watermark WatermarkConfig `yaml:"watermark"`
	Cover     CoverConfig     `yaml:"cover"`
	TOC       TOCConfig       `yaml:"toc"`
	Generate  GenerateConfig  `yaml:"generate"`
}

type ImagesConfig struct {
	Dir string `yaml:"dir"` // empty = working directory
}

type OutputConfig struct {
	Dir      string `yaml:"dir"`      // empty = working directory
	KeepHTML bool   `yaml:"keepHTML"` // also write the intermediate HTML
}

type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets only
}

type PageConfig struct {
	Size        string  `yaml:"size"`
	Orientation string  `yaml:"orientation"`
	Margin      float64 `yaml:"margin"` // inches
}

type FooterConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Position       string `yaml:"position"`
	ShowPageNumber bool   `yaml:"showPageNumber"`
	Text           string `yaml:"text"`
}

type WatermarkConfig struct {
	Enabled bool    `yaml:"enabled"`
	Text    string  `yaml:"text"`
	Color   string  `yaml:"color"`
	Opacity float64 `yaml:"opacity"`
	Angle   float64 `yaml:"angle"`
}

type CoverConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Organization string `yaml:"organization"` // overrides the report's institution
	Logo         string `yaml:"logo"`
}

type TOCConfig struct {
	Enabled bool   `yaml:"enabled"`
	Title   string `yaml:"title"` // overrides the report's index title
}

type GenerateConfig struct {
	Workers int    `yaml:"workers"` // 0 = derived from GOMAXPROCS
	Timeout string `yaml:"timeout"` // Go duration, empty = converter default
}

// DefaultConfig reproduces the standalone scripts: cover and index on,
// Letter pages with 0.7in margins, page numbers centered in the footer.
func DefaultConfig() *Config {
	return &Config{
		Locale: dateutil.DefaultLocale,
		Date:   DefaultCoverDate,
		Page: PageConfig{
			Size:        "letter",
			Orientation: "portrait",
			Margin:      0.7,
		},
		Footer: FooterConfig{
			Enabled:        true,
			Position:       "center",
			ShowPageNumber: true,
		},
		Cover: CoverConfig{Enabled: true},
		TOC:   TOCConfig{Enabled: true},
	}
}

// Validate checks lengths and ranges. LoadConfig calls it; callers that
// build a Config by hand should too.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"images.dir", c.Images.Dir, MaxPathLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"style", c.Style, MaxStyleLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"locale", c.Locale, MaxLocaleLength},
		{"date", c.Date, MaxDateLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
		{"footer.text", c.Footer.Text, MaxTextLength},
		{"watermark.text", c.Watermark.Text, MaxWatermarkTextLength},
		{"watermark.color", c.Watermark.Color, MaxWatermarkColorLength},
		{"cover.organization", c.Cover.Organization, MaxOrganizationLength},
		{"cover.logo", c.Cover.Logo, MaxPathLength},
		{"toc.title", c.TOC.Title, MaxTOCTitleLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if c.Footer.Position != "" {
		switch strings.ToLower(c.Footer.Position) {
		case "left", "center", "right":
		default:
			return fmt.Errorf("%w: footer.position %q (must be left, center, or right)", ErrInvalidValue, c.Footer.Position)
		}
	}

	if c.Watermark.Enabled {
		if c.Watermark.Text == "" {
			return fmt.Errorf("%w: watermark.text is required when watermark is enabled", ErrInvalidValue)
		}
		if c.Watermark.Opacity < 0 || c.Watermark.Opacity > 1 {
			return fmt.Errorf("%w: watermark.opacity must be between 0 and 1, got %.2f", ErrInvalidValue, c.Watermark.Opacity)
		}
		if c.Watermark.Angle < -90 || c.Watermark.Angle > 90 {
			return fmt.Errorf("%w: watermark.angle must be between -90 and 90, got %.2f", ErrInvalidValue, c.Watermark.Angle)
		}
	}

	if c.Locale != "" {
		if _, err := dateutil.ResolveLocale(c.Locale); err != nil {
			return fmt.Errorf("%w: locale: %v", ErrInvalidValue, err)
		}
	}

	if c.Date != "" {
		if _, err := dateutil.ResolveDate(c.Date, time.Now(), ""); err != nil {
			return fmt.Errorf("%w: date: %v", ErrInvalidValue, err)
		}
	}

	if c.Generate.Workers < 0 || c.Generate.Workers > MaxWorkers {
		return fmt.Errorf("%w: generate.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Generate.Workers)
	}
	if c.Generate.Timeout != "" {
		d, err := time.ParseDuration(c.Generate.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: generate.timeout %q is not a positive duration", ErrInvalidValue, c.Generate.Timeout)
		}
	}

	return nil
}

// TimeoutDuration returns the parsed generate.timeout, or 0 when unset.
// Validate must have succeeded first.
func (c *Config) TimeoutDuration() time.Duration {
	if c.Generate.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Generate.Timeout)
	return d
}

func validateFieldLength(field, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, field, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads a config by file path or by name. Names are searched as
// ./NAME.yaml, ./NAME.yml, then under $XDG_CONFIG_HOME/go-reportpdf/.
// Keys missing from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	path := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if path, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists the candidate files for a config name, in search order.
func SearchPaths(name string) []string {
	exts := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(exts)*2)
	for _, ext := range exts {
		paths = append(paths, name+ext)
	}
	for _, ext := range exts {
		paths = append(paths, filepath.Join(xdg.ConfigHome, AppDir, name+ext))
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
