// Package reports is the catalog of report definitions. The bundled
// definitions are embedded YAML; users can supply their own files with the
// same schema.
package reports

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/alnah/go-reportpdf/internal/dateutil"
	"github.com/alnah/go-reportpdf/internal/document"
	"github.com/alnah/go-reportpdf/internal/yamlutil"
)

//go:embed definitions/*.yaml
var definitionsFS embed.FS

var (
	ErrUnknownReport     = errors.New("unknown report")
	ErrInvalidDefinition = errors.New("invalid report definition")
	ErrDuplicateReport   = errors.New("duplicate report name")
)

// All selects every bundled report.
const All = "all"

// Definition describes one report: what goes on the cover, the index, the
// body and the closing note.
type Definition struct {
	Name          string           `yaml:"name"`
	Description   string           `yaml:"description"`
	FilePrefix    string           `yaml:"file_prefix"`
	Notebook      string           `yaml:"notebook"`
	Title         string           `yaml:"title"`
	Theme         Theme            `yaml:"theme"`
	Cover         Cover            `yaml:"cover"`
	TOC           TOC              `yaml:"toc"`
	Sections      []document.Block `yaml:"sections"`
	Colophon      Colophon         `yaml:"colophon"`
	RequiredFiles []string         `yaml:"required_files"`
}

// Theme colors are CSS colors: #rgb, #rrggbb or a named color.
type Theme struct {
	Primary          string `yaml:"primary"`
	Secondary        string `yaml:"secondary"`
	CoverBackground  string `yaml:"cover_background"`
	AccentBackground string `yaml:"accent_background"`
}

type Cover struct {
	Kicker       string   `yaml:"kicker"`
	Title        string   `yaml:"title"`
	Subtitle     []string `yaml:"subtitle"`
	Emblem       string   `yaml:"emblem"`
	Course       string   `yaml:"course"`
	Term         string   `yaml:"term"`
	DateLabel    string   `yaml:"date_label"`
	Organization string   `yaml:"organization"`
}

// TOC entries replace the text of the matching top-level heading, in order.
type TOC struct {
	Title   string   `yaml:"title"`
	Entries []string `yaml:"entries"`
}

type Colophon struct {
	Title      string   `yaml:"title"`
	Paragraphs []string `yaml:"paragraphs"`
	FilesTitle string   `yaml:"files_title"`
	Files      []string `yaml:"files"`
}

var colorPattern = regexp.MustCompile(`^(#[0-9A-Fa-f]{3}|#[0-9A-Fa-f]{6}|[A-Za-z]{3,20})$`)

// Validate checks the catalog fields and every section block.
func (d *Definition) Validate() error {
	err := validation.ValidateStruct(d,
		validation.Field(&d.Name, validation.Required, validation.Length(1, 50)),
		validation.Field(&d.FilePrefix,
			validation.Required,
			validation.Length(1, 100),
			validation.By(func(value any) error {
				if strings.ContainsAny(value.(string), `/\`) || strings.Contains(value.(string), "..") {
					return errors.New("must be a plain file name")
				}
				return nil
			}),
		),
		validation.Field(&d.Theme),
		validation.Field(&d.Sections, validation.Required),
		validation.Field(&d.RequiredFiles, validation.Each(validation.Required)),
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, d.Name, err)
	}
	if err := d.Document().Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidDefinition, d.Name, err)
	}
	return nil
}

func (t Theme) Validate() error {
	color := validation.Match(colorPattern).Error("must be #rgb, #rrggbb or a color name")
	return validation.ValidateStruct(&t,
		validation.Field(&t.Primary, color),
		validation.Field(&t.Secondary, color),
		validation.Field(&t.CoverBackground, color),
		validation.Field(&t.AccentBackground, color),
	)
}

// Document returns the body as a document. The slice is shared.
func (d *Definition) Document() document.Document {
	return document.Document{Title: d.Title, Blocks: d.Sections}
}

// FileName is "<prefix>_<YYYYMMDD>.pdf" for t.
func (d *Definition) FileName(t time.Time) string {
	return d.FilePrefix + "_" + dateutil.Stamp(t) + ".pdf"
}

// Figures lists the figure files referenced by the body, in order.
func (d *Definition) Figures() []string {
	var files []string
	for _, b := range d.Sections {
		if b.Figure != nil {
			files = append(files, b.Figure.File)
		}
	}
	return files
}

// Load returns the bundled definition called name.
func Load(name string) (*Definition, error) {
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, name)
	}
	data, err := fs.ReadFile(definitionsFS, path.Join("definitions", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, name)
	}
	var d Definition
	if err := yamlutil.UnmarshalStrict(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDefinition, name, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadFile reads a user definition from file.
func LoadFile(file string) (*Definition, error) {
	var d Definition
	if err := yamlutil.ReadFileStrict(file, &d); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDefinition, file, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Names returns the bundled report names, sorted.
func Names() []string {
	entries, err := fs.ReadDir(definitionsFS, "definitions")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// IsDefinitionFile reports whether arg names a definition file rather than
// a bundled report.
func IsDefinitionFile(arg string) bool {
	ext := strings.ToLower(path.Ext(arg))
	return ext == ".yaml" || ext == ".yml"
}

// Resolve maps CLI arguments to definitions. No arguments and "all" select
// every bundled report; arguments ending in .yaml/.yml are loaded from disk.
// The same source named twice is kept once. Two sources sharing a report
// name is an error, since they would write the same output file.
func Resolve(args []string) ([]*Definition, error) {
	if len(args) == 0 {
		args = []string{All}
	}

	var defs []*Definition
	sources := make(map[string]string) // report name -> source
	add := func(d *Definition, source string) error {
		if prev, ok := sources[d.Name]; ok {
			if prev == source {
				return nil
			}
			return fmt.Errorf("%w: %q from %s and %s", ErrDuplicateReport, d.Name, prev, source)
		}
		sources[d.Name] = source
		defs = append(defs, d)
		return nil
	}

	for _, arg := range args {
		switch {
		case arg == All:
			for _, name := range Names() {
				d, err := Load(name)
				if err != nil {
					return nil, err
				}
				if err := add(d, "bundled"); err != nil {
					return nil, err
				}
			}
		case IsDefinitionFile(arg):
			d, err := LoadFile(arg)
			if err != nil {
				return nil, err
			}
			source := arg
			if abs, err := filepath.Abs(arg); err == nil {
				source = abs
			}
			if err := add(d, source); err != nil {
				return nil, err
			}
		default:
			d, err := Load(arg)
			if err != nil {
				return nil, err
			}
			if err := add(d, "bundled"); err != nil {
				return nil, err
			}
		}
	}
	return defs, nil
}
