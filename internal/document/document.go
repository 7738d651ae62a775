// Package document holds the ordered block model a report is made of and
// renders it to the Markdown dialect understood by the conversion pipeline.
package document

import (
	"errors"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrEmptyDocument = errors.New("document has no blocks")
	ErrInvalidBlock  = errors.New("invalid block")
)

// Table styles understood by the report stylesheet.
const (
	TableZebra  = "zebra"
	TableAccent = "accent"
)

// Document is an ordered sequence of blocks.
type Document struct {
	Title  string  `yaml:"title,omitempty"`
	Blocks []Block `yaml:"blocks"`
}

// Block is a tagged union: exactly one field must be set.
type Block struct {
	Heading   *Heading `yaml:"heading,omitempty"`
	Paragraph *string  `yaml:"paragraph,omitempty"`
	List      *List    `yaml:"list,omitempty"`
	Table     *Table   `yaml:"table,omitempty"`
	Figure    *Figure  `yaml:"figure,omitempty"`
	Quote     *string  `yaml:"quote,omitempty"`
	Spacer    *string  `yaml:"spacer,omitempty"` // CSS length, e.g. "0.2in"
	PageBreak bool     `yaml:"pagebreak,omitempty"`
	Rule      bool     `yaml:"rule,omitempty"`
}

type Heading struct {
	Level int    `yaml:"level"`
	Text  string `yaml:"text"`
}

type List struct {
	Intro   string   `yaml:"intro,omitempty"`
	Items   []string `yaml:"items"`
	Ordered bool     `yaml:"ordered,omitempty"`
}

type Table struct {
	Header []string   `yaml:"header"`
	Rows   [][]string `yaml:"rows"`
	Style  string     `yaml:"style,omitempty"`
}

// Figure is an optional pre-rendered image. Width and Height are inches.
type Figure struct {
	File            string  `yaml:"file"`
	Heading         string  `yaml:"heading,omitempty"`
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	Caption         []Block `yaml:"caption,omitempty"`
	PageBreakBefore bool    `yaml:"page_break_before,omitempty"`
}

// Kind names the populated field, or "" when the block is empty or ambiguous.
func (b Block) Kind() string {
	var kinds []string
	if b.Heading != nil {
		kinds = append(kinds, "heading")
	}
	if b.Paragraph != nil {
		kinds = append(kinds, "paragraph")
	}
	if b.List != nil {
		kinds = append(kinds, "list")
	}
	if b.Table != nil {
		kinds = append(kinds, "table")
	}
	if b.Figure != nil {
		kinds = append(kinds, "figure")
	}
	if b.Quote != nil {
		kinds = append(kinds, "quote")
	}
	if b.Spacer != nil {
		kinds = append(kinds, "spacer")
	}
	if b.PageBreak {
		kinds = append(kinds, "pagebreak")
	}
	if b.Rule {
		kinds = append(kinds, "rule")
	}
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// Validate checks every block and reports the first failure with its index.
func (d Document) Validate() error {
	if len(d.Blocks) == 0 {
		return ErrEmptyDocument
	}
	for i, b := range d.Blocks {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("%w: block %d: %v", ErrInvalidBlock, i, err)
		}
	}
	return nil
}

var spacerPattern = regexp.MustCompile(`^\d{1,3}(\.\d{1,3})?(in|cm|mm|pt|px|em)$`)

func (b Block) Validate() error {
	switch b.Kind() {
	case "":
		return errors.New("exactly one block kind must be set")
	case "heading":
		return b.Heading.Validate()
	case "paragraph":
		return validation.Validate(*b.Paragraph, validation.Required.Error("paragraph must not be empty"))
	case "list":
		return b.List.Validate()
	case "table":
		return b.Table.Validate()
	case "figure":
		return b.Figure.Validate()
	case "quote":
		return validation.Validate(*b.Quote, validation.Required.Error("quote must not be empty"))
	case "spacer":
		return validation.Validate(*b.Spacer,
			validation.Required,
			validation.Match(spacerPattern).Error("spacer must be a length such as 0.2in or 12pt"),
		)
	}
	return nil
}

func (h Heading) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.Level, validation.Required, validation.Min(1), validation.Max(3)),
		validation.Field(&h.Text, validation.Required),
	)
}

func (l List) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Items, validation.Required, validation.Each(validation.Required)),
	)
}

func (t Table) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Header, validation.Required),
		validation.Field(&t.Rows, validation.Required, validation.By(func(value any) error {
			for i, row := range value.([][]string) {
				if len(row) != len(t.Header) {
					return fmt.Errorf("row %d has %d cells, header has %d", i, len(row), len(t.Header))
				}
			}
			return nil
		})),
		validation.Field(&t.Style, validation.In(TableZebra, TableAccent)),
	)
}

func (f Figure) Validate() error {
	positive := validation.By(func(value any) error {
		if value.(float64) <= 0 {
			return errors.New("must be greater than zero")
		}
		return nil
	})
	return validation.ValidateStruct(&f,
		validation.Field(&f.File, validation.Required),
		validation.Field(&f.Width, positive),
		validation.Field(&f.Height, positive),
		validation.Field(&f.Caption, validation.By(func(value any) error {
			for i, b := range value.([]Block) {
				if k := b.Kind(); k != "paragraph" && k != "list" {
					return fmt.Errorf("caption block %d must be a paragraph or a list", i)
				}
				if err := b.Validate(); err != nil {
					return fmt.Errorf("caption block %d: %w", i, err)
				}
			}
			return nil
		})),
	)
}
