package reports

// Notes:
// - The bundled definitions are loaded for real; their content is asserted
//   only where other code depends on it (index entries, figures, file names).

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-reportpdf/internal/document"
)

// ---------------------------------------------------------------------------
// Bundled definitions
// ---------------------------------------------------------------------------

func TestNames(t *testing.T) {
	t.Parallel()

	got := Names()
	want := []string{"credit", "phishing"}
	if !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestLoad_Bundled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		prefix     string
		notebook   string
		primary    string
		emblem     string
		figures    int
		lastEntry9 string
	}{
		{
			name:       "credit",
			prefix:     "Reporte_Actividad9_ArbolDecision",
			notebook:   "arbol_decision_credito.ipynb",
			primary:    "#1a5490",
			figures:    5,
			lastEntry9: "9. Conclusiones y Hallazgos",
		},
		{
			name:       "phishing",
			prefix:     "Reporte_Actividad9_Phishing",
			notebook:   "arbol_decision_phishing.ipynb",
			primary:    "#8B0000",
			emblem:     "🛡️",
			figures:    6,
			lastEntry9: "9. Conclusiones y Recomendaciones",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := Load(tt.name)
			if err != nil {
				t.Fatalf("Load(%q) unexpected error: %v", tt.name, err)
			}
			if d.Name != tt.name || d.FilePrefix != tt.prefix || d.Notebook != tt.notebook {
				t.Errorf("catalog fields = %q, %q, %q", d.Name, d.FilePrefix, d.Notebook)
			}
			if d.Theme.Primary != tt.primary {
				t.Errorf("Theme.Primary = %q, want %q", d.Theme.Primary, tt.primary)
			}
			if d.Cover.Emblem != tt.emblem {
				t.Errorf("Cover.Emblem = %q, want %q", d.Cover.Emblem, tt.emblem)
			}
			if d.Cover.Kicker != "ACTIVIDAD 9" || d.Cover.Organization != "Instituto Tecnológico de Morelia" {
				t.Errorf("cover = %+v", d.Cover)
			}
			if len(d.TOC.Entries) != 10 || d.TOC.Entries[8] != tt.lastEntry9 {
				t.Errorf("TOC entries = %v", d.TOC.Entries)
			}
			if got := len(d.Figures()); got != tt.figures {
				t.Errorf("Figures() has %d files, want %d", got, tt.figures)
			}
			if d.Colophon.Title != "Nota técnica" || len(d.Colophon.Paragraphs) == 0 {
				t.Errorf("colophon = %+v", d.Colophon)
			}
		})
	}
}

func TestLoad_EveryName(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		d, err := Load(name)
		if err != nil {
			t.Errorf("Load(%q) error = %v", name, err)
			continue
		}
		if len(d.Sections) == 0 {
			t.Errorf("Load(%q) has no sections", name)
		}
	}
}

func TestLoad_ReferencesAreText(t *testing.T) {
	t.Parallel()

	d, err := Load("credit")
	if err != nil {
		t.Fatalf("Load(credit) error = %v", err)
	}
	var found bool
	for _, b := range d.Sections {
		if b.List == nil {
			continue
		}
		for _, item := range b.List.Items {
			if strings.HasPrefix(item, "Pedregosa") {
				found = strings.Contains(item, "Scikit-learn: Machine Learning in Python")
			}
		}
	}
	if !found {
		t.Error("Pedregosa reference missing or truncated")
	}
}

// One index entry per chapter heading keeps entry i on heading i.
func TestLoad_TOCEntriesMatchChapters(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		d, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		var chapters int
		for _, b := range d.Sections {
			if b.Heading != nil && b.Heading.Level == 1 {
				chapters++
			}
		}
		if chapters != len(d.TOC.Entries) {
			t.Errorf("%s: %d chapters, %d index entries", name, chapters, len(d.TOC.Entries))
		}
	}
}

func TestLoad_FiguresAreRequired(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		d, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		for _, f := range d.Figures() {
			if !slices.Contains(d.RequiredFiles, f) {
				t.Errorf("%s: figure %q missing from required_files", name, f)
			}
		}
	}
}

// With no images on disk every figure is skipped and rendering still works.
func TestLoad_RendersWithoutImages(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		d, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		out, err := document.Render(d.Document(), document.RenderOptions{
			Exists: func(string) bool { return false },
		})
		if err != nil {
			t.Fatalf("%s: Render() unexpected error: %v", name, err)
		}
		if !slices.Equal(out.Skipped, d.Figures()) {
			t.Errorf("%s: Skipped = %v, want %v", name, out.Skipped, d.Figures())
		}
		if len(out.Included) != 0 || out.Markdown == "" {
			t.Errorf("%s: Included = %v, markdown empty = %v", name, out.Included, out.Markdown == "")
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "missing", "../credit", "credit.yaml", `a\b`} {
		if _, err := Load(name); !errors.Is(err, ErrUnknownReport) {
			t.Errorf("Load(%q) error = %v, want ErrUnknownReport", name, err)
		}
	}
}

// ---------------------------------------------------------------------------
// FileName
// ---------------------------------------------------------------------------

func TestFileName(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^Reporte_Actividad9_(ArbolDecision|Phishing)_\d{8}\.pdf$`)
	day := time.Date(2025, time.October, 17, 23, 59, 0, 0, time.UTC)

	for _, name := range Names() {
		d, err := Load(name)
		if err != nil {
			t.Fatal(err)
		}
		got := d.FileName(day)
		if !pattern.MatchString(got) {
			t.Errorf("FileName() = %q, does not match %s", got, pattern)
		}
	}

	d := &Definition{FilePrefix: "Reporte_Actividad9_ArbolDecision"}
	if got := d.FileName(day); got != "Reporte_Actividad9_ArbolDecision_20251017.pdf" {
		t.Errorf("FileName() = %q", got)
	}
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func validDefinition() Definition {
	p := "Texto."
	return Definition{
		Name:       "custom",
		FilePrefix: "Reporte_Custom",
		Theme:      Theme{Primary: "#123", Secondary: "#a1b2c3", AccentBackground: "lightgreen"},
		Sections:   []document.Block{{Paragraph: &p}},
	}
}

func TestDefinition_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(d *Definition)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Definition) {}},
		{name: "missing name", mutate: func(d *Definition) { d.Name = "" }, wantErr: true},
		{name: "missing prefix", mutate: func(d *Definition) { d.FilePrefix = "" }, wantErr: true},
		{name: "prefix with slash", mutate: func(d *Definition) { d.FilePrefix = "out/Reporte" }, wantErr: true},
		{name: "prefix with backslash", mutate: func(d *Definition) { d.FilePrefix = `out\Reporte` }, wantErr: true},
		{name: "prefix with dots", mutate: func(d *Definition) { d.FilePrefix = "..Reporte" }, wantErr: true},
		{name: "bad color", mutate: func(d *Definition) { d.Theme.Primary = "red;}" }, wantErr: true},
		{name: "no sections", mutate: func(d *Definition) { d.Sections = nil }, wantErr: true},
		{name: "invalid block", mutate: func(d *Definition) { d.Sections = []document.Block{{}} }, wantErr: true},
		{name: "empty required file", mutate: func(d *Definition) { d.RequiredFiles = []string{""} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := validDefinition()
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDefinition) {
					t.Errorf("Validate() error = %v, want ErrInvalidDefinition", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// LoadFile and Resolve
// ---------------------------------------------------------------------------

const customYAML = `name: custom
file_prefix: Reporte_Custom
title: Reporte propio
sections:
  - heading: {level: 1, text: 1. INTRODUCCIÓN}
  - paragraph: Hola.
`

func writeDefinition(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		d, err := LoadFile(writeDefinition(t, customYAML))
		if err != nil {
			t.Fatalf("LoadFile() unexpected error: %v", err)
		}
		if d.Name != "custom" || len(d.Sections) != 2 {
			t.Errorf("LoadFile() = %+v", d)
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()

		_, err := LoadFile(writeDefinition(t, customYAML+"extra: true\n"))
		if !errors.Is(err, ErrInvalidDefinition) {
			t.Errorf("LoadFile(unknown key) error = %v, want ErrInvalidDefinition", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrInvalidDefinition) {
			t.Errorf("LoadFile(missing) error = %v, want ErrInvalidDefinition", err)
		}
	})
}

func TestResolve(t *testing.T) {
	t.Parallel()

	custom := writeDefinition(t, customYAML)
	shadow := writeDefinition(t, strings.Replace(customYAML, "name: custom", "name: credit", 1))

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr error
	}{
		{name: "default is all", args: nil, want: []string{"credit", "phishing"}},
		{name: "all", args: []string{"all"}, want: []string{"credit", "phishing"}},
		{name: "single", args: []string{"phishing"}, want: []string{"phishing"}},
		{name: "duplicates dropped", args: []string{"credit", "all"}, want: []string{"credit", "phishing"}},
		{name: "file", args: []string{custom, "credit"}, want: []string{"custom", "credit"}},
		{name: "same file twice", args: []string{custom, custom}, want: []string{"custom"}},
		{name: "unknown", args: []string{"credit", "ventas"}, wantErr: ErrUnknownReport},
		{name: "file named like a bundled report", args: []string{"all", shadow}, wantErr: ErrDuplicateReport},
		{name: "bundled after a file with its name", args: []string{shadow, "credit"}, wantErr: ErrDuplicateReport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			defs, err := Resolve(tt.args)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Resolve(%v) error = %v, want %v", tt.args, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%v) unexpected error: %v", tt.args, err)
			}
			var got []string
			for _, d := range defs {
				got = append(got, d.Name)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Resolve(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestIsDefinitionFile(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"credit":          false,
		"mi_reporte.yaml": true,
		"MI.YML":          true,
		"notas.md":        false,
	}
	for arg, want := range tests {
		if got := IsDefinitionFile(arg); got != want {
			t.Errorf("IsDefinitionFile(%q) = %v, want %v", arg, got, want)
		}
	}
}
