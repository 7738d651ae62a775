package reportpdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// PageSettings
// ---------------------------------------------------------------------------

func TestPageSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    *PageSettings
		wantErr error
	}{
		{name: "nil", page: nil},
		{name: "defaults", page: DefaultPageSettings()},
		{name: "case insensitive", page: &PageSettings{Size: "A4", Orientation: "Landscape", Margin: 1}},
		{name: "legal min margin", page: &PageSettings{Size: PageSizeLegal, Orientation: OrientationPortrait, Margin: MinMargin}},
		{name: "unknown size", page: &PageSettings{Size: "a3", Orientation: OrientationPortrait, Margin: 1}, wantErr: ErrInvalidPageSize},
		{name: "unknown orientation", page: &PageSettings{Size: PageSizeA4, Orientation: "diagonal", Margin: 1}, wantErr: ErrInvalidOrientation},
		{name: "margin too small", page: &PageSettings{Size: PageSizeA4, Orientation: OrientationPortrait, Margin: 0.1}, wantErr: ErrInvalidMargin},
		{name: "margin too large", page: &PageSettings{Size: PageSizeA4, Orientation: OrientationPortrait, Margin: 3.5}, wantErr: ErrInvalidMargin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.page.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Footer, Cover, TOC
// ---------------------------------------------------------------------------

func TestFooter_Validate(t *testing.T) {
	t.Parallel()

	for _, pos := range []string{"", "left", "CENTER", "right"} {
		if err := (&Footer{Position: pos}).Validate(); err != nil {
			t.Errorf("Footer{Position: %q}.Validate() = %v", pos, err)
		}
	}
	if err := (&Footer{Position: "bottom"}).Validate(); !errors.Is(err, ErrInvalidFooterPosition) {
		t.Errorf("Validate() error = %v, want ErrInvalidFooterPosition", err)
	}
	var f *Footer
	if err := f.Validate(); err != nil {
		t.Errorf("nil Footer Validate() = %v", err)
	}
}

func TestCover_Validate(t *testing.T) {
	t.Parallel()

	logo := filepath.Join(t.TempDir(), "escudo.png")
	if err := os.WriteFile(logo, []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		cover   *Cover
		wantErr error
	}{
		{name: "nil", cover: nil},
		{name: "title only", cover: &Cover{Title: "Árbol de Decisión"}},
		{name: "local logo", cover: &Cover{Title: "T", Logo: logo}},
		{name: "remote logo", cover: &Cover{Title: "T", Logo: "https://example.org/logo.png"}},
		{name: "data logo", cover: &Cover{Title: "T", Logo: "data:image/png;base64,AAAA"}},
		{name: "missing title", cover: &Cover{Kicker: "ACTIVIDAD 9"}, wantErr: ErrCoverTitleRequired},
		{name: "missing logo", cover: &Cover{Title: "T", Logo: filepath.Join(t.TempDir(), "nope.png")}, wantErr: ErrCoverLogoNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := tt.cover.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTOC_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		toc     *TOC
		wantErr bool
	}{
		{name: "nil", toc: nil},
		{name: "zero depths", toc: &TOC{Title: "ÍNDICE"}},
		{name: "chapters only", toc: &TOC{MinDepth: 1, MaxDepth: 1}},
		{name: "full range", toc: &TOC{MinDepth: 1, MaxDepth: 6}},
		{name: "min too high", toc: &TOC{MinDepth: 7}, wantErr: true},
		{name: "max negative", toc: &TOC{MaxDepth: -1}, wantErr: true},
		{name: "min above max", toc: &TOC{MinDepth: 3, MaxDepth: 2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.toc.Validate()
			if tt.wantErr != errors.Is(err, ErrInvalidTOCDepth) {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Theme, Watermark, PageBreaks, Colophon
// ---------------------------------------------------------------------------

func TestTheme_Validate(t *testing.T) {
	t.Parallel()

	valid := []*Theme{
		nil,
		{},
		{Primary: "#1a5490", Secondary: "#2c5aa0", CoverBackground: "#334d80", AccentBackground: "lightgreen"},
		{Primary: "#8B0000", Secondary: "#C41E3A", CoverBackground: "#991a1a", AccentBackground: "lightcoral"},
		{Primary: "#abc"},
	}
	for _, th := range valid {
		if err := th.Validate(); err != nil {
			t.Errorf("%+v Validate() = %v", th, err)
		}
	}

	invalid := []*Theme{
		{Primary: "#12345"},
		{Secondary: "red; background: url(x)"},
		{CoverBackground: "rgb(1,2,3)"},
		{AccentBackground: "#ggg"},
	}
	for _, th := range invalid {
		if err := th.Validate(); !errors.Is(err, ErrInvalidThemeColor) {
			t.Errorf("%+v Validate() = %v, want ErrInvalidThemeColor", th, err)
		}
	}
}

func TestWatermark_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		w       *Watermark
		wantErr error
	}{
		{name: "nil", w: nil},
		{name: "defaults", w: &Watermark{Text: "BORRADOR"}},
		{name: "full", w: &Watermark{Text: "BORRADOR", Color: "#888", Opacity: 0.2, Angle: -45}},
		{name: "bad color", w: &Watermark{Text: "x", Color: "#12"}, wantErr: ErrInvalidWatermarkColor},
		{name: "negative opacity", w: &Watermark{Text: "x", Opacity: -0.1}, wantErr: ErrInvalidWatermarkOpacity},
		{name: "opacity above one", w: &Watermark{Text: "x", Opacity: 1.1}, wantErr: ErrInvalidWatermarkOpacity},
		{name: "angle", w: &Watermark{Text: "x", Angle: 91}, wantErr: ErrInvalidWatermarkAngle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := tt.w.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPageBreaks_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pb      *PageBreaks
		wantErr error
	}{
		{name: "nil", pb: nil},
		{name: "zero values", pb: &PageBreaks{BeforeH1: true}},
		{name: "bounds", pb: &PageBreaks{Orphans: MinOrphans, Widows: MaxWidows}},
		{name: "orphans high", pb: &PageBreaks{Orphans: 6}, wantErr: ErrInvalidOrphans},
		{name: "orphans negative", pb: &PageBreaks{Orphans: -1}, wantErr: ErrInvalidOrphans},
		{name: "widows high", pb: &PageBreaks{Widows: 6}, wantErr: ErrInvalidWidows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := tt.pb.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestColophon_Validate(t *testing.T) {
	t.Parallel()

	var nilColophon *Colophon
	if err := nilColophon.Validate(); err != nil {
		t.Errorf("nil Validate() = %v", err)
	}
	if err := (&Colophon{Files: []string{"reporte.pdf"}}).Validate(); err != nil {
		t.Errorf("files only Validate() = %v", err)
	}
	if err := (&Colophon{Title: "Nota técnica"}).Validate(); !errors.Is(err, ErrEmptyColophon) {
		t.Errorf("title only Validate() = %v, want ErrEmptyColophon", err)
	}
}
