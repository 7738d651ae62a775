package reportpdf

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/alnah/go-reportpdf/internal/logging"
	"github.com/alnah/go-reportpdf/internal/pipeline"
)

// mockRenderer records the file it was asked to print.
type mockRenderer struct {
	result      []byte
	err         error
	path        string
	fileContent string
	opts        *pdfOptions
}

func (m *mockRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	m.path = filePath
	m.opts = opts
	if data, err := os.ReadFile(filePath); err == nil {
		m.fileContent = string(data)
	}
	return m.result, m.err
}

func (m *mockRenderer) Close() error { return nil }

func TestRodConverter_ToPDF(t *testing.T) {
	t.Parallel()

	renderErr := errors.New("render failed")
	tests := []struct {
		name    string
		mock    *mockRenderer
		wantErr error
	}{
		{name: "success", mock: &mockRenderer{result: []byte("%PDF-1.7")}},
		{name: "renderer error", mock: &mockRenderer{err: renderErr}, wantErr: renderErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &rodConverter{renderer: tt.mock}
			got, err := c.ToPDF(context.Background(), "<p>hola</p>", nil)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ToPDF() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && string(got) != "%PDF-1.7" {
				t.Errorf("ToPDF() = %q", got)
			}
			if tt.mock.fileContent != "<p>hola</p>" {
				t.Errorf("renderer saw %q", tt.mock.fileContent)
			}
			if _, err := os.Stat(tt.mock.path); !os.IsNotExist(err) {
				t.Errorf("temp file %s not removed", tt.mock.path)
			}
		})
	}
}

func TestRodRenderer_CancelledBeforeLaunch(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRodRenderer(defaultTimeout, logging.Discard())
	_, err := r.RenderFromFile(ctx, "/nonexistent.html", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RenderFromFile() error = %v, want context.Canceled", err)
	}
	if r.browser != nil {
		t.Error("browser launched for a cancelled context")
	}
}

func TestRodConverter_CloseWithoutBrowser(t *testing.T) {
	t.Parallel()

	c := newRodConverter(defaultTimeout, logging.Discard())
	if err := c.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if err := (&rodConverter{}).Close(); err != nil {
		t.Errorf("Close() with nil renderer = %v", err)
	}
}

// ---------------------------------------------------------------------------
// buildFooterTemplate
// ---------------------------------------------------------------------------

func TestBuildFooterTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		data         *pipeline.FooterData
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "nil",
			data:         nil,
			wantContains: []string{"<span></span>"},
		},
		{
			name:         "nothing to show",
			data:         &pipeline.FooterData{Position: FooterCenter},
			wantContains: []string{"<span></span>"},
			wantExcludes: []string{"<div"},
		},
		{
			name:         "page number centered",
			data:         &pipeline.FooterData{Position: FooterCenter, ShowPageNumber: true},
			wantContains: []string{`class="pageNumber"`, "text-align: center", "padding: 0 0.70in"},
		},
		{
			name:         "default position is right",
			data:         &pipeline.FooterData{Text: "Actividad 9"},
			wantContains: []string{"text-align: right", "Actividad 9"},
		},
		{
			name:         "parts joined and escaped",
			data:         &pipeline.FooterData{Position: "LEFT", ShowPageNumber: true, Date: "17/10/2025", Text: "<b>x</b>"},
			wantContains: []string{"text-align: left", `</span> - 17/10/2025 - &lt;b&gt;x&lt;/b&gt;`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildFooterTemplate(tt.data, 0.7)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\ngot: %s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("output should not contain %q\ngot: %s", exclude, got)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// buildPDFOptions
// ---------------------------------------------------------------------------

func TestBuildPDFOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                    string
		opts                    *pdfOptions
		wantWidth, wantHeight   float64
		wantMargin, wantBottom  float64
		wantHeaderFooterEnabled bool
	}{
		{
			name:      "nil is letter portrait",
			opts:      nil,
			wantWidth: 8.5, wantHeight: 11,
			wantMargin: DefaultMargin, wantBottom: DefaultMargin,
		},
		{
			name:      "a4 landscape",
			opts:      &pdfOptions{Page: &PageSettings{Size: "A4", Orientation: OrientationLandscape, Margin: 1}},
			wantWidth: 11.69, wantHeight: 8.27,
			wantMargin: 1, wantBottom: 1,
		},
		{
			name:      "legal with footer",
			opts:      &pdfOptions{Page: &PageSettings{Size: PageSizeLegal, Orientation: OrientationPortrait, Margin: 0.7}, Footer: &pipeline.FooterData{ShowPageNumber: true}},
			wantWidth: 8.5, wantHeight: 14,
			wantMargin: 0.7, wantBottom: 0.7 + footerMargin,
			wantHeaderFooterEnabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildPDFOptions(tt.opts)
			if *got.PaperWidth != tt.wantWidth || *got.PaperHeight != tt.wantHeight {
				t.Errorf("paper = %vx%v, want %vx%v", *got.PaperWidth, *got.PaperHeight, tt.wantWidth, tt.wantHeight)
			}
			if *got.MarginTop != tt.wantMargin || *got.MarginLeft != tt.wantMargin || *got.MarginRight != tt.wantMargin {
				t.Errorf("margins = %v/%v/%v, want %v", *got.MarginTop, *got.MarginLeft, *got.MarginRight, tt.wantMargin)
			}
			if *got.MarginBottom != tt.wantBottom {
				t.Errorf("MarginBottom = %v, want %v", *got.MarginBottom, tt.wantBottom)
			}
			if got.DisplayHeaderFooter != tt.wantHeaderFooterEnabled {
				t.Errorf("DisplayHeaderFooter = %v", got.DisplayHeaderFooter)
			}
			if !got.PrintBackground {
				t.Error("PrintBackground must be on for colored table bands")
			}
		})
	}
}
