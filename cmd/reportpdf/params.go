package main

import (
	reportpdf "github.com/alnah/go-reportpdf"
	"github.com/alnah/go-reportpdf/internal/config"
	"github.com/alnah/go-reportpdf/internal/reports"
)

// reportTOCDepth lists only the numbered top-level sections.
const reportTOCDepth = 1

// buildPageSettings creates reportpdf.PageSettings from config.
func buildPageSettings(cfg *config.Config) *reportpdf.PageSettings {
	page := reportpdf.DefaultPageSettings()
	if cfg.Page.Size != "" {
		page.Size = cfg.Page.Size
	}
	if cfg.Page.Orientation != "" {
		page.Orientation = cfg.Page.Orientation
	}
	if cfg.Page.Margin != 0 {
		page.Margin = cfg.Page.Margin
	}
	return page
}

// buildFooter creates reportpdf.Footer from config, or nil when disabled.
func buildFooter(cfg *config.Config) *reportpdf.Footer {
	if !cfg.Footer.Enabled {
		return nil
	}
	return &reportpdf.Footer{
		Position:       cfg.Footer.Position,
		ShowPageNumber: cfg.Footer.ShowPageNumber,
		Text:           cfg.Footer.Text,
	}
}

// buildWatermark creates reportpdf.Watermark from config. Zero color,
// opacity and angle take the converter defaults.
func buildWatermark(cfg *config.Config) *reportpdf.Watermark {
	if !cfg.Watermark.Enabled || cfg.Watermark.Text == "" {
		return nil
	}
	return &reportpdf.Watermark{
		Text:    cfg.Watermark.Text,
		Color:   cfg.Watermark.Color,
		Opacity: cfg.Watermark.Opacity,
		Angle:   cfg.Watermark.Angle,
	}
}

// buildReportCover fills the cover from the definition. The config may
// replace the institution and add a logo.
func buildReportCover(def *reports.Definition, cfg *config.Config, date string) *reportpdf.Cover {
	if !cfg.Cover.Enabled {
		return nil
	}
	org := def.Cover.Organization
	if cfg.Cover.Organization != "" {
		org = cfg.Cover.Organization
	}
	title := def.Cover.Title
	if title == "" {
		title = def.Title
	}
	return &reportpdf.Cover{
		Kicker:       def.Cover.Kicker,
		Title:        title,
		Subtitle:     def.Cover.Subtitle,
		Emblem:       def.Cover.Emblem,
		Course:       def.Cover.Course,
		Term:         def.Cover.Term,
		DateLabel:    def.Cover.DateLabel,
		Date:         date,
		Organization: org,
		Logo:         cfg.Cover.Logo,
	}
}

// buildReportTOC lists the top-level sections under the definition's entries.
func buildReportTOC(def *reports.Definition, cfg *config.Config) *reportpdf.TOC {
	if !cfg.TOC.Enabled {
		return nil
	}
	title := def.TOC.Title
	if cfg.TOC.Title != "" {
		title = cfg.TOC.Title
	}
	return &reportpdf.TOC{
		Title:    title,
		MinDepth: reportTOCDepth,
		MaxDepth: reportTOCDepth,
		Entries:  def.TOC.Entries,
	}
}

func buildTheme(t reports.Theme) *reportpdf.Theme {
	if t == (reports.Theme{}) {
		return nil
	}
	return &reportpdf.Theme{
		Primary:          t.Primary,
		Secondary:        t.Secondary,
		CoverBackground:  t.CoverBackground,
		AccentBackground: t.AccentBackground,
	}
}

func buildColophon(c reports.Colophon) *reportpdf.Colophon {
	if len(c.Paragraphs) == 0 && len(c.Files) == 0 {
		return nil
	}
	return &reportpdf.Colophon{
		Title:      c.Title,
		Paragraphs: c.Paragraphs,
		FilesTitle: c.FilesTitle,
		Files:      c.Files,
	}
}

// buildReportInput assembles the conversion request for one report.
func buildReportInput(def *reports.Definition, markdown string, job *generateJob) reportpdf.Input {
	cfg := job.cfg
	return reportpdf.Input{
		Markdown:   markdown,
		Title:      def.Title,
		Lang:       cfg.Locale,
		SourceDir:  job.imageDir,
		Page:       buildPageSettings(cfg),
		Footer:     buildFooter(cfg),
		Cover:      buildReportCover(def, cfg, job.coverDate),
		TOC:        buildReportTOC(def, cfg),
		Theme:      buildTheme(def.Theme),
		Watermark:  buildWatermark(cfg),
		PageBreaks: &reportpdf.PageBreaks{BeforeH1: true},
		Colophon:   buildColophon(def.Colophon),
		HTMLOnly:   job.htmlOnly,
	}
}

// validatePrintSettings rejects page, footer and watermark settings before
// any report starts.
func validatePrintSettings(cfg *config.Config) error {
	if err := buildPageSettings(cfg).Validate(); err != nil {
		return err
	}
	if err := buildFooter(cfg).Validate(); err != nil {
		return err
	}
	return buildWatermark(cfg).Validate()
}
