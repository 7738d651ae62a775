package main

import (
	"errors"
	"os"

	reportpdf "github.com/alnah/go-reportpdf"
	"github.com/alnah/go-reportpdf/internal/config"
	"github.com/alnah/go-reportpdf/internal/document"
	"github.com/alnah/go-reportpdf/internal/reports"
)

// Exit codes for the reportpdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every requested report was written
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, definition or validation
	ExitIO      = 3 // File not found, permission denied, missing figures
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, reportpdf.ErrBrowserConnect) ||
		errors.Is(err, reportpdf.ErrPageCreate) ||
		errors.Is(err, reportpdf.ErrPageLoad) ||
		errors.Is(err, reportpdf.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrMissingFigures) ||
		errors.Is(err, reportpdf.ErrCoverLogoNotFound) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, reports.ErrUnknownReport) ||
		errors.Is(err, reports.ErrInvalidDefinition) ||
		errors.Is(err, reports.ErrDuplicateReport) ||
		errors.Is(err, document.ErrInvalidBlock) ||
		errors.Is(err, reportpdf.ErrEmptyMarkdown) ||
		errors.Is(err, reportpdf.ErrInvalidPageSize) ||
		errors.Is(err, reportpdf.ErrInvalidOrientation) ||
		errors.Is(err, reportpdf.ErrInvalidMargin) ||
		errors.Is(err, reportpdf.ErrInvalidFooterPosition) ||
		errors.Is(err, reportpdf.ErrInvalidWatermarkColor) ||
		errors.Is(err, reportpdf.ErrInvalidWatermarkOpacity) ||
		errors.Is(err, reportpdf.ErrInvalidWatermarkAngle) ||
		errors.Is(err, reportpdf.ErrInvalidTOCDepth) ||
		errors.Is(err, reportpdf.ErrInvalidThemeColor) ||
		errors.Is(err, reportpdf.ErrInvalidDate) ||
		errors.Is(err, reportpdf.ErrCoverTitleRequired) ||
		errors.Is(err, reportpdf.ErrStyleNotFound) ||
		errors.Is(err, reportpdf.ErrTemplateSetNotFound) ||
		errors.Is(err, reportpdf.ErrIncompleteTemplateSet) ||
		errors.Is(err, reportpdf.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidArgs) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidEnv) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
