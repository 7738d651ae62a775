package reportpdf

import "errors"

// Sentinel errors returned by the converter.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Page settings.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	ErrInvalidFooterPosition = errors.New("invalid footer position")

	// Watermark.
	ErrInvalidWatermarkColor   = errors.New("invalid watermark color")
	ErrInvalidWatermarkOpacity = errors.New("invalid watermark opacity")
	ErrInvalidWatermarkAngle   = errors.New("invalid watermark angle")

	// Cover.
	ErrCoverTitleRequired = errors.New("cover title is required")
	ErrCoverLogoNotFound  = errors.New("cover logo file not found")

	ErrInvalidTOCDepth   = errors.New("invalid TOC depth")
	ErrInvalidThemeColor = errors.New("invalid theme color")
	ErrEmptyColophon     = errors.New("colophon has no paragraphs or files")
	ErrInvalidDate       = errors.New("invalid date")

	// Page breaks.
	ErrInvalidOrphans = errors.New("invalid orphans value")
	ErrInvalidWidows  = errors.New("invalid widows value")

	// Assets.
	ErrStyleNotFound         = errors.New("style not found")
	ErrTemplateSetNotFound   = errors.New("template set not found")
	ErrIncompleteTemplateSet = errors.New("template set missing required template")
	ErrInvalidAssetPath      = errors.New("invalid asset path")

	// Pool.
	ErrPoolClosed = errors.New("converter pool is closed")
)
