package assets

// AssetLoader loads styles and template sets by name.
type AssetLoader interface {
	// LoadStyle returns the CSS for name (no .css extension).
	LoadStyle(name string) (string, error)

	// LoadTemplateSet returns the cover and colophon templates stored
	// under templates/{name}/.
	LoadTemplateSet(name string) (*TemplateSet, error)
}

// TemplateSet groups the html/template sources rendered around a report.
type TemplateSet struct {
	Name     string
	Cover    string
	Colophon string
}

const (
	DefaultTemplateSetName = "default"
	DefaultStyleName       = "default"
)

// Template file names inside a template set directory.
const (
	coverFile    = "cover.html"
	colophonFile = "colophon.html"
)
