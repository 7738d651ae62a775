package reportpdf

import (
	"errors"

	"github.com/alnah/go-reportpdf/internal/assets"
)

// Built-in asset names.
const (
	DefaultStyle       = "default"
	DefaultTemplateSet = "default"
)

// AssetLoader supplies stylesheets and template sets by name. NewAssetLoader
// covers directories; implement it for other storage.
type AssetLoader interface {
	// LoadStyle returns the CSS for name, without the .css extension, or
	// ErrStyleNotFound.
	LoadStyle(name string) (string, error)

	// LoadTemplateSet returns ErrTemplateSetNotFound or
	// ErrIncompleteTemplateSet when the set is missing or partial.
	LoadTemplateSet(name string) (*TemplateSet, error)
}

// TemplateSet holds the html/template sources for the cover page and the
// closing colophon.
type TemplateSet struct {
	Name     string
	Cover    string
	Colophon string
}

func NewTemplateSet(name, cover, colophon string) *TemplateSet {
	return &TemplateSet{Name: name, Cover: cover, Colophon: colophon}
}

// NewAssetLoader reads assets from basePath with the embedded ones as
// fallback. An empty basePath serves the embedded assets only. Layout:
//
//	styles/NAME.css
//	templates/NAME/cover.html
//	templates/NAME/colophon.html
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{resolver: resolver}, nil
}

type assetLoaderAdapter struct {
	resolver *assets.AssetResolver
}

func (a *assetLoaderAdapter) LoadStyle(name string) (string, error) {
	css, err := a.resolver.LoadStyle(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return css, nil
}

func (a *assetLoaderAdapter) LoadTemplateSet(name string) (*TemplateSet, error) {
	ts, err := a.resolver.LoadTemplateSet(name)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return NewTemplateSet(ts.Name, ts.Cover, ts.Colophon), nil
}

// assetErrors maps internal asset errors to the exported sentinels. An
// invalid name is reported as not found.
var assetErrors = []struct{ internal, public error }{
	{assets.ErrStyleNotFound, ErrStyleNotFound},
	{assets.ErrTemplateSetNotFound, ErrTemplateSetNotFound},
	{assets.ErrIncompleteTemplateSet, ErrIncompleteTemplateSet},
	{assets.ErrInvalidBasePath, ErrInvalidAssetPath},
	{assets.ErrPathTraversal, ErrInvalidAssetPath},
	{assets.ErrInvalidAssetName, ErrStyleNotFound},
}

func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range assetErrors {
		if errors.Is(err, m.internal) {
			return &assetError{public: m.public, cause: err}
		}
	}
	return err
}

// assetError keeps the internal message but unwraps to the public sentinel
// only, so callers never match on internal/ errors.
type assetError struct {
	public error
	cause  error
}

func (e *assetError) Error() string { return e.cause.Error() }

func (e *assetError) Unwrap() error { return e.public }
