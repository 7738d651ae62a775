package assets

import "errors"

var _ AssetLoader = (*AssetResolver)(nil)

// AssetResolver tries a custom directory first and falls back to the
// embedded assets when the custom one does not have the asset.
type AssetResolver struct {
	custom   AssetLoader // nil without a custom path
	embedded AssetLoader
}

// NewAssetResolver returns an embedded-only resolver for an empty path.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return withFallback(r, func(l AssetLoader) (string, error) {
		return l.LoadStyle(name)
	})
}

func (r *AssetResolver) LoadTemplateSet(name string) (*TemplateSet, error) {
	return withFallback(r, func(l AssetLoader) (*TemplateSet, error) {
		return l.LoadTemplateSet(name)
	})
}

// HasCustomLoader reports whether a custom directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// withFallback only falls back on not-found; validation and I/O errors
// from the custom loader are returned as is.
func withFallback[T any](r *AssetResolver, load func(AssetLoader) (T, error)) (T, error) {
	if r.custom == nil {
		return load(r.embedded)
	}

	v, err := load(r.custom)
	if err == nil || !isNotFound(err) {
		return v, err
	}
	return load(r.embedded)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateSetNotFound)
}
