package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var _ AssetLoader = (*FilesystemLoader)(nil)

// FilesystemLoader loads assets from a directory on disk.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader checks that basePath is a readable directory.
// The stored path has symlinks resolved so containment checks compare
// real paths.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, abs)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
	}
	if _, err := os.ReadDir(abs); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{basePath: abs}, nil
}

// LoadStyle reads {basePath}/styles/{name}.css.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	p := filepath.Join(f.basePath, "styles", name+".css")
	if err := f.contains(p); err != nil {
		return "", err
	}

	content, err := os.ReadFile(p) // #nosec G304 -- containment checked above
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(content), nil
}

// LoadTemplateSet reads cover.html and colophon.html from
// {basePath}/templates/{name}/. Both must exist.
func (f *FilesystemLoader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	dir := filepath.Join(f.basePath, "templates", name)
	if err := f.contains(dir + string(filepath.Separator)); err != nil {
		return nil, err
	}

	cover, coverErr := os.ReadFile(filepath.Join(dir, coverFile))     // #nosec G304 -- containment checked above
	colophon, colErr := os.ReadFile(filepath.Join(dir, colophonFile)) // #nosec G304 -- containment checked above

	if os.IsNotExist(coverErr) && os.IsNotExist(colErr) {
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	}
	if coverErr != nil && !os.IsNotExist(coverErr) {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrAssetRead, coverFile, coverErr)
	}
	if colErr != nil && !os.IsNotExist(colErr) {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrAssetRead, colophonFile, colErr)
	}
	if coverErr != nil {
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, coverFile)
	}
	if colErr != nil {
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, colophonFile)
	}

	return &TemplateSet{Name: name, Cover: string(cover), Colophon: string(colophon)}, nil
}

// contains rejects paths that resolve outside basePath, following symlinks
// when the target exists.
func (f *FilesystemLoader) contains(p string) error {
	abs, err := filepath.Abs(p)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	if !strings.HasPrefix(abs, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}
	return nil
}
