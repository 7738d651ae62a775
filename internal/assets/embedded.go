package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed styles/*.css
var styles embed.FS

//go:embed templates
var templates embed.FS

var _ AssetLoader = (*EmbeddedLoader)(nil)

// EmbeddedLoader serves the assets compiled into the binary.
type EmbeddedLoader struct{}

func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}

func (e *EmbeddedLoader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	dir := path.Join("templates", name)
	cover, coverErr := templates.ReadFile(path.Join(dir, coverFile))
	colophon, colErr := templates.ReadFile(path.Join(dir, colophonFile))

	if errors.Is(coverErr, fs.ErrNotExist) && errors.Is(colErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	}
	if coverErr != nil {
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, coverFile)
	}
	if colErr != nil {
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, colophonFile)
	}

	return &TemplateSet{Name: name, Cover: string(cover), Colophon: string(colophon)}, nil
}

// StyleNames lists the embedded style names, sorted.
func StyleNames() []string {
	entries, err := styles.ReadDir("styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if n, ok := strings.CutSuffix(e.Name(), ".css"); ok {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}
