package assets

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed templates/*.html styles/*.css schemas/*.json samples/*.yaml
var embedded embed.FS

// EmbeddedLoader loads assets compiled into the binary.
type EmbeddedLoader struct {
	fsys fs.FS
}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{fsys: embedded}
}

// LoadStyle loads styles/{name}.css.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	data, err := e.read("styles", name, ".css", ErrStyleNotFound)
	return string(data), err
}

// LoadTemplate loads templates/{name}.html.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	data, err := e.read("templates", name, ".html", ErrTemplateNotFound)
	return string(data), err
}

// LoadSchema loads schemas/{name}.json.
func (e *EmbeddedLoader) LoadSchema(name string) ([]byte, error) {
	return e.read("schemas", name, ".json", ErrSchemaNotFound)
}

// LoadSample loads samples/{name}.yaml.
func (e *EmbeddedLoader) LoadSample(name string) ([]byte, error) {
	return e.read("samples", name, ".yaml", ErrSampleNotFound)
}

func (e *EmbeddedLoader) read(dir, name, ext string, notFound error) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(e.fsys, dir+"/"+name+ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", notFound, name)
	}
	return data, nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
