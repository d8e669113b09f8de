package assets

import "errors"

// AssetResolver tries a custom loader first and falls back to the embedded
// assets when the custom directory does not provide the requested file.
type AssetResolver struct {
	custom   AssetLoader // nil if no custom path configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver.
// An empty customBasePath means embedded assets only.
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

// LoadStyle implements AssetLoader.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return fallback(r, func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

// LoadTemplate implements AssetLoader.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return fallback(r, func(l AssetLoader) (string, error) { return l.LoadTemplate(name) })
}

// LoadSchema implements AssetLoader.
func (r *AssetResolver) LoadSchema(name string) ([]byte, error) {
	return fallback(r, func(l AssetLoader) ([]byte, error) { return l.LoadSchema(name) })
}

// LoadSample implements AssetLoader.
func (r *AssetResolver) LoadSample(name string) ([]byte, error) {
	return fallback(r, func(l AssetLoader) ([]byte, error) { return l.LoadSample(name) })
}

// HasCustomLoader returns true if a custom asset directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// fallback only retries on "not found"; validation and I/O errors from the
// custom directory are returned as-is.
func fallback[T any](r *AssetResolver, load func(AssetLoader) (T, error)) (T, error) {
	if r.custom == nil {
		return load(r.embedded)
	}

	v, err := load(r.custom)
	if err == nil || !isNotFoundError(err) {
		return v, err
	}
	return load(r.embedded)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) ||
		errors.Is(err, ErrTemplateNotFound) ||
		errors.Is(err, ErrSchemaNotFound) ||
		errors.Is(err, ErrSampleNotFound)
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
