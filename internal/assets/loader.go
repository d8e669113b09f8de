package assets

// AssetLoader defines the contract for loading résumé assets.
type AssetLoader interface {
	// LoadStyle loads a CSS stylesheet by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)

	// LoadSchema loads a JSON Schema by name (without .json extension).
	// Returns ErrSchemaNotFound if the schema doesn't exist.
	LoadSchema(name string) ([]byte, error)

	// LoadSample loads a sample document by name (without .yaml extension).
	// Returns ErrSampleNotFound if the sample doesn't exist.
	LoadSample(name string) ([]byte, error)
}
