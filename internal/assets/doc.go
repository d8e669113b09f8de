// Package assets provides the résumé templates, their stylesheets, the
// document schema and the scaffold sample.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - go:embed copies shipped with the binary
//	    ├── FilesystemLoader  - a user directory passed with --asset-path
//	    └── AssetResolver     - custom first, embedded fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── templates/{name}.html   # minimal_blue, minimal_green, error, viewer
//	├── styles/{name}.css       # one stylesheet per résumé template
//	├── schemas/{name}.json     # JSON Schema for source documents (cv)
//	└── samples/{name}.yaml     # scaffold written by "resumecli new" (cv)
//
// # Security
//
// Asset names are validated to prevent path traversal.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
