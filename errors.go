package resumecli

import (
	"errors"

	"github.com/alnah/go-resumecli/internal/assets"
	"github.com/alnah/go-resumecli/internal/schema"
)

// Sentinel errors for library operations.
var (
	ErrTemplateParse   = errors.New("template parsing failed")
	ErrTemplateExecute = errors.New("template execution failed")
	ErrSchemaLoad      = errors.New("schema loading failed")
	ErrEnrich          = errors.New("document enrichment failed")

	// Rasterizer errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Build errors.
	ErrEmptySource  = errors.New("source path cannot be empty")
	ErrEmptyOutput  = errors.New("output path cannot be empty")
	ErrWriteOutput  = errors.New("failed to write output")
	ErrOutputExists = errors.New("output file already exists")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Footer validation errors.
	ErrInvalidFooterPosition = errors.New("invalid footer position")

	// Asset errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrUnknownTemplate  = assets.ErrUnknownTemplate
)

// ValidationError reports the schema violations of a résumé document.
type ValidationError = schema.ValidationError

// Violation is one failed constraint at one document path.
type Violation = schema.Violation

// IsValidationError reports whether err carries schema violations.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
