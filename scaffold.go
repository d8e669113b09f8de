package resumecli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-resumecli/internal/assets"
	"github.com/alnah/go-resumecli/internal/fileutil"
)

// SchemaFileName is the schema written next to scaffolded résumés. The
// sample's yaml-language-server modeline points at it.
const SchemaFileName = "cv.schema.json"

// NewResumeResult lists the files written by NewResume.
type NewResumeResult struct {
	ResumePath string
	SchemaPath string
}

// NewResume writes a sample résumé to outputPath and the JSON Schema next
// to it, so editors with a YAML language server validate while typing.
// An existing résumé is never overwritten unless force is set; the schema
// is always refreshed.
func NewResume(outputPath string, force bool) (*NewResumeResult, error) {
	if outputPath == "" {
		return nil, ErrEmptyOutput
	}
	if !force && fileutil.FileExists(outputPath) {
		return nil, fmt.Errorf("%w: %s", ErrOutputExists, outputPath)
	}

	loader := assets.NewEmbeddedLoader()
	sample, err := loader.LoadSample(assets.SampleName)
	if err != nil {
		return nil, err
	}
	schemaSrc, err := loader.LoadSchema(assets.SchemaName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaLoad, err)
	}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	schemaPath := filepath.Join(dir, SchemaFileName)
	if err := fileutil.WriteFileAtomic(schemaPath, schemaSrc, outputPerm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if err := fileutil.WriteFileAtomic(outputPath, sample, outputPerm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	return &NewResumeResult{ResumePath: outputPath, SchemaPath: schemaPath}, nil
}
