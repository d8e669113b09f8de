package resumecli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alnah/go-resumecli/internal/document"
	"github.com/alnah/go-resumecli/internal/fileutil"
	"github.com/alnah/go-resumecli/internal/preview"
)

// outputPerm is the mode of written artifacts.
const outputPerm = 0o644

// Artifact is the result of rendering one source. Markup is always set;
// PDF is nil when only markup was requested. Failure explains why Markup
// is an error page and is nil for a rendered résumé.
type Artifact struct {
	Markup  string
	PDF     []byte
	Failure error
}

// IsErrorPage reports whether the artifact is an error page.
func (a *Artifact) IsErrorPage() bool {
	return a.Failure != nil
}

// Bytes returns the PDF when present, the markup otherwise.
func (a *Artifact) Bytes() []byte {
	if a.PDF != nil {
		return a.PDF
	}
	return []byte(a.Markup)
}

// RenderArtifact loads source and renders it with tmpl, through the same
// cycle as the live preview: unreadable sources and invalid documents
// become error pages, not errors. The returned error is reserved for
// cancellation and rasterizer failures.
//
// Relative references are resolved against the base directory set with
// WithBaseDir, or the source's directory when none was set.
func (r *Renderer) RenderArtifact(ctx context.Context, source string, tmpl Template, htmlOnly bool) (*Artifact, error) {
	if source == "" {
		return nil, ErrEmptySource
	}

	res, err := preview.Render(ctx, r, document.Load, source, tmpl)
	if err != nil {
		return nil, err
	}

	art := &Artifact{Markup: res.Content, Failure: res.Failure}
	if htmlOnly {
		return art, nil
	}

	baseDir := r.cfg.baseDir
	if baseDir == "" {
		if abs, err := filepath.Abs(source); err == nil {
			baseDir = filepath.Dir(abs)
		}
	}

	art.PDF, err = r.generatePDF(ctx, res.Content, baseDir)
	if err != nil {
		return nil, err
	}
	return art, nil
}

// BuildInput describes one build.
type BuildInput struct {
	Source   string   // résumé file, YAML or JSON
	Output   string   // destination path
	Template Template // defaults to DefaultTemplate
	HTMLOnly bool     // write markup instead of PDF
}

// BuildResult describes a written artifact.
type BuildResult struct {
	Output  string
	Failure error // non-nil when the written artifact is an error page
	Size    int
}

// IsErrorPage reports whether the written artifact is an error page.
func (b *BuildResult) IsErrorPage() bool {
	return b.Failure != nil
}

// Build renders in.Source and writes the artifact to in.Output. An
// artifact is written even when it is an error page; BuildResult.Failure
// tells the two apart. The destination is replaced atomically.
func (r *Renderer) Build(ctx context.Context, in BuildInput) (*BuildResult, error) {
	if in.Source == "" {
		return nil, ErrEmptySource
	}
	if in.Output == "" {
		return nil, ErrEmptyOutput
	}
	tmpl := in.Template
	if tmpl == "" {
		tmpl = DefaultTemplate
	}

	art, err := r.RenderArtifact(ctx, in.Source, tmpl, in.HTMLOnly)
	if err != nil {
		return nil, err
	}

	data := art.Bytes()
	if err := fileutil.WriteFileAtomic(in.Output, data, outputPerm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	return &BuildResult{Output: in.Output, Failure: art.Failure, Size: len(data)}, nil
}
