package preview

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-resumecli/internal/assets"
	"github.com/alnah/go-resumecli/internal/document"
)

// ErrOpenFile marks a source that could not be read or parsed.
var ErrOpenFile = errors.New("could not open file")

// Renderer turns documents into markup and messages into error pages.
type Renderer interface {
	RenderResume(ctx context.Context, doc any, tmpl assets.Template) (string, error)
	RenderError(message string) string
}

// Loader reads and parses a source file.
type Loader func(path string) (document.Document, error)

// Result is the outcome of one render cycle: Content is always
// publishable. Failure is nil when Content is the résumé and explains the
// error page otherwise.
type Result struct {
	Content string
	Failure error
}

// IsErrorPage reports whether Content is an error page.
func (r Result) IsErrorPage() bool {
	return r.Failure != nil
}

// OpenFileMessage is the error page text for an unreadable source.
func OpenFileMessage(path string) string {
	return "Could not open file: " + path
}

// Render runs one load and render cycle for path. Load failures produce
// the "Could not open file" page without consulting the renderer's
// validator; render failures produce a page carrying the error message.
// The error return is reserved for cancellation.
func Render(ctx context.Context, r Renderer, load Loader, path string, tmpl assets.Template) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	doc, err := load(path)
	if err != nil {
		return Result{
			Content: r.RenderError(OpenFileMessage(path)),
			Failure: fmt.Errorf("%w: %s: %v", ErrOpenFile, path, err),
		}, nil
	}

	markup, err := r.RenderResume(ctx, doc, tmpl)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return Result{}, err
		}
		return Result{Content: r.RenderError(err.Error()), Failure: err}, nil
	}

	return Result{Content: markup}, nil
}
