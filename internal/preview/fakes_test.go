package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/alnah/go-resumecli/internal/assets"
	"github.com/alnah/go-resumecli/internal/schema"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

// fakeRenderer renders the "v" key of a mapping and counts validations.
type fakeRenderer struct {
	mu          sync.Mutex
	validations int
	errorPages  []string
	invalid     bool
}

func (r *fakeRenderer) RenderResume(ctx context.Context, doc any, tmpl assets.Template) (string, error) {
	r.mu.Lock()
	r.validations++
	invalid := r.invalid
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if invalid {
		return "", &schema.ValidationError{Violations: []schema.Violation{{Path: "/name", Message: "missing"}}}
	}
	m, ok := doc.(map[string]any)
	if !ok {
		return "", errors.New("not a mapping")
	}
	return fmt.Sprintf("<p>%s v=%v</p>", tmpl, m["v"]), nil
}

func (r *fakeRenderer) RenderError(message string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errorPages = append(r.errorPages, message)
	return "<pre>" + message + "</pre>"
}

func (r *fakeRenderer) validationCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.validations
}

// recordingSink collects published content; it fails once failAfter
// publishes have succeeded when failAfter > 0.
type recordingSink struct {
	mu        sync.Mutex
	published []string
	failAfter int
	notify    chan string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{notify: make(chan string, 64)}
}

var errSinkClosed = errors.New("sink closed")

func (s *recordingSink) Publish(ctx context.Context, content string) error {
	s.mu.Lock()
	if s.failAfter > 0 && len(s.published) >= s.failAfter {
		s.mu.Unlock()
		return errSinkClosed
	}
	s.published = append(s.published, content)
	s.mu.Unlock()

	select {
	case s.notify <- content:
	default:
	}
	return nil
}

func (s *recordingSink) contents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.published...)
}

// fileChangeSimulator writes the next version to path on every Next call
// and ends the stream once all versions are written.
type fileChangeSimulator struct {
	path     string
	versions []string
	next     int
}

func (f *fileChangeSimulator) Next(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.next >= len(f.versions) {
		return io.EOF
	}
	if err := os.WriteFile(f.path, []byte(f.versions[f.next]), 0o644); err != nil {
		return err
	}
	f.next++
	return nil
}

// blockingStream never signals; it ends with ctx.
type blockingStream struct{}

func (blockingStream) Next(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// endedStream reports the end of the stream immediately.
type endedStream struct{}

func (endedStream) Next(context.Context) error { return io.EOF }
