package resumecli

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// mockPDFConverter implements pdfConverter without a browser.
type mockPDFConverter struct {
	mu         sync.Mutex
	result     []byte
	err        error
	calls      int
	lastMarkup string
	lastOpts   *pdfOptions
	closed     bool
}

func (m *mockPDFConverter) ToPDF(ctx context.Context, markup string, opts *pdfOptions) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.lastMarkup = markup
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return []byte("%PDF-1.7 mock"), nil
	}
	return m.result, nil
}

func (m *mockPDFConverter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// withPDFConverter injects a converter in place of the rod backend.
func withPDFConverter(c pdfConverter) Option {
	return func(r *Renderer) {
		r.pdfConverter = c
	}
}

// withNow pins the clock used for footer dates.
func withNow(now time.Time) Option {
	return func(r *Renderer) {
		r.cfg.now = func() time.Time { return now }
	}
}

// newTestRenderer builds a Renderer backed by a mock converter.
func newTestRenderer(t *testing.T, opts ...Option) (*Renderer, *mockPDFConverter) {
	t.Helper()

	mock := &mockPDFConverter{}
	r, err := NewRenderer(append([]Option{withPDFConverter(mock)}, opts...)...)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r, mock
}

const validResumeYAML = `name: Jane **Doe**
title: Backend Engineer
contact:
  email: jane@example.com
experience:
  - company: Acme
    positions:
      - title: Engineer
        startDate: "2021-03"
`

const invalidResumeYAML = `name: Jane Doe
experience: []
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
