package resumecli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-resumecli/internal/dateutil"
	"github.com/alnah/go-resumecli/internal/document"
	"github.com/alnah/go-resumecli/internal/schema"
)

func mustParse(t *testing.T, src string) any {
	t.Helper()
	doc, err := document.Parse([]byte(src), document.FormatYAML)
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

// ---------------------------------------------------------------------------
// TestNewRenderer - Configuration errors surface at construction
// ---------------------------------------------------------------------------

func TestNewRenderer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"defaults", nil, nil},
		{"bad page size", []Option{WithPage(&PageSettings{Size: "a3", Orientation: "portrait", Margin: 0.5})}, ErrInvalidPageSize},
		{"bad orientation", []Option{WithPage(&PageSettings{Size: "a4", Orientation: "diagonal", Margin: 0.5})}, ErrInvalidOrientation},
		{"bad margin", []Option{WithPage(&PageSettings{Size: "a4", Orientation: "portrait", Margin: 9})}, ErrInvalidMargin},
		{"bad footer position", []Option{WithFooter(&Footer{Position: "top"})}, ErrInvalidFooterPosition},
		{"bad date format", []Option{WithDateFormat("")}, dateutil.ErrInvalidDateFormat},
		{"missing asset path", []Option{WithAssetPath("/nonexistent/resumecli/assets")}, ErrInvalidAssetPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := append([]Option{withPDFConverter(&mockPDFConverter{})}, tt.opts...)
			r, err := NewRenderer(opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewRenderer() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil {
				_ = r.Close()
			}
		})
	}
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) did not panic")
		}
	}()
	WithTimeout(0)
}

// ---------------------------------------------------------------------------
// TestRenderer_RenderResume - Validation, enrichment and templating
// ---------------------------------------------------------------------------

func TestRenderer_RenderResume(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(t)
	doc := mustParse(t, validResumeYAML)

	for _, tmpl := range Templates() {
		t.Run(tmpl.String(), func(t *testing.T) {
			t.Parallel()

			markup, err := r.RenderResume(context.Background(), doc, tmpl)
			if err != nil {
				t.Fatalf("RenderResume() error = %v", err)
			}

			for _, want := range []string{
				"<title>Jane Doe</title>",
				"Jane <strong>Doe</strong>",
				"<style>",
				"Mar 2021",
				"mailto:jane@example.com",
			} {
				if !strings.Contains(markup, want) {
					t.Errorf("markup missing %q", want)
				}
			}
		})
	}
}

func TestRenderer_RenderResume_Deterministic(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(t)

	for _, tmpl := range Templates() {
		t.Run(tmpl.String(), func(t *testing.T) {
			t.Parallel()

			first, err := r.RenderResume(context.Background(), mustParse(t, validResumeYAML), tmpl)
			if err != nil {
				t.Fatalf("RenderResume() error = %v", err)
			}

			// Each pass reparses the source so map iteration starts fresh.
			for i := 0; i < 20; i++ {
				got, err := r.RenderResume(context.Background(), mustParse(t, validResumeYAML), tmpl)
				if err != nil {
					t.Fatalf("RenderResume() pass %d error = %v", i, err)
				}
				if got != first {
					t.Fatalf("RenderResume() pass %d differs from first render", i)
				}
			}
		})
	}
}

func TestRenderer_RenderResume_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(t)
	doc := mustParse(t, validResumeYAML)

	if _, err := r.RenderResume(context.Background(), doc, MinimalBlue); err != nil {
		t.Fatal(err)
	}
	if got := doc.(map[string]any)["name"]; got != "Jane **Doe**" {
		t.Errorf("input name = %#v, want untouched Markdown", got)
	}
}

func TestRenderer_RenderResume_Errors(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(t)

	t.Run("unknown template", func(t *testing.T) {
		t.Parallel()

		_, err := r.RenderResume(context.Background(), mustParse(t, validResumeYAML), Template("baroque"))
		if !errors.Is(err, ErrUnknownTemplate) {
			t.Errorf("error = %v, want ErrUnknownTemplate", err)
		}
	})

	t.Run("schema mismatch", func(t *testing.T) {
		t.Parallel()

		_, err := r.RenderResume(context.Background(), mustParse(t, invalidResumeYAML), MinimalBlue)
		if !IsValidationError(err) {
			t.Fatalf("error = %v, want *ValidationError", err)
		}
		if !strings.HasPrefix(err.Error(), schema.MessagePrefix) {
			t.Errorf("message = %q, want prefix %q", err.Error(), schema.MessagePrefix)
		}
		var ve *ValidationError
		errors.As(err, &ve)
		if len(ve.Violations) == 0 {
			t.Error("no violations reported")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := r.RenderResume(ctx, mustParse(t, validResumeYAML), MinimalBlue)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRenderer_RenderError - Error page never fails
// ---------------------------------------------------------------------------

func TestRenderer_RenderError(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(t)
	page := r.RenderError(`Could not open file: /tmp/<cv> & "notes".yaml`)

	for _, want := range []string{
		`Could not open file: /tmp/&lt;cv&gt; &amp; "notes".yaml`,
		"Expected document schema",
		`&#34;required&#34;`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("error page missing %q", want)
		}
	}
}

func TestFallbackErrorPage(t *testing.T) {
	t.Parallel()

	page := fallbackErrorPage("<boom>")
	if !strings.Contains(page, "<pre>&lt;boom&gt;</pre>") {
		t.Errorf("fallback page = %q", page)
	}
}

// ---------------------------------------------------------------------------
// TestRenderer_RenderViewer - Preview shell
// ---------------------------------------------------------------------------

func TestRenderer_RenderViewer(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(t)
	page, err := r.RenderViewer(ViewerPage{
		Source:      "cv.yaml",
		Template:    MinimalGreen,
		PDFPath:     "/resume.pdf",
		SocketPath:  "/ws",
		PingMessage: "ping",
		PongMessage: "pong",
	})
	if err != nil {
		t.Fatalf("RenderViewer() error = %v", err)
	}

	for _, want := range []string{"Preview · cv.yaml", "minimal_green", `href="/resume.pdf"`, `"ping"`, `"pong"`} {
		if !strings.Contains(page, want) {
			t.Errorf("viewer missing %q", want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRenderer_GeneratePDF - Options handed to the rasterizer
// ---------------------------------------------------------------------------

func TestRenderer_GeneratePDF(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	page := &PageSettings{Size: PageSizeA4, Orientation: OrientationPortrait, Margin: 0.75}
	r, mock := newTestRenderer(t,
		withNow(now),
		WithPage(page),
		WithFooter(&Footer{Position: "Center", ShowPageNumber: true, Date: "auto", Text: "Jane Doe"}),
		WithBaseDir("/home/jane/cv"),
	)

	pdf, err := r.GeneratePDF(context.Background(), `<html><body><img src="photo.png"></body></html>`)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if !strings.HasPrefix(string(pdf), "%PDF") {
		t.Errorf("pdf = %q", pdf)
	}

	if mock.lastOpts.Page != page {
		t.Errorf("page = %+v, want %+v", mock.lastOpts.Page, page)
	}
	f := mock.lastOpts.Footer
	if f == nil || f.Date != "2026-03-14" || f.Position != FooterCenter || f.Text != "Jane Doe" || !f.ShowPageNumber {
		t.Errorf("footer = %+v", f)
	}
	if !strings.Contains(mock.lastMarkup, `src="file:///home/jane/cv/photo.png"`) {
		t.Errorf("relative path not rewritten: %s", mock.lastMarkup)
	}
}

func TestRenderer_GeneratePDF_Defaults(t *testing.T) {
	t.Parallel()

	r, mock := newTestRenderer(t)
	if _, err := r.GeneratePDF(context.Background(), "<p>x</p>"); err != nil {
		t.Fatal(err)
	}
	if mock.lastOpts.Footer != nil {
		t.Errorf("footer = %+v, want nil", mock.lastOpts.Footer)
	}
	if got := *mock.lastOpts.Page; got != *DefaultPageSettings() {
		t.Errorf("page = %+v, want defaults", got)
	}
}

func TestRenderer_GeneratePDF_Errors(t *testing.T) {
	t.Parallel()

	t.Run("converter failure", func(t *testing.T) {
		t.Parallel()

		mock := &mockPDFConverter{err: ErrBrowserConnect}
		r, err := NewRenderer(withPDFConverter(mock))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := r.GeneratePDF(context.Background(), "<p>x</p>"); !errors.Is(err, ErrBrowserConnect) {
			t.Errorf("error = %v, want ErrBrowserConnect", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		r, mock := newTestRenderer(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := r.GeneratePDF(ctx, "<p>x</p>"); !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
		if mock.calls != 0 {
			t.Errorf("converter called %d times after cancel", mock.calls)
		}
	})
}

func TestRenderer_Close(t *testing.T) {
	t.Parallel()

	mock := &mockPDFConverter{}
	r, err := NewRenderer(withPDFConverter(mock))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if !mock.closed {
		t.Error("converter not closed")
	}
}

func TestRenderer_Schema(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(t)
	if !strings.Contains(string(r.Schema()), `"experience"`) {
		t.Error("Schema() does not describe experience")
	}
}
