package resumecli

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

// mockRenderer implements pdfRenderer for testing.
type mockRenderer struct {
	result      []byte
	err         error
	calledWith  string
	fileContent string
	calledOpts  *pdfOptions
	closed      bool
}

func (m *mockRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	m.calledWith = filePath
	m.calledOpts = opts
	if data, err := os.ReadFile(filePath); err == nil {
		m.fileContent = string(data)
	}
	return m.result, m.err
}

func (m *mockRenderer) Close() error {
	m.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// TestRodConverter_ToPDF - Temp file handoff to the renderer
// ---------------------------------------------------------------------------

func TestRodConverter_ToPDF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		markup  string
		mock    *mockRenderer
		wantErr bool
	}{
		{
			name:   "successful render returns PDF bytes",
			markup: "<html><body>Jane</body></html>",
			mock:   &mockRenderer{result: []byte("%PDF-1.4 fake")},
		},
		{
			name:    "renderer error propagates",
			markup:  "<html></html>",
			mock:    &mockRenderer{err: errors.New("browser crashed")},
			wantErr: true,
		},
		{
			name:   "unicode content",
			markup: "<p>Résumé · Jürgen</p>",
			mock:   &mockRenderer{result: []byte("%PDF-1.4")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &rodConverter{renderer: tt.mock}
			opts := &pdfOptions{Page: DefaultPageSettings()}

			got, err := c.ToPDF(context.Background(), tt.markup, opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToPDF() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != string(tt.mock.result) {
				t.Errorf("ToPDF() = %q, want %q", got, tt.mock.result)
			}
			if !strings.HasSuffix(tt.mock.calledWith, ".html") {
				t.Errorf("renderer got %q, want .html temp file", tt.mock.calledWith)
			}
			if tt.mock.fileContent != tt.markup {
				t.Errorf("temp file content = %q, want %q", tt.mock.fileContent, tt.markup)
			}
			if tt.mock.calledOpts != opts {
				t.Error("options not forwarded")
			}
			if _, err := os.Stat(tt.mock.calledWith); !os.IsNotExist(err) {
				t.Error("temp file not removed")
			}
		})
	}
}

func TestRodConverter_Close(t *testing.T) {
	t.Parallel()

	mock := &mockRenderer{}
	c := &rodConverter{renderer: mock}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if !mock.closed {
		t.Error("renderer not closed")
	}

	if err := (&rodConverter{}).Close(); err != nil {
		t.Errorf("Close() on empty converter = %v", err)
	}
}

func TestRodRenderer_CloseWithoutBrowser(t *testing.T) {
	t.Parallel()

	if err := newRodRenderer(defaultTimeout).Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}

func TestRodRenderer_RenderFromFile_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRodRenderer(defaultTimeout)
	if _, err := r.RenderFromFile(ctx, "/tmp/x.html", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if r.browser != nil {
		t.Error("browser launched for a cancelled context")
	}
}

// ---------------------------------------------------------------------------
// TestBuildPDFOptions - Page geometry and footer
// ---------------------------------------------------------------------------

func TestBuildPDFOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		opts         *pdfOptions
		wantWidth    float64
		wantHeight   float64
		wantBottom   float64
		wantTop      float64
		wantHeaderFt bool
	}{
		{
			name:       "nil options use letter portrait",
			opts:       nil,
			wantWidth:  8.5,
			wantHeight: 11,
			wantTop:    DefaultMargin,
			wantBottom: DefaultMargin,
		},
		{
			name:       "a4 landscape swaps dimensions",
			opts:       &pdfOptions{Page: &PageSettings{Size: "A4", Orientation: "landscape", Margin: 1}},
			wantWidth:  11.69,
			wantHeight: 8.27,
			wantTop:    1,
			wantBottom: 1,
		},
		{
			name: "footer adds bottom margin",
			opts: &pdfOptions{
				Page:   &PageSettings{Size: PageSizeLegal, Orientation: OrientationPortrait, Margin: 0.5},
				Footer: &footerData{ShowPageNumber: true},
			},
			wantWidth:    8.5,
			wantHeight:   14,
			wantTop:      0.5,
			wantBottom:   0.5 + footerMarginExtra,
			wantHeaderFt: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildPDFOptions(tt.opts)
			if *got.PaperWidth != tt.wantWidth || *got.PaperHeight != tt.wantHeight {
				t.Errorf("paper = %vx%v, want %vx%v", *got.PaperWidth, *got.PaperHeight, tt.wantWidth, tt.wantHeight)
			}
			if *got.MarginTop != tt.wantTop || *got.MarginBottom != tt.wantBottom {
				t.Errorf("margins top=%v bottom=%v, want %v/%v", *got.MarginTop, *got.MarginBottom, tt.wantTop, tt.wantBottom)
			}
			if got.DisplayHeaderFooter != tt.wantHeaderFt {
				t.Errorf("DisplayHeaderFooter = %v, want %v", got.DisplayHeaderFooter, tt.wantHeaderFt)
			}
			if !got.PrintBackground {
				t.Error("PrintBackground = false, want true")
			}
		})
	}
}

func TestBuildFooterTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     *footerData
		contains []string
		exact    string
	}{
		{name: "nil", data: nil, exact: "<span></span>"},
		{name: "nothing to show", data: &footerData{Position: "left"}, exact: "<span></span>"},
		{
			name:     "page number defaults right",
			data:     &footerData{ShowPageNumber: true},
			contains: []string{`class="pageNumber"`, `class="totalPages"`, "text-align: right"},
		},
		{
			name:     "all parts centered and escaped",
			data:     &footerData{Position: FooterCenter, ShowPageNumber: true, Date: "2026-01-02", Text: "Jane <Doe>"},
			contains: []string{"text-align: center", "2026-01-02", "Jane &lt;Doe&gt;", " · "},
		},
		{
			name:     "unknown position falls back right",
			data:     &footerData{Position: "top", Text: "x"},
			contains: []string{"text-align: right"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildFooterTemplate(tt.data, 0.5)
			if tt.exact != "" && got != tt.exact {
				t.Errorf("got %q, want %q", got, tt.exact)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("footer %q missing %q", got, want)
				}
			}
		})
	}
}
