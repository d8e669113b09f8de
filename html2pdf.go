package resumecli

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-resumecli/internal/fileutil"
	"github.com/alnah/go-resumecli/internal/hints"
	"github.com/alnah/go-resumecli/internal/process"
)

// pdfConverter abstracts markup to PDF conversion so tests can run
// without a browser.
type pdfConverter interface {
	ToPDF(ctx context.Context, markup string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfRenderer renders a local HTML file to PDF.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error)
	Close() error
}

var _ pdfRenderer = (*rodRenderer)(nil)

// pdfOptions holds page geometry and the optional footer.
type pdfOptions struct {
	Page   *PageSettings
	Footer *footerData
}

// footerData is a Footer with its date resolved.
type footerData struct {
	Position       string
	ShowPageNumber bool
	Date           string
	Text           string
}

// footerMarginExtra leaves room for Chrome's native footer.
const footerMarginExtra = 0.25

const footerFontFamily = `-apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif`

// rodRenderer drives headless Chrome through go-rod. The browser is started
// on first use; rod downloads Chromium when none is installed.
type rodRenderer struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to Chrome. Callers hold r.mu.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	rt := hints.Detect()

	// Pre-installed browser (Docker and CI images).
	if rt.BrowserBin != "" {
		l = l.Bin(rt.BrowserBin)
	}
	// Containers usually lack the namespaces Chrome's sandbox needs.
	if rt.CI || rt.Container || rt.NoSandbox || rt.BrowserBin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = browser
	r.launcher = l
	return nil
}

// Close shuts the browser down and kills the Chrome process group so no
// renderer or GPU helper outlives the CLI.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}

	err := r.browser.Close()
	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		r.launcher.Kill()
	}
	r.browser = nil
	r.launcher = nil
	return err
}

// RenderFromFile opens filePath in a new tab and prints it.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	page, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// buildPDFOptions maps page settings and footer onto Chrome's print options.
func buildPDFOptions(opts *pdfOptions) *proto.PagePrintToPDF {
	page := DefaultPageSettings()
	var footer *footerData
	if opts != nil {
		if opts.Page != nil {
			page = opts.Page
		}
		footer = opts.Footer
	}

	width, height := page.dimensions()
	margin := page.Margin
	bottom := margin
	if footer != nil {
		bottom += footerMarginExtra
	}

	pdf := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(bottom),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: true,
	}

	if footer != nil {
		pdf.DisplayHeaderFooter = true
		pdf.HeaderTemplate = "<span></span>"
		pdf.FooterTemplate = buildFooterTemplate(footer, margin)
	}
	return pdf
}

// buildFooterTemplate renders Chrome's footer template. Chrome fills the
// pageNumber and totalPages classes itself.
func buildFooterTemplate(data *footerData, margin float64) string {
	if data == nil {
		return "<span></span>"
	}

	var parts []string
	if data.ShowPageNumber {
		parts = append(parts, `<span class="pageNumber"></span>/<span class="totalPages"></span>`)
	}
	if data.Date != "" {
		parts = append(parts, html.EscapeString(data.Date))
	}
	if data.Text != "" {
		parts = append(parts, html.EscapeString(data.Text))
	}
	if len(parts) == 0 {
		return "<span></span>"
	}

	align := FooterRight
	switch data.Position {
	case FooterLeft, FooterCenter:
		align = data.Position
	}

	return fmt.Sprintf(
		`<div style="font-size: 9px; font-family: %s; color: #888; width: 100%%; text-align: %s; padding: 0 %.2fin;">%s</div>`,
		footerFontFamily, align, margin, strings.Join(parts, " · "),
	)
}

func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter writes markup to a temp file and hands it to the renderer.
// A file:// page lets Chrome load images rewritten to absolute paths.
type rodConverter struct {
	renderer pdfRenderer
}

func newRodConverter(timeout time.Duration) *rodConverter {
	return &rodConverter{renderer: newRodRenderer(timeout)}
}

// ToPDF converts markup to PDF bytes.
func (c *rodConverter) ToPDF(ctx context.Context, markup string, opts *pdfOptions) ([]byte, error) {
	path, cleanup, err := fileutil.WriteTempFile(markup, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, path, opts)
}

// Close releases browser resources.
func (c *rodConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
