package resumecli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/alnah/go-resumecli/internal/assets"
	"github.com/alnah/go-resumecli/internal/dateutil"
	"github.com/alnah/go-resumecli/internal/pipeline"
	"github.com/alnah/go-resumecli/internal/preview"
	"github.com/alnah/go-resumecli/internal/schema"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.Enricher      = (*pipeline.MarkdownEnricher)(nil)
	_ pipeline.StyleInjector = pipeline.CSSInjection{}
	_ documentValidator      = (*schema.Validator)(nil)
	_ pdfConverter           = (*rodConverter)(nil)
	_ preview.Renderer       = (*Renderer)(nil)
)

// documentValidator checks a document against the résumé schema.
type documentValidator interface {
	Validate(doc any) error
	Source() []byte
}

// layout is a parsed résumé template and the stylesheet injected into its output.
type layout struct {
	tmpl *template.Template
	css  string
}

// Renderer turns résumé documents into markup and markup into PDF.
// Templates and the schema are loaded and parsed once by NewRenderer;
// afterwards RenderResume, RenderError and RenderViewer are safe for
// concurrent use. GeneratePDF serializes on one browser; use a RendererPool
// for parallel builds.
type Renderer struct {
	cfg          rendererConfig
	loader       assets.AssetLoader
	validator    documentValidator
	enricher     pipeline.Enricher
	styles       pipeline.StyleInjector
	layouts      map[Template]layout
	errorPage    *template.Template
	viewerPage   *template.Template
	schemaText   string
	dateLayout   string
	pdfConverter pdfConverter
}

// NewRenderer creates a Renderer. Every template in Templates() must
// resolve and parse, otherwise NewRenderer fails: a missing template is a
// configuration error, never a render-time one.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg: rendererConfig{
			timeout:    defaultTimeout,
			dateFormat: dateutil.DefaultResumeFormat,
			now:        time.Now,
		},
		enricher: pipeline.NewMarkdownEnricher(),
		styles:   pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.cfg.page.Validate(); err != nil {
		return nil, err
	}
	if err := r.cfg.footer.Validate(); err != nil {
		return nil, err
	}

	dateLayout, err := dateutil.ParseDateFormat(r.cfg.dateFormat)
	if err != nil {
		return nil, err
	}
	r.dateLayout = dateLayout

	if r.loader == nil {
		resolver, err := assets.NewAssetResolver(r.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		r.loader = resolver
	}

	if err := r.loadSchema(); err != nil {
		return nil, err
	}
	if err := r.loadTemplates(); err != nil {
		return nil, err
	}

	if r.pdfConverter == nil {
		r.pdfConverter = newRodConverter(r.cfg.timeout)
	}

	return r, nil
}

func (r *Renderer) loadSchema() error {
	data, err := r.loader.LoadSchema(assets.SchemaName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaLoad, err)
	}

	if r.validator == nil {
		v, err := schema.Load(data)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSchemaLoad, err)
		}
		r.validator = v
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, r.validator.Source(), "", "  "); err != nil {
		r.schemaText = string(r.validator.Source())
	} else {
		r.schemaText = pretty.String()
	}
	return nil
}

func (r *Renderer) loadTemplates() error {
	funcs := r.funcMap()

	r.layouts = make(map[Template]layout, len(Templates()))
	for _, t := range Templates() {
		tmpl, err := r.parse(t.String(), funcs)
		if err != nil {
			return err
		}
		css, err := r.loader.LoadStyle(t.String())
		if err != nil {
			return fmt.Errorf("loading style %q: %w", t, err)
		}
		r.layouts[t] = layout{tmpl: tmpl, css: css}
	}

	var err error
	if r.errorPage, err = r.parse(assets.ErrorTemplateName, nil); err != nil {
		return err
	}
	if r.viewerPage, err = r.parse(assets.ViewerTemplateName, nil); err != nil {
		return err
	}
	return nil
}

func (r *Renderer) parse(name string, funcs template.FuncMap) (*template.Template, error) {
	src, err := r.loader.LoadTemplate(name)
	if err != nil {
		return nil, fmt.Errorf("loading template %q: %w", name, err)
	}
	tmpl, err := template.New(name).Funcs(funcs).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, name, err)
	}
	return tmpl, nil
}

// funcMap returns the helpers available to résumé templates.
func (r *Renderer) funcMap() template.FuncMap {
	return template.FuncMap{
		"plain": pipeline.PlainText,
		"formatDate": func(v any) string {
			return dateutil.FormatResumeDate(pipeline.PlainText(v), r.dateLayout)
		},
	}
}

// RenderResume validates doc, enriches its strings as Markdown and applies
// tmpl. A schema mismatch returns a *ValidationError; doc is never modified.
// The output is a complete HTML document with the template stylesheet inlined.
func (r *Renderer) RenderResume(ctx context.Context, doc any, tmpl Template) (string, error) {
	l, ok := r.layouts[tmpl]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, tmpl)
	}

	if err := r.validator.Validate(doc); err != nil {
		return "", err
	}

	enriched, err := r.enricher.Enrich(ctx, doc)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrEnrich, err)
	}

	var buf bytes.Buffer
	if err := l.tmpl.Execute(&buf, enriched); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplateExecute, tmpl, err)
	}

	return r.styles.InjectCSS(ctx, buf.String(), l.css), nil
}

// errorPageData feeds the error template.
type errorPageData struct {
	Message template.HTML
	Schema  string
}

// messageEscaper escapes only what could open markup, so paths and quoted
// schema messages read the same in the page as in the log.
var messageEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// RenderError renders the error page for message. It never fails: if the
// error template cannot execute, a minimal built-in page is returned.
func (r *Renderer) RenderError(message string) string {
	data := errorPageData{
		Message: template.HTML(messageEscaper.Replace(message)), // #nosec G203 -- escaped above
		Schema:  r.schemaText,
	}

	var buf bytes.Buffer
	if r.errorPage == nil || r.errorPage.Execute(&buf, data) != nil {
		return fallbackErrorPage(message)
	}
	return buf.String()
}

func fallbackErrorPage(message string) string {
	return `<!DOCTYPE html><html><head><meta charset="utf-8"><title>Résumé error</title></head><body><pre>` +
		messageEscaper.Replace(message) + `</pre></body></html>`
}

// ViewerPage describes the live-preview shell page.
type ViewerPage struct {
	Source      string
	Template    Template
	PDFPath     string
	SocketPath  string
	PingMessage string
	PongMessage string
}

// RenderViewer renders the browser shell that connects to the preview socket.
func (r *Renderer) RenderViewer(page ViewerPage) (string, error) {
	var buf bytes.Buffer
	if err := r.viewerPage.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplateExecute, assets.ViewerTemplateName, err)
	}
	return buf.String(), nil
}

// Schema returns the JSON Schema documents are validated against.
func (r *Renderer) Schema() []byte {
	return r.validator.Source()
}

// GeneratePDF rasterizes markup. Relative image and link references are
// resolved against the base directory set with WithBaseDir. No validation
// is performed: error pages are rasterized like any other markup.
func (r *Renderer) GeneratePDF(ctx context.Context, markup string) ([]byte, error) {
	return r.generatePDF(ctx, markup, r.cfg.baseDir)
}

func (r *Renderer) generatePDF(ctx context.Context, markup, baseDir string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolved, err := pipeline.RewriteRelativePaths(markup, baseDir)
	if err != nil {
		return nil, fmt.Errorf("rewriting relative paths: %w", err)
	}

	footer, err := r.footerData()
	if err != nil {
		return nil, err
	}

	page := r.cfg.page
	if page == nil {
		page = DefaultPageSettings()
	}

	return r.pdfConverter.ToPDF(ctx, resolved, &pdfOptions{Page: page, Footer: footer})
}

// footerData resolves "auto" footer dates against the current time.
func (r *Renderer) footerData() (*footerData, error) {
	f := r.cfg.footer
	if f == nil {
		return nil, nil
	}
	date, err := dateutil.ResolveDate(f.Date, r.cfg.now())
	if err != nil {
		return nil, fmt.Errorf("resolving footer date: %w", err)
	}
	return &footerData{
		Position:       strings.ToLower(f.Position),
		ShowPageNumber: f.ShowPageNumber,
		Date:           date,
		Text:           f.Text,
	}, nil
}

// Close releases the headless browser, if one was started.
func (r *Renderer) Close() error {
	if r.pdfConverter != nil {
		return r.pdfConverter.Close()
	}
	return nil
}
