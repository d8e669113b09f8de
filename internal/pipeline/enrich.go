package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// DefaultMaxDepth bounds how deep Enrich descends into nested containers.
const DefaultMaxDepth = 64

// Sentinel errors for enrichment.
var (
	ErrEnrich   = errors.New("markdown enrichment failed")
	ErrTooDeep  = errors.New("document nesting exceeds maximum depth")
	ErrNilInput = errors.New("nil document")
)

var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Enricher turns the string leaves of a document into HTML fragments.
type Enricher interface {
	Enrich(ctx context.Context, doc any) (any, error)
}

// MarkdownEnricher renders every string leaf of a document as Markdown.
// It returns a new tree and never modifies its input.
type MarkdownEnricher struct {
	md       goldmark.Markdown
	maxDepth int
}

// EnricherOption configures a MarkdownEnricher.
type EnricherOption func(*MarkdownEnricher)

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 are ignored.
func WithMaxDepth(depth int) EnricherOption {
	return func(e *MarkdownEnricher) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// NewMarkdownEnricher creates an enricher with tables, strikethrough, task
// lists, ==mark== spans and inline-styled code highlighting. Raw HTML in the
// source is omitted from the output.
func NewMarkdownEnricher(opts ...EnricherOption) *MarkdownEnricher {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			markExtension{},
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false), // inline styles survive the PDF temp file
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	e := &MarkdownEnricher{md: md, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich returns a copy of doc where every string is replaced by its
// rendered template.HTML. Mappings and sequences keep their keys and order.
// Other scalars are returned as is.
func (e *MarkdownEnricher) Enrich(ctx context.Context, doc any) (any, error) {
	if doc == nil {
		return nil, ErrNilInput
	}
	return e.walk(ctx, doc, 0)
}

func (e *MarkdownEnricher) walk(ctx context.Context, node any, depth int) (any, error) {
	if depth > e.maxDepth {
		return nil, fmt.Errorf("%w (%d)", ErrTooDeep, e.maxDepth)
	}

	switch v := node.(type) {
	case string:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return e.render(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, child := range v {
			enriched, err := e.walk(ctx, child, depth+1)
			if err != nil {
				return nil, err
			}
			out[key] = enriched
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			enriched, err := e.walk(ctx, child, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = enriched
		}
		return out, nil
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			rendered, err := e.render(s)
			if err != nil {
				return nil, err
			}
			out[i] = rendered
		}
		return out, nil
	default:
		return node, nil
	}
}

// render converts one Markdown string. A lone paragraph is unwrapped so
// names and titles can sit in inline template positions.
func (e *MarkdownEnricher) render(src string) (template.HTML, error) {
	src = crlfOrCR.ReplaceAllString(src, "\n")

	var buf bytes.Buffer
	if err := e.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEnrich, err)
	}

	return template.HTML(unwrapParagraph(buf.String())), nil // #nosec G203 -- goldmark output, raw HTML disabled
}

func unwrapParagraph(fragment string) string {
	trimmed := strings.TrimSpace(fragment)
	if strings.HasPrefix(trimmed, "<p>") &&
		strings.HasSuffix(trimmed, "</p>") &&
		strings.Count(trimmed, "<p>") == 1 {
		return strings.TrimSuffix(strings.TrimPrefix(trimmed, "<p>"), "</p>")
	}
	return trimmed
}
