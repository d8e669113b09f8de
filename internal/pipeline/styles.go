package pipeline

import (
	"context"
	"strings"
)

// StyleInjector embeds a stylesheet into rendered markup.
type StyleInjector interface {
	InjectCSS(ctx context.Context, markup, css string) string
}

// CSSInjection inlines stylesheets as <style> blocks so the markup stays
// self-contained for the viewer iframe and the PDF temp file.
type CSSInjection struct{}

var _ StyleInjector = (*CSSInjection)(nil)

// InjectCSS places css before </head>, after <body> when there is no head,
// or at the start of the markup as a last resort.
func (CSSInjection) InjectCSS(ctx context.Context, markup, css string) string {
	if css == "" || ctx.Err() != nil {
		return markup
	}

	block := "<style>" + sanitizeCSS(css) + "</style>"
	lower := strings.ToLower(markup)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return markup[:idx] + block + markup[idx:]
	}
	if pos := afterOpenTag(lower, "<body"); pos != -1 {
		return markup[:pos] + block + markup[pos:]
	}
	return block + markup
}

// afterOpenTag returns the index just past the '>' closing the first tag
// starting with prefix, or -1.
func afterOpenTag(lower, prefix string) int {
	idx := strings.Index(lower, prefix)
	if idx == -1 {
		return -1
	}
	end := strings.IndexByte(lower[idx:], '>')
	if end == -1 {
		return -1
	}
	return idx + end + 1
}

// sanitizeCSS keeps a stylesheet from closing its own <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
