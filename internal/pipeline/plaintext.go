package pipeline

import (
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// PlainText reduces an enriched value to text suitable for attributes,
// URLs and the document title. Tags are dropped and entities decoded.
func PlainText(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case template.HTML:
		return stripTags(string(s))
	case string:
		return strings.TrimSpace(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

func stripTags(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}
