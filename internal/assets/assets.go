package assets

import (
	"fmt"
	"strings"
)

// Template identifies a résumé layout. The set is closed: every value
// returned by Templates must resolve to templates/{name}.html and
// styles/{name}.css.
type Template string

// Résumé templates.
const (
	MinimalBlue  Template = "minimal_blue"
	MinimalGreen Template = "minimal_green"
)

// Auxiliary template and resource names.
const (
	ErrorTemplateName  = "error"
	ViewerTemplateName = "viewer"
	SchemaName         = "cv"
	SampleName         = "cv"
)

// DefaultTemplate is used when no template is configured.
const DefaultTemplate = MinimalBlue

// Templates lists every résumé template in display order.
func Templates() []Template {
	return []Template{MinimalBlue, MinimalGreen}
}

// TemplateNames returns the template identifiers as strings.
func TemplateNames() []string {
	all := Templates()
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = string(t)
	}
	return names
}

// ParseTemplate resolves a user-supplied name. Matching is case-insensitive
// and accepts hyphens, so "MINIMAL_BLUE" and "minimal-blue" both work.
func ParseTemplate(s string) (Template, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, t := range Templates() {
		if string(t) == norm {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q (available: %s)", ErrUnknownTemplate, s, strings.Join(TemplateNames(), ", "))
}

// String implements fmt.Stringer.
func (t Template) String() string {
	return string(t)
}
