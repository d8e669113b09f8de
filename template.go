package resumecli

import "github.com/alnah/go-resumecli/internal/assets"

// Template identifies a résumé layout.
type Template = assets.Template

// Available templates.
const (
	MinimalBlue     = assets.MinimalBlue
	MinimalGreen    = assets.MinimalGreen
	DefaultTemplate = assets.DefaultTemplate
)

// Templates lists every available template.
func Templates() []Template {
	return assets.Templates()
}

// TemplateNames lists every available template name.
func TemplateNames() []string {
	return assets.TemplateNames()
}

// ParseTemplate resolves a template name, returning ErrUnknownTemplate
// for names outside the closed set.
func ParseTemplate(name string) (Template, error) {
	return assets.ParseTemplate(name)
}
