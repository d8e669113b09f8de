package resumecli

import (
	"fmt"
	"strings"
	"time"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// Footer positions.
const (
	FooterLeft   = "left"
	FooterCenter = "center"
	FooterRight  = "right"
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid. A nil receiver means
// defaults and is valid.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	switch strings.ToLower(p.Size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
	default:
		return fmt.Errorf("%w: %q (must be letter, a4, or legal)", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q (must be portrait or landscape)", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// dimensions returns paper width and height in inches.
func (p *PageSettings) dimensions() (width, height float64) {
	switch strings.ToLower(p.Size) {
	case PageSizeA4:
		width, height = 8.27, 11.69
	case PageSizeLegal:
		width, height = 8.5, 14
	default:
		width, height = 8.5, 11
	}
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		width, height = height, width
	}
	return width, height
}

// Footer configures the PDF footer. The footer never appears in the
// preview, only in generated PDFs.
type Footer struct {
	Position       string // "left", "center", "right" (default: "right")
	ShowPageNumber bool
	Date           string // literal text, "auto" or "auto:FORMAT"
	Text           string
}

// Validate checks that footer settings are valid. A nil receiver means no
// footer and is valid.
func (f *Footer) Validate() error {
	if f == nil {
		return nil
	}
	switch strings.ToLower(f.Position) {
	case "", FooterLeft, FooterCenter, FooterRight:
		return nil
	default:
		return fmt.Errorf("%w: %q (must be left, center, or right)", ErrInvalidFooterPosition, f.Position)
	}
}

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	timeout    time.Duration
	assetPath  string
	baseDir    string
	dateFormat string
	page       *PageSettings
	footer     *Footer
	now        func() time.Time
}

// defaultTimeout bounds one PDF generation.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF generation timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("resumecli: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithAssetPath sets a directory whose templates/, styles/ and schemas/
// subdirectories override the embedded assets file by file.
func WithAssetPath(path string) Option {
	return func(r *Renderer) {
		r.cfg.assetPath = path
	}
}

// WithBaseDir sets the directory relative image and link references are
// resolved against when generating PDFs, usually the source file's directory.
func WithBaseDir(dir string) Option {
	return func(r *Renderer) {
		r.cfg.baseDir = dir
	}
}

// WithDateFormat sets the token format (or preset name) used by the
// formatDate template helper. Defaults to "MMM YYYY".
func WithDateFormat(format string) Option {
	return func(r *Renderer) {
		r.cfg.dateFormat = format
	}
}

// WithPage sets the PDF page geometry. Nil means defaults.
func WithPage(p *PageSettings) Option {
	return func(r *Renderer) {
		r.cfg.page = p
	}
}

// WithFooter adds a footer to generated PDFs. Nil means no footer.
func WithFooter(f *Footer) Option {
	return func(r *Renderer) {
		r.cfg.footer = f
	}
}
