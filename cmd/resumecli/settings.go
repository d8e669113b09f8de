package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/alnah/go-resumecli"
	"github.com/alnah/go-resumecli/internal/config"
	"github.com/alnah/go-resumecli/internal/preview"
)

// ErrInvalidWorkerCount is returned for --workers outside 0..MaxWorkers.
var ErrInvalidWorkerCount = errors.New("invalid worker count")

// loadSettings resolves the effective configuration.
// Priority: CLI flags > env vars > config file > defaults.
func loadSettings(common *commonFlags, render *renderFlags, page *pageFlags, footer *footerFlags) (*config.Config, error) {
	env := loadEnvConfig()

	name := common.config
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	mergeRenderFlags(render, page, footer, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeRenderFlags overwrites config values with flags that were set.
func mergeRenderFlags(render *renderFlags, page *pageFlags, footer *footerFlags, cfg *config.Config) {
	if render.template != "" {
		cfg.Template = render.template
	}
	if render.assetPath != "" {
		cfg.Assets.BasePath = render.assetPath
	}
	if render.dateFormat != "" {
		cfg.Dates.Format = render.dateFormat
	}
	if render.timeout != "" {
		cfg.Timeout = render.timeout
	}

	if page.size != "" {
		cfg.Page.Size = page.size
	}
	if page.orientation != "" {
		cfg.Page.Orientation = page.orientation
	}
	if page.margin != 0 {
		cfg.Page.Margin = page.margin
	}

	// Any footer flag turns the footer on; --no-footer wins over all.
	if footer.position != "" {
		cfg.Footer.Position = footer.position
		cfg.Footer.Enabled = true
	}
	if footer.text != "" {
		cfg.Footer.Text = footer.text
		cfg.Footer.Enabled = true
	}
	if footer.date != "" {
		cfg.Footer.Date = footer.date
		cfg.Footer.Enabled = true
	}
	if footer.pageNumber {
		cfg.Footer.ShowPageNumber = true
		cfg.Footer.Enabled = true
	}
	if footer.disabled {
		cfg.Footer.Enabled = false
	}
}

// rendererOptions translates cfg into Renderer options. Page and footer
// values are validated later by NewRenderer.
func rendererOptions(cfg *config.Config) []resumecli.Option {
	var opts []resumecli.Option

	if d := config.DurationOr(cfg.Timeout, 0); d > 0 {
		opts = append(opts, resumecli.WithTimeout(d))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, resumecli.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Dates.Format != "" {
		opts = append(opts, resumecli.WithDateFormat(cfg.Dates.Format))
	}
	opts = append(opts, resumecli.WithPage(buildPageSettings(cfg)))
	if f := buildFooter(cfg); f != nil {
		opts = append(opts, resumecli.WithFooter(f))
	}
	return opts
}

// buildPageSettings fills unset page values with defaults.
func buildPageSettings(cfg *config.Config) *resumecli.PageSettings {
	page := resumecli.DefaultPageSettings()
	if cfg.Page.Size != "" {
		page.Size = cfg.Page.Size
	}
	if cfg.Page.Orientation != "" {
		page.Orientation = cfg.Page.Orientation
	}
	if cfg.Page.Margin != 0 {
		page.Margin = cfg.Page.Margin
	}
	return page
}

// buildFooter returns nil when the footer is disabled.
func buildFooter(cfg *config.Config) *resumecli.Footer {
	if !cfg.Footer.Enabled {
		return nil
	}
	return &resumecli.Footer{
		Position:       cfg.Footer.Position,
		ShowPageNumber: cfg.Footer.ShowPageNumber,
		Date:           cfg.Footer.Date,
		Text:           cfg.Footer.Text,
	}
}

// resolveSources picks the résumé files: arguments first, then the
// configured source.
func resolveSources(args []string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if cfg.Source != "" {
		return []string{cfg.Source}, nil
	}
	return nil, preview.ErrNoSource
}

// resolveWorkers picks the worker count: flag, then config (env included).
func resolveWorkers(flagWorkers int, cfg *config.Config) (int, error) {
	if err := validateWorkers(flagWorkers); err != nil {
		return 0, err
	}
	if flagWorkers > 0 {
		return flagWorkers, nil
	}
	return cfg.Workers, nil
}

// validateWorkers checks the worker count is within bounds.
func validateWorkers(n int) error {
	if n < 0 || n > config.MaxWorkers {
		return fmt.Errorf("%w: must be between 0 and %d, got %d", ErrInvalidWorkerCount, config.MaxWorkers, n)
	}
	return nil
}

// buildOutputPath maps a source to its destination inside dir.
func buildOutputPath(source, dir string, htmlOnly bool) string {
	base := filepath.Base(source)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	return filepath.Join(dir, name+outputExt(htmlOnly))
}

func outputExt(htmlOnly bool) string {
	if htmlOnly {
		return ".html"
	}
	return ".pdf"
}
