package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-resumecli/internal/assets"
	"github.com/alnah/go-resumecli/internal/fileutil"
	"github.com/alnah/go-resumecli/internal/logger"
	"github.com/alnah/go-resumecli/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxAddrLength        = 255
	MaxTemplateLength    = 50
	MaxDateLength        = 30  // "2025-12-31" or "auto:MMMM D, YYYY"
	MaxTextLength        = 500 // footer free-form text
	MaxPageSizeLength    = 10  // "letter", "a4", "legal"
	MaxOrientationLength = 10  // "portrait", "landscape"
	MaxDurationLength    = 20
	MaxWorkers           = 32
)

// Config holds all configuration for rendering and previewing résumés.
type Config struct {
	Source   string        `yaml:"source"`   // résumé file
	Template string        `yaml:"template"` // minimal_blue, minimal_green
	Output   string        `yaml:"output"`   // build destination
	Timeout  string        `yaml:"timeout"`  // PDF generation timeout, e.g. "30s"
	Workers  int           `yaml:"workers"`  // parallel builds (0 = auto)
	Preview  PreviewConfig `yaml:"preview"`
	Page     PageConfig    `yaml:"page"`
	Footer   FooterConfig  `yaml:"footer"`
	Dates    DatesConfig   `yaml:"dates"`
	Assets   AssetsConfig  `yaml:"assets"`
	Log      LogConfig     `yaml:"log"`
}

// PreviewConfig defines the live-preview server. Durations use Go syntax
// ("1s", "250ms").
type PreviewConfig struct {
	Addr         string `yaml:"addr"`
	PingInterval string `yaml:"pingInterval"`
	PongTimeout  string `yaml:"pongTimeout"`
	WriteTimeout string `yaml:"writeTimeout"`
	Debounce     string `yaml:"debounce"`
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "letter")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.5)
}

// FooterConfig defines the PDF footer.
type FooterConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Position       string `yaml:"position"` // "left", "center", "right" (default: "right")
	ShowPageNumber bool   `yaml:"showPageNumber"`
	Date           string `yaml:"date"` // literal, "auto" or "auto:FORMAT"
	Text           string `yaml:"text"`
}

// DatesConfig defines how résumé dates are printed.
type DatesConfig struct {
	Format string `yaml:"format"` // token format or preset, e.g. "MMM YYYY"
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// LogConfig defines logging for the preview server.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error, off
	Format string `yaml:"format"` // console, json
}

// Validate checks lengths and enumerated values. Called automatically by
// LoadConfig, but available for callers who build a Config themselves or
// merge flags and environment into one.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"source", c.Source, MaxPathLength},
		{"template", c.Template, MaxTemplateLength},
		{"output", c.Output, MaxPathLength},
		{"timeout", c.Timeout, MaxDurationLength},
		{"preview.addr", c.Preview.Addr, MaxAddrLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
		{"footer.date", c.Footer.Date, MaxDateLength},
		{"footer.text", c.Footer.Text, MaxTextLength},
		{"dates.format", c.Dates.Format, MaxDateLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	} {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Template != "" {
		if _, err := assets.ParseTemplate(c.Template); err != nil {
			return fmt.Errorf("%w: template: %w", ErrInvalidValue, err)
		}
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	for _, d := range []struct{ name, value string }{
		{"timeout", c.Timeout},
		{"preview.pingInterval", c.Preview.PingInterval},
		{"preview.pongTimeout", c.Preview.PongTimeout},
		{"preview.writeTimeout", c.Preview.WriteTimeout},
		{"preview.debounce", c.Preview.Debounce},
	} {
		if err := validateDuration(d.name, d.value); err != nil {
			return err
		}
	}

	if c.Footer.Position != "" {
		switch strings.ToLower(c.Footer.Position) {
		case "left", "center", "right":
		default:
			return fmt.Errorf("%w: footer.position: %q (must be left, center, or right)", ErrInvalidValue, c.Footer.Position)
		}
	}

	if c.Log.Level != "" && !logger.ValidLevel(c.Log.Level) {
		return fmt.Errorf("%w: log.level: %q", ErrInvalidValue, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", logger.FormatConsole, logger.FormatJSON:
	default:
		return fmt.Errorf("%w: log.format: %q (must be console or json)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateDuration accepts empty values and positive Go durations.
func validateDuration(fieldName, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, fieldName, err)
	}
	if d <= 0 {
		return fmt.Errorf("%w: %s: must be positive, got %s", ErrInvalidValue, fieldName, value)
	}
	return nil
}

// DurationOr parses a validated duration, returning def for empty or
// unparsable values.
func DurationOr(value string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// DefaultConfig returns the built-in configuration: embedded assets, the
// default template, no footer.
func DefaultConfig() *Config {
	return &Config{
		Template: string(assets.DefaultTemplate),
		Output:   "output.pdf",
		Preview:  PreviewConfig{Addr: "127.0.0.1:8000"},
		Log:      LogConfig{Level: "info", Format: logger.FormatConsole},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigParse, yamlutil.Describe(err))
	}

	// Relative paths in a config file are relative to the file.
	base := filepath.Dir(configPath)
	cfg.Source = resolveRelative(base, cfg.Source)
	cfg.Assets.BasePath = resolveRelative(base, cfg.Assets.BasePath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func resolveRelative(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-resumecli/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-resumecli", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
