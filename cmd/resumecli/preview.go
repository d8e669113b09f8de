package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alnah/go-resumecli"
	"github.com/alnah/go-resumecli/internal/config"
	"github.com/alnah/go-resumecli/internal/logger"
	"github.com/alnah/go-resumecli/internal/server"
	"github.com/alnah/go-resumecli/internal/transport"
)

// runPreview serves the live preview until ctx ends. Configuration
// problems fail here, before the listener opens.
func runPreview(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePreviewFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(&flags.common, &flags.render, &flags.page, &flags.footer)
	if err != nil {
		return err
	}
	mergePreviewFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	sources, err := resolveSources(positional, cfg)
	if err != nil {
		return err
	}
	if len(sources) > 1 {
		return fmt.Errorf("%w: preview takes one résumé, got %d", ErrInvalidFlags, len(sources))
	}
	source, err := filepath.Abs(sources[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", sources[0], err)
	}

	tmpl, err := resumecli.ParseTemplate(cfg.Template)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if flags.common.quiet {
		level = "error"
	} else if flags.common.verbose {
		level = "debug"
	}
	log := logger.New(logger.Options{
		Level:  level,
		Format: cfg.Log.Format,
		Writer: env.Stderr,
	})

	renderer, err := resumecli.NewRenderer(rendererOptions(cfg)...)
	if err != nil {
		return err
	}
	defer func() { _ = renderer.Close() }()

	srv, err := server.New(server.Config{
		Addr:     cfg.Preview.Addr,
		Source:   source,
		Template: tmpl,
		Transport: transport.Options{
			PingInterval: config.DurationOr(cfg.Preview.PingInterval, 0),
			PongTimeout:  config.DurationOr(cfg.Preview.PongTimeout, 0),
			WriteTimeout: config.DurationOr(cfg.Preview.WriteTimeout, 0),
			Logger:       log,
		},
		Debounce: config.DurationOr(cfg.Preview.Debounce, 0),
		Logger:   log,
	}, renderer)
	if err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Previewing %s at http://%s (Ctrl+C to stop)\n", filepath.Base(source), srv.Addr())
	}
	return srv.Run(ctx)
}

// mergePreviewFlags overwrites preview settings with flags that were set.
func mergePreviewFlags(flags *previewFlags, cfg *config.Config) {
	if flags.addr != "" {
		cfg.Preview.Addr = flags.addr
	}
	if flags.debounce != "" {
		cfg.Preview.Debounce = flags.debounce
	}
	if flags.pingInterval != "" {
		cfg.Preview.PingInterval = flags.pingInterval
	}
	if flags.pongTimeout != "" {
		cfg.Preview.PongTimeout = flags.pongTimeout
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
}
