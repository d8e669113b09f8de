package main

import (
	"context"
	"errors"
	"os"

	"github.com/alnah/go-resumecli"
	"github.com/alnah/go-resumecli/internal/assets"
	"github.com/alnah/go-resumecli/internal/config"
	"github.com/alnah/go-resumecli/internal/dateutil"
	"github.com/alnah/go-resumecli/internal/hints"
	"github.com/alnah/go-resumecli/internal/preview"
)

// Exit codes for the resumecli CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful command
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, template or strict error page
	ExitIO      = 3 // File not found, permission denied, write failed
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, resumecli.ErrBrowserConnect) ||
		errors.Is(err, resumecli.ErrPageCreate) ||
		errors.Is(err, resumecli.ErrPageLoad) ||
		errors.Is(err, resumecli.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, resumecli.ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrErrorPage) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, preview.ErrNoSource) ||
		errors.Is(err, resumecli.ErrUnknownTemplate) ||
		errors.Is(err, resumecli.ErrTemplateParse) ||
		errors.Is(err, resumecli.ErrSchemaLoad) ||
		errors.Is(err, resumecli.ErrInvalidAssetPath) ||
		errors.Is(err, resumecli.ErrInvalidPageSize) ||
		errors.Is(err, resumecli.ErrInvalidOrientation) ||
		errors.Is(err, resumecli.ErrInvalidMargin) ||
		errors.Is(err, resumecli.ErrInvalidFooterPosition) ||
		errors.Is(err, resumecli.ErrOutputExists) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	kind := hints.None
	switch {
	case errors.Is(err, resumecli.ErrBrowserConnect):
		kind = hints.Browser
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, resumecli.ErrPageLoad):
		kind = hints.Timeout
	case errors.Is(err, config.ErrConfigNotFound):
		kind = hints.ConfigNotFound
	case errors.Is(err, resumecli.ErrUnknownTemplate):
		kind = hints.UnknownTemplate
	case errors.Is(err, preview.ErrNoSource):
		kind = hints.NoSource
	case errors.Is(err, resumecli.ErrWriteOutput):
		kind = hints.WriteOutput
	case errors.Is(err, ErrErrorPage):
		kind = hints.ErrorPage
	}
	return hints.For(kind, hints.Detect())
}
