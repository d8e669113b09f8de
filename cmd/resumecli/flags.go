package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrInvalidFlags wraps flag parsing failures.
var ErrInvalidFlags = errors.New("invalid flags")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds flags that shape the rendered résumé.
type renderFlags struct {
	template   string
	assetPath  string
	dateFormat string
	timeout    string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// footerFlags holds footer-related flags.
type footerFlags struct {
	position   string
	text       string
	date       string
	pageNumber bool
	disabled   bool
}

// previewFlags holds all flags for the preview command.
type previewFlags struct {
	common       commonFlags
	render       renderFlags
	page         pageFlags
	footer       footerFlags
	addr         string
	debounce     string
	pingInterval string
	pongTimeout  string
	logLevel     string
	logFormat    string
}

// buildFlags holds all flags for the build command.
type buildFlags struct {
	common   commonFlags
	render   renderFlags
	page     pageFlags
	footer   footerFlags
	output   string
	workers  int
	htmlOnly bool
	strict   bool
}

// newFlags holds flags for the new command.
type newFlags struct {
	force bool
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	json bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVarP(&f.template, "template", "t", "", "template: minimal_blue, minimal_green")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding templates, styles and schema")
	fs.StringVar(&f.dateFormat, "date-format", "", "résumé date format, e.g. \"MMM YYYY\" or a preset")
	fs.StringVar(&f.timeout, "timeout", "", "PDF generation timeout (e.g., 30s, 2m)")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addFooterFlags adds footer flags to a FlagSet.
func addFooterFlags(fs *flag.FlagSet, f *footerFlags) {
	fs.StringVar(&f.position, "footer-position", "", "footer position: left, center, right")
	fs.StringVar(&f.text, "footer-text", "", "custom footer text")
	fs.StringVar(&f.date, "footer-date", "", "footer date: \"auto\", \"auto:FORMAT\" or literal")
	fs.BoolVar(&f.pageNumber, "footer-page-number", false, "show page numbers in footer")
	fs.BoolVar(&f.disabled, "no-footer", false, "disable footer")
}

func newPreviewFlagSet(f *previewFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default 127.0.0.1:8000)")
	fs.StringVar(&f.debounce, "debounce", "", "delay before re-rendering after a change (e.g., 100ms)")
	fs.StringVar(&f.pingInterval, "ping-interval", "", "viewer liveness ping interval")
	fs.StringVar(&f.pongTimeout, "pong-timeout", "", "close a viewer silent for this long")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error, off")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console, json")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addPageFlags(fs, &f.page)
	addFooterFlags(fs, &f.footer)
	return fs
}

func newBuildFlagSet(f *buildFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "", "output file, or directory for several inputs")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.htmlOnly, "html", false, "write HTML instead of PDF")
	fs.BoolVar(&f.strict, "strict", false, "fail when an error page was written")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addPageFlags(fs, &f.page)
	addFooterFlags(fs, &f.footer)
	return fs
}

func newNewFlagSet(f *newFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite an existing résumé")
	return fs
}

func newDoctorFlagSet(f *doctorFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	return fs
}

// parseFlagSet parses args quietly; callers print usage themselves.
// flag.ErrHelp is returned unwrapped.
func parseFlagSet(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	return fs.Args(), nil
}

// parsePreviewFlags parses preview command flags and returns positional args.
func parsePreviewFlags(args []string) (*previewFlags, []string, error) {
	f := &previewFlags{}
	positional, err := parseFlagSet(newPreviewFlagSet(f), args)
	if err != nil {
		return nil, nil, err
	}
	return f, positional, nil
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string) (*buildFlags, []string, error) {
	f := &buildFlags{}
	positional, err := parseFlagSet(newBuildFlagSet(f), args)
	if err != nil {
		return nil, nil, err
	}
	return f, positional, nil
}

// parseNewFlags parses new command flags and returns positional args.
func parseNewFlags(args []string) (*newFlags, []string, error) {
	f := &newFlags{}
	positional, err := parseFlagSet(newNewFlagSet(f), args)
	if err != nil {
		return nil, nil, err
	}
	return f, positional, nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string) (*doctorFlags, error) {
	f := &doctorFlags{}
	if _, err := parseFlagSet(newDoctorFlagSet(f), args); err != nil {
		return nil, err
	}
	return f, nil
}
