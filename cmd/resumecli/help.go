package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resumecli <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  preview     Serve a live preview of a résumé")
	fmt.Fprintln(w, "  build       Render résumés to PDF or HTML")
	fmt.Fprintln(w, "  new         Write a sample résumé and its schema")
	fmt.Fprintln(w, "  doctor      Check the rendering setup")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'resumecli help <command>' for details on a specific command.")
}

// printFlags prints a flag set's defaults.
func printFlags(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resumecli preview [flags] [file]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve a live preview. The viewer re-renders whenever the file changes;")
	fmt.Fprintln(w, "invalid data shows an error page until the file is fixed.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  file    YAML or JSON résumé (default: RESUME_SOURCE_FILE or config source)")
	fmt.Fprintln(w)
	printFlags(w, newPreviewFlagSet(&previewFlags{}))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  RESUME_SOURCE_FILE, RESUME_TEMPLATE, RESUMECLI_ADDR, RESUMECLI_LOG_LEVEL, RESUMECLI_LOG_FORMAT")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resumecli build [flags] [file...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render résumés. An artifact is always written: invalid input produces")
	fmt.Fprintln(w, "an error page describing the problem. Use --strict to fail on it.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  file    YAML or JSON résumé; several files build in parallel into --output")
	fmt.Fprintln(w)
	printFlags(w, newBuildFlagSet(&buildFlags{}))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  RESUME_SOURCE_FILE, RESUME_TEMPLATE, RESUMECLI_TIMEOUT, RESUMECLI_PAGE_SIZE, RESUMECLI_WORKERS")
}

// printNewUsage prints usage for the new command.
func printNewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resumecli new [flags] [file]")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Write a sample résumé (default: %s) and its JSON Schema next to it.\n", defaultResumePath)
	fmt.Fprintln(w)
	printFlags(w, newNewFlagSet(&newFlags{}))
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resumecli doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, container/CI settings and the temp directory.")
	fmt.Fprintln(w)
	printFlags(w, newDoctorFlagSet(&doctorFlags{}))
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "preview":
		printPreviewUsage(env.Stdout)
	case "build":
		printBuildUsage(env.Stdout)
	case "new":
		printNewUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: resumecli version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: resumecli help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
