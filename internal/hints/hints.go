// Package hints suggests a next step for the CLI failures a résumé author
// can fix alone: no browser, a slow page, a missing config or source, an
// unknown template, an unwritable output, or a build that produced an error
// page.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-resumecli/internal/assets"
	"github.com/alnah/go-resumecli/internal/fileutil"
)

// Kind names a failure the CLI can explain.
type Kind int

const (
	None Kind = iota
	Browser
	Timeout
	ConfigNotFound
	UnknownTemplate
	NoSource
	WriteOutput
	ErrorPage
)

// ContainerEnv forces container detection when set to "1".
const ContainerEnv = "RESUMECLI_CONTAINER"

// dockerMarker is created by Docker at the root of every container.
var dockerMarker = "/.dockerenv"

// Runtime describes where the CLI runs, as far as Chrome cares.
type Runtime struct {
	CI              bool
	Container       bool
	ContainerSignal string // what gave the container away
	NoSandbox       bool   // ROD_NO_SANDBOX=1
	BrowserBin      string // ROD_BROWSER_BIN
}

// Detect reads the runtime from the environment.
func Detect() Runtime {
	rt := Runtime{
		CI: os.Getenv("CI") != "" ||
			os.Getenv("GITHUB_ACTIONS") != "" ||
			os.Getenv("GITLAB_CI") != "" ||
			os.Getenv("JENKINS_URL") != "",
		NoSandbox:  os.Getenv("ROD_NO_SANDBOX") == "1",
		BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
	}

	switch {
	case os.Getenv(ContainerEnv) == "1":
		rt.ContainerSignal = ContainerEnv + "=1"
	case fileutil.FileExists(dockerMarker):
		rt.ContainerSignal = dockerMarker
	case os.Getenv("container") != "":
		rt.ContainerSignal = "container=" + os.Getenv("container")
	case os.Getenv("KUBERNETES_SERVICE_HOST") != "":
		rt.ContainerSignal = "KUBERNETES_SERVICE_HOST"
	}
	rt.Container = rt.ContainerSignal != ""
	return rt
}

// NeedsNoSandbox reports whether Chrome will likely fail to start its
// sandbox and ROD_NO_SANDBOX is not set yet.
func (rt Runtime) NeedsNoSandbox() bool {
	return (rt.CI || rt.Container) && !rt.NoSandbox
}

// For returns the hint for kind as "\n  hint: <text>", ready to append to
// an error line, or "" when there is nothing to suggest.
func For(kind Kind, rt Runtime) string {
	var parts []string

	switch kind {
	case Browser:
		if rt.NeedsNoSandbox() {
			parts = append(parts, "set ROD_NO_SANDBOX=1 inside containers and CI")
		}
		if rt.BrowserBin == "" {
			parts = append(parts, "set ROD_BROWSER_BIN to an installed Chrome")
		}
		parts = append(parts, "run 'resumecli doctor' to check the setup", "or build with --html")
	case Timeout:
		parts = append(parts, "raise --timeout when the résumé loads remote images or fonts")
	case ConfigNotFound:
		parts = append(parts, "pass --config with a file path, or unset RESUMECLI_CONFIG")
	case UnknownTemplate:
		parts = append(parts, "available templates: "+strings.Join(assets.TemplateNames(), ", "))
	case NoSource:
		parts = append(parts, "pass the résumé file as an argument or set RESUME_SOURCE_FILE")
	case WriteOutput:
		parts = append(parts, "check that the output directory exists and is writable")
	case ErrorPage:
		parts = append(parts, "open the output to see the problem and the expected schema; 'resumecli new' writes a valid sample")
	}

	if len(parts) == 0 {
		return ""
	}
	return "\n  hint: " + strings.Join(parts, "; ")
}
