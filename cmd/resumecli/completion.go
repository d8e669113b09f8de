package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-resumecli"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagNumber
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed argument values, e.g. shells
	FilePattern string   // glob for file arguments
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"page-size":       {Values: []string{"letter", "a4", "legal"}},
	"orientation":     {Values: []string{"portrait", "landscape"}},
	"footer-position": {Values: []string{"left", "center", "right"}},
	"log-level":       {Values: []string{"debug", "info", "warn", "error", "off"}},
	"log-format":      {Values: []string{"console", "json"}},
	"template":        {Values: resumecli.TemplateNames()},

	"config": {FileGlob: "*.yaml,*.yml"},

	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int64", "uint", "float32", "float64":
			fd.Type = flagNumber
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			if len(meta.Values) > 0 {
				fd.Type = flagEnum
				fd.Values = meta.Values
			} else if meta.FileGlob != "" {
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			} else if meta.IsDir {
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:        "preview",
			Desc:        "Serve a live preview of a résumé",
			Flags:       extractFlagsFromFlagSet(newPreviewFlagSet(&previewFlags{})),
			FilePattern: "*.yaml,*.yml,*.json",
		},
		{
			Name:        "build",
			Desc:        "Render résumés to PDF or HTML",
			Flags:       extractFlagsFromFlagSet(newBuildFlagSet(&buildFlags{})),
			FilePattern: "*.yaml,*.yml,*.json",
		},
		{
			Name:        "new",
			Desc:        "Write a sample résumé and its schema",
			Flags:       extractFlagsFromFlagSet(newNewFlagSet(&newFlags{})),
			FilePattern: "*.yaml,*.yml",
		},
		{
			Name:  "doctor",
			Desc:  "Check the rendering setup",
			Flags: extractFlagsFromFlagSet(newDoctorFlagSet(&doctorFlags{})),
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish)},
		},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = generateBash(getCommands())
	case ShellZsh:
		script = generateZsh(getCommands())
	case ShellFish:
		script = generateFish(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// globExtensions turns "*.yaml,*.yml" into "yaml|yml" style parts.
func globExtensions(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		exts = append(exts, strings.TrimPrefix(strings.TrimSpace(g), "*."))
	}
	return exts
}

func generateBash(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# bash completion for resumecli\n")
	b.WriteString("_resumecli_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")

	// Flag values.
	b.WriteString("    case \"${prev}\" in\n")
	seen := make(map[string]bool)
	for _, c := range cmds {
		for _, f := range c.Flags {
			if seen[f.Long] || (f.Type != flagEnum && f.Type != flagDir && f.Type != flagFile) {
				continue
			}
			seen[f.Long] = true
			pattern := "--" + f.Long
			if f.Short != "" {
				pattern += "|-" + f.Short
			}
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -W %q -- \"${cur}\")); return ;;\n",
					pattern, strings.Join(f.Values, " "))
			case flagDir:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -d -- \"${cur}\")); return ;;\n", pattern)
			case flagFile:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"${cur}\")); return ;;\n",
					pattern, strings.Join(globExtensions(f.FileGlob), "|"))
			}
		}
	}
	b.WriteString("    esac\n\n")

	// Flags and arguments per command.
	b.WriteString("    case \"${cmd}\" in\n")
	for _, c := range cmds {
		var words []string
		for _, f := range c.Flags {
			words = append(words, "--"+f.Long)
		}
		words = append(words, c.Args...)
		if len(words) == 0 && c.FilePattern == "" {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(words, " "))
		if c.FilePattern != "" {
			fmt.Fprintf(&b, "            [[ \"${cur}\" != -* ]] && COMPREPLY+=($(compgen -f -X '!*.@(%s)' -- \"${cur}\"))\n",
				strings.Join(globExtensions(c.FilePattern), "|"))
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("shopt -s extglob\n")
	b.WriteString("complete -F _resumecli_completions resumecli\n")

	return b.String()
}

// zshEscape escapes characters _arguments treats specially.
var zshEscape = strings.NewReplacer("[", "\\[", "]", "\\]", "'", "'\\''", ":", "\\:")

func generateZsh(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("#compdef resumecli\n\n")
	b.WriteString("_resumecli() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape.Replace(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${words[2]}\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Args) == 0 && c.FilePattern == "" {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		b.WriteString("            _arguments \\\n")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "                %s \\\n", zshFlagSpec(f))
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "                '1:argument:(%s)'\n", strings.Join(c.Args, " "))
		case c.FilePattern != "":
			fmt.Fprintf(&b, "                '*:file:_files -g \"%s\"'\n", zshGlob(c.FilePattern))
		default:
			b.WriteString("                ''\n")
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _resumecli resumecli\n")

	return b.String()
}

func zshFlagSpec(f flagDef) string {
	desc := zshEscape.Replace(f.Desc)
	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		action = fmt.Sprintf(":%s:_files -g \"%s\"", f.Long, zshGlob(f.FileGlob))
	case flagDir:
		action = fmt.Sprintf(":%s:_directories", f.Long)
	default:
		action = fmt.Sprintf(":%s:", f.Long)
	}

	if f.Short != "" {
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
	}
	return fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action)
}

// zshGlob turns "*.yaml,*.yml" into "*.(yaml|yml)".
func zshGlob(glob string) string {
	return "*.(" + strings.Join(globExtensions(glob), "|") + ")"
}

func generateFish(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# fish completion for resumecli\n")
	b.WriteString("function __fish_resumecli_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_resumecli_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $argv[1] = $cmd[2]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c resumecli -f\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c resumecli -n '__fish_resumecli_needs_command' -a %s -d '%s'\n",
			c.Name, fishEscape(c.Desc))
	}
	b.WriteString("\n")

	for _, c := range cmds {
		cond := fmt.Sprintf("-n '__fish_resumecli_using_command %s'", c.Name)
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c resumecli %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagString, flagNumber:
				line += " -x"
			}
			line += fmt.Sprintf(" -d '%s'", fishEscape(f.Desc))
			b.WriteString(line + "\n")
		}
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "complete -c resumecli %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		}
		if c.FilePattern != "" {
			fmt.Fprintf(&b, "complete -c resumecli %s -F\n", cond)
		}
	}

	return b.String()
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resumecli completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w, "Supported shells: bash, zsh, fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(resumecli completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(resumecli completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    resumecli completion fish > ~/.config/fish/completions/resumecli.fish")
}
