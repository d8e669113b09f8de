package main

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunHelp - Per-command help
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantCode int
		want     string
	}{
		{"general", nil, ExitSuccess, "Commands:"},
		{"preview", []string{"preview"}, ExitSuccess, "--ping-interval"},
		{"build", []string{"build"}, ExitSuccess, "--workers"},
		{"new", []string{"new"}, ExitSuccess, "--force"},
		{"doctor", []string{"doctor"}, ExitSuccess, "--json"},
		{"completion", []string{"completion"}, ExitSuccess, "bash, zsh, fish"},
		{"version", []string{"version"}, ExitSuccess, "Usage: resumecli version"},
		{"help", []string{"help"}, ExitSuccess, "Usage: resumecli help"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, _ := newTestEnv()
			if code := runHelp(tt.args, env); code != tt.wantCode {
				t.Errorf("runHelp(%v) = %d, want %d", tt.args, code, tt.wantCode)
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, stdout.String())
			}
		})
	}
}

func TestRunHelp_UnknownCommand(t *testing.T) {
	t.Parallel()

	env, _, stderr := newTestEnv()
	if code := runHelp([]string{"convert"}, env); code != ExitUsage {
		t.Errorf("runHelp(convert) = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "unknown command: convert") {
		t.Errorf("stderr = %q", stderr.String())
	}
}
