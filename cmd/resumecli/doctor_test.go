package main

// Notes:
// - runDoctor depends on the host (Chrome, container markers). We assert
//   report structure and status consistency rather than specific findings.

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunDoctorCmd - JSON and text reports
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSON(t *testing.T) {
	t.Parallel()

	env, stdout, _ := newTestEnv()
	code := runDoctorCmd([]string{"--json"}, env)

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("doctor --json output is not JSON: %v\n%s", err, stdout.String())
	}

	switch result.Status {
	case statusReady, statusWarnings:
		if code != ExitSuccess {
			t.Errorf("status %q exit = %d, want %d", result.Status, code, ExitSuccess)
		}
	case statusErrors:
		if code != ExitGeneral {
			t.Errorf("status errors exit = %d, want %d", code, ExitGeneral)
		}
	default:
		t.Errorf("unexpected status %q", result.Status)
	}
	if result.Env.OS == "" || result.Env.Arch == "" {
		t.Errorf("platform missing: %+v", result.Env)
	}
}

func TestRunDoctorCmd_Flags(t *testing.T) {
	t.Parallel()

	env, stdout, _ := newTestEnv()
	if code := runDoctorCmd([]string{"--help"}, env); code != ExitSuccess {
		t.Errorf("--help exit = %d", code)
	}
	if !strings.Contains(stdout.String(), "--json") {
		t.Errorf("help output = %q", stdout.String())
	}

	env, _, _ = newTestEnv()
	if code := runDoctorCmd([]string{"--yaml"}, env); code != ExitUsage {
		t.Errorf("bad flag exit = %d, want %d", code, ExitUsage)
	}
}

// ---------------------------------------------------------------------------
// TestPrintDoctorResult - Human-readable output
// ---------------------------------------------------------------------------

func TestPrintDoctorResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *doctorResult
		want   []string
	}{
		{
			name: "ready",
			result: &doctorResult{
				Status: statusReady,
				Chrome: chromeInfo{Found: true, Path: "/usr/bin/chromium", Version: "Chromium 130", Sandbox: true},
				Env:    envInfo{OS: "linux", Arch: "amd64"},
				System: systemInfo{TempWritable: true},
			},
			want: []string{"[OK] Found at /usr/bin/chromium", "Sandbox: enabled", "Status: Ready to render"},
		},
		{
			name: "warnings",
			result: &doctorResult{
				Status:   statusWarnings,
				Env:      envInfo{OS: "linux", Arch: "arm64", Container: true, ContainerHint: "/.dockerenv", Source: "/cv/cv.yaml"},
				System:   systemInfo{TempWritable: true},
				Warnings: []string{"Container/CI detected but ROD_NO_SANDBOX not set"},
			},
			want: []string{"[WARN] Not installed", "Container: detected (/.dockerenv)", "RESUME_SOURCE_FILE: /cv/cv.yaml", "Ready with warnings"},
		},
		{
			name: "errors",
			result: &doctorResult{
				Status: statusErrors,
				Env:    envInfo{OS: "linux", Arch: "amd64"},
				Errors: []string{"Temp directory not writable: /tmp"},
			},
			want: []string{"[ERROR] Temp directory: not writable", "Not ready"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			printDoctorResult(&buf, tt.result)
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCheckSource - RESUME_SOURCE_FILE diagnostics
// ---------------------------------------------------------------------------

func TestCheckSource(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"cv.yaml": validResumeYAML})

	tests := []struct {
		name         string
		source       string
		wantWarnings int
	}{
		{"unset", "", 0},
		{"file", dir + "/cv.yaml", 0},
		{"directory", dir, 1},
		{"missing", dir + "/none.yaml", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := &doctorResult{Env: envInfo{Source: tt.source}}
			checkSource(result)
			if len(result.Warnings) != tt.wantWarnings {
				t.Errorf("warnings = %v, want %d", result.Warnings, tt.wantWarnings)
			}
		})
	}
}
