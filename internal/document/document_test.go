package document

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestParse - YAML and JSON decode to the same data model
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	t.Parallel()

	want := map[string]any{
		"name":  "Jane",
		"years": json.Number("7"),
		"ratio": json.Number("0.5"),
		"tags":  []any{"go", "sql"},
		"open":  true,
		"note":  nil,
	}

	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{
			name:   "yaml",
			data:   "name: Jane\nyears: 7\nratio: 0.5\ntags: [go, sql]\nopen: true\nnote: null\n",
			format: FormatYAML,
		},
		{
			name:   "json",
			data:   `{"name":"Jane","years":7,"ratio":0.5,"tags":["go","sql"],"open":true,"note":null}`,
			format: FormatJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Parse() = %#v\nwant %#v", got, want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		format  Format
		wantErr error
	}{
		{"empty", "", FormatYAML, ErrEmpty},
		{"whitespace", "  \n\t", FormatJSON, ErrEmpty},
		{"bad yaml", "name: [unclosed", FormatYAML, ErrParse},
		{"bad json", `{"name":`, FormatJSON, ErrParse},
		{"trailing json", `{"a":1} {"b":2}`, FormatJSON, ErrParse},
		{"infinity", "x: .inf\n", FormatYAML, ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data), tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNormalize - Decoder-specific types collapse to the data model
// ---------------------------------------------------------------------------

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"int", 42, json.Number("42")},
		{"negative int64", int64(-3), json.Number("-3")},
		{"uint64", uint64(9), json.Number("9")},
		{"float", 2.25, json.Number("2.25")},
		{"date", time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), "2021-03-01"},
		{"timestamp", time.Date(2021, 3, 1, 8, 30, 0, 0, time.UTC), "2021-03-01T08:30:00Z"},
		{"any keys", map[any]any{1: "one", "two": 2}, map[string]any{"1": "one", "two": json.Number("2")}},
		{"nested", []any{map[string]any{"a": []any{1}}}, []any{map[string]any{"a": []any{json.Number("1")}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Normalize(tt.in)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestNormalize_Unsupported(t *testing.T) {
	t.Parallel()

	for _, in := range []any{math.NaN(), struct{}{}, make(chan int)} {
		if _, err := Normalize(in); !errors.Is(err, ErrUnsupported) {
			t.Errorf("Normalize(%T) error = %v, want ErrUnsupported", in, err)
		}
	}
}

// Normalize builds a fresh tree; the decoder output is left untouched.
func TestNormalize_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := map[string]any{"n": 1, "list": []any{2}}
	if _, err := Normalize(in); err != nil {
		t.Fatal(err)
	}
	if in["n"] != 1 || in["list"].([]any)[0] != 2 {
		t.Errorf("input mutated: %#v", in)
	}
}

// ---------------------------------------------------------------------------
// TestLoad - Reads from disk and picks the decoder by extension
// ---------------------------------------------------------------------------

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "cv.yaml")
	jsonPath := filepath.Join(dir, "cv.JSON")
	if err := os.WriteFile(yamlPath, []byte("name: Jane\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(jsonPath, []byte(`{"name":"Jane"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{yamlPath, jsonPath} {
		doc, err := Load(p)
		if err != nil {
			t.Fatalf("Load(%s) error = %v", p, err)
		}
		if doc.(map[string]any)["name"] != "Jane" {
			t.Errorf("Load(%s) = %#v", p, doc)
		}
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, ErrRead) {
		t.Errorf("Load(missing) error = %v, want ErrRead", err)
	}
}

func TestFormatFor(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"cv.yaml": FormatYAML,
		"cv.yml":  FormatYAML,
		"cv.json": FormatJSON,
		"cv.Json": FormatJSON,
		"cv":      FormatYAML,
	}
	for path, want := range tests {
		if got := FormatFor(path); got != want {
			t.Errorf("FormatFor(%q) = %v, want %v", path, got, want)
		}
	}
}
