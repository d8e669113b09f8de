package assets

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestEmbeddedLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name        string
		tmpl        string
		wantErr     error
		wantContain string
	}{
		{"minimal blue", "minimal_blue", nil, "{{.name}}"},
		{"error page", ErrorTemplateName, nil, "{{.Message}}"},
		{"viewer shell", ViewerTemplateName, nil, "WebSocket"},
		{"missing", "nonexistent", ErrTemplateNotFound, ""},
		{"traversal", "../secret", ErrInvalidAssetName, ""},
		{"dotted", "minimal_blue.html", ErrInvalidAssetName, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadTemplate(tt.tmpl)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadTemplate(%q) error = %v, want %v", tt.tmpl, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadTemplate(%q) error = %v", tt.tmpl, err)
			}
			if !strings.Contains(got, tt.wantContain) {
				t.Errorf("LoadTemplate(%q) missing %q", tt.tmpl, tt.wantContain)
			}
		})
	}
}

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	got, err := loader.LoadStyle("minimal_green")
	if err != nil {
		t.Fatalf("LoadStyle() error = %v", err)
	}
	if !strings.Contains(got, "--accent") {
		t.Error("minimal_green style missing accent variable")
	}

	if _, err := loader.LoadStyle("nonexistent"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(nonexistent) error = %v, want ErrStyleNotFound", err)
	}
}

func TestEmbeddedLoader_LoadSchema(t *testing.T) {
	t.Parallel()

	data, err := NewEmbeddedLoader().LoadSchema(SchemaName)
	if err != nil {
		t.Fatalf("LoadSchema() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("embedded schema is not valid JSON: %v", err)
	}
	if doc["type"] != "object" {
		t.Errorf("schema type = %v, want object", doc["type"])
	}

	if _, err := NewEmbeddedLoader().LoadSchema("missing"); !errors.Is(err, ErrSchemaNotFound) {
		t.Errorf("LoadSchema(missing) error = %v, want ErrSchemaNotFound", err)
	}
}

func TestEmbeddedLoader_LoadSample(t *testing.T) {
	t.Parallel()

	data, err := NewEmbeddedLoader().LoadSample(SampleName)
	if err != nil {
		t.Fatalf("LoadSample() error = %v", err)
	}

	first, _, _ := strings.Cut(string(data), "\n")
	if !strings.Contains(first, "$schema=./cv.schema.json") {
		t.Errorf("sample first line = %q, want schema modeline", first)
	}

	if _, err := NewEmbeddedLoader().LoadSample("missing"); !errors.Is(err, ErrSampleNotFound) {
		t.Errorf("LoadSample(missing) error = %v, want ErrSampleNotFound", err)
	}
}
