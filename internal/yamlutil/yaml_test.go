package yamlutil_test

// Notes:
// - Marshal failure is not exercised: goccy only fails on channels and funcs,
//   which never reach the scaffold or config writers.

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-resumecli/internal/yamlutil"
)

type contact struct {
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
}

type entry struct {
	Name    string   `yaml:"name"`
	Contact contact  `yaml:"contact"`
	Skills  []string `yaml:"skills"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Lenient decoding of résumé-shaped YAML
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		wantSub string
		check   func(t *testing.T, v any)
	}{
		{
			name: "nested mapping and sequence",
			data: []byte("name: Jane Doe\ncontact:\n  email: jane@example.com\nskills:\n  - Go\n  - SQL\n"),
			dest: &entry{},
			check: func(t *testing.T, v any) {
				e := v.(*entry)
				if e.Name != "Jane Doe" {
					t.Errorf("Name = %q, want %q", e.Name, "Jane Doe")
				}
				if e.Contact.Email != "jane@example.com" {
					t.Errorf("Email = %q", e.Contact.Email)
				}
				if len(e.Skills) != 2 || e.Skills[1] != "SQL" {
					t.Errorf("Skills = %v, want [Go SQL]", e.Skills)
				}
			},
		},
		{
			name: "unknown fields tolerated",
			data: []byte("name: Jane\nhobbies: chess\n"),
			dest: &entry{},
			check: func(t *testing.T, v any) {
				if v.(*entry).Name != "Jane" {
					t.Errorf("Name = %q, want Jane", v.(*entry).Name)
				}
			},
		},
		{
			name: "generic tree",
			data: []byte("name: Jane\n"),
			dest: new(any),
			check: func(t *testing.T, v any) {
				m, ok := (*v.(*any)).(map[string]any)
				if !ok {
					t.Fatalf("decoded %T, want map[string]any", *v.(*any))
				}
				if m["name"] != "Jane" {
					t.Errorf("name = %v, want Jane", m["name"])
				}
			},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &entry{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("name: x"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "syntax error carries prefix",
			data:    []byte("name: [unclosed"),
			dest:    &entry{},
			wantSub: "yamlutil:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			case tt.wantSub != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantSub)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, tt.dest)
		})
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Config decoding rejects unknown keys
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	t.Run("known fields", func(t *testing.T) {
		t.Parallel()

		var e entry
		if err := yamlutil.UnmarshalStrict([]byte("name: Jane\n"), &e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e.Name != "Jane" {
			t.Errorf("Name = %q, want Jane", e.Name)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()

		var e entry
		err := yamlutil.UnmarshalStrict([]byte("name: Jane\nnickname: JD\n"), &e)
		if err == nil {
			t.Fatal("expected error for unknown field")
		}
		if !strings.HasPrefix(err.Error(), "yamlutil:") {
			t.Errorf("error = %q, want yamlutil prefix", err)
		}
	})

	t.Run("empty data", func(t *testing.T) {
		t.Parallel()

		if err := yamlutil.UnmarshalStrict([]byte{}, &entry{}); !errors.Is(err, yamlutil.ErrNilData) {
			t.Errorf("error = %v, want ErrNilData", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestMarshal - Block-style output for the scaffold sample
// ---------------------------------------------------------------------------

func TestMarshal(t *testing.T) {
	t.Parallel()

	data, err := yamlutil.Marshal(entry{Name: "Jane", Skills: []string{"Go"}})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	out := string(data)
	for _, want := range []string{"name: Jane", "skills:", "- Go"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// ---------------------------------------------------------------------------
// TestDescribe - Parser errors collapse to one line
// ---------------------------------------------------------------------------

func TestDescribe(t *testing.T) {
	t.Parallel()

	if got := yamlutil.Describe(nil); got != "" {
		t.Errorf("Describe(nil) = %q, want empty", got)
	}

	plain := errors.New("boom")
	if got := yamlutil.Describe(plain); got != "boom" {
		t.Errorf("Describe(plain) = %q, want boom", got)
	}
}

// ---------------------------------------------------------------------------
// TestInputSizeLimit - MaxInputSize enforcement
// ---------------------------------------------------------------------------

// Mutates the package-level limit, so it stays sequential.
func TestInputSizeLimit(t *testing.T) {
	original := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = original })

	yamlutil.MaxInputSize = 32

	data := []byte(strings.Repeat("a", 33))
	err := yamlutil.Unmarshal(data, new(any))
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Fatalf("error = %v, want ErrInputTooLarge", err)
	}
	if !strings.Contains(err.Error(), "33 bytes (max 32)") {
		t.Errorf("error = %q, want sizes in message", err)
	}

	if err := yamlutil.UnmarshalStrict(data, &entry{}); !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("UnmarshalStrict error = %v, want ErrInputTooLarge", err)
	}
}
