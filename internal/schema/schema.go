// Package schema validates résumé documents against a JSON Schema.
package schema

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// MessagePrefix starts every validation failure message.
const MessagePrefix = "Failed to validate resume data"

// schemaURL names the resource inside the compiler; it never hits the network.
const schemaURL = "resumecli://cv.schema.json"

// Sentinel errors for schema operations.
var (
	ErrCompile         = errors.New("cannot compile schema")
	ErrInvalidInstance = errors.New("document holds values outside the JSON data model")
)

// Violation is one failed constraint.
type Violation struct {
	Path    string // JSON pointer into the document, "/" for the root
	Message string // what was expected
}

// String renders "path: message".
func (v Violation) String() string {
	return v.Path + ": " + v.Message
}

// ValidationError reports a document that does not match the schema.
type ValidationError struct {
	Violations []Violation
}

// Error joins the violations after MessagePrefix.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return MessagePrefix + ": " + strings.Join(parts, "; ")
}

// Validator checks documents against one compiled schema. Safe for
// concurrent use.
type Validator struct {
	schema *jsonschema.Schema
	source []byte
}

var (
	cacheMu sync.Mutex
	cache   = map[string]*Validator{}
)

// Load compiles data, or returns the Validator already compiled for the
// same bytes in this process.
func Load(data []byte) (*Validator, error) {
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if v, ok := cache[key]; ok {
		return v, nil
	}
	v, err := compile(data)
	if err != nil {
		return nil, err
	}
	cache[key] = v
	return v, nil
}

func compile(data []byte) (*Validator, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompile, err)
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompile, err)
	}
	return &Validator{schema: s, source: bytes.Clone(data)}, nil
}

// Validate returns nil when doc matches, a *ValidationError listing every
// failed leaf constraint when it does not. doc is never modified.
func (v *Validator) Validate(doc any) error {
	err := v.schema.Validate(doc)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("%w: %v", ErrInvalidInstance, err)
	}
	return &ValidationError{Violations: flatten(verr)}
}

// Source returns the schema text the validator was compiled from.
func (v *Validator) Source() []byte {
	return v.source
}

// flatten keeps the leaves of the cause tree; inner nodes only say
// "doesn't validate with ...".
func flatten(root *jsonschema.ValidationError) []Violation {
	var out []Violation
	seen := map[Violation]bool{}

	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			path := e.InstanceLocation
			if path == "" {
				path = "/"
			}
			v := Violation{Path: path, Message: e.Message}
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(root)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Message < out[j].Message
	})
	return out
}
