// Package document loads résumé sources into the JSON data model.
//
// YAML and JSON files decode to the same tree shape: map[string]any,
// []any, string, bool, nil and json.Number. The schema validator and the
// templates only ever see that shape.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-resumecli/internal/yamlutil"
)

// Document is a parsed résumé tree.
type Document = any

// Sentinel errors for loading.
var (
	ErrRead        = errors.New("cannot read source")
	ErrParse       = errors.New("cannot parse source")
	ErrEmpty       = errors.New("source is empty")
	ErrUnsupported = errors.New("unsupported source value")
)

// Format selects the decoder.
type Format int

// Source formats.
const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatFor picks a decoder from the file extension. Anything that is not
// .json is read as YAML, which is a superset of JSON anyway.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads and parses the file at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-selected résumé source
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	return Parse(data, FormatFor(path))
}

// Parse decodes data and normalizes the result.
func Parse(data []byte, format Format) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	var raw any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		if _, err := dec.Token(); err != io.EOF {
			return nil, fmt.Errorf("%w: trailing data after JSON value", ErrParse)
		}
	default:
		if err := yamlutil.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
	}

	return Normalize(raw)
}

// Normalize converts decoder output into the JSON data model: mapping keys
// become strings, numbers become json.Number and timestamps become strings.
func Normalize(v any) (Document, error) {
	switch t := v.(type) {
	case nil, string, bool, json.Number:
		return t, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			n, err := Normalize(child)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			n, err := Normalize(child)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(k)] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			n, err := Normalize(child)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case int:
		return json.Number(strconv.FormatInt(int64(t), 10)), nil
	case int8:
		return json.Number(strconv.FormatInt(int64(t), 10)), nil
	case int16:
		return json.Number(strconv.FormatInt(int64(t), 10)), nil
	case int32:
		return json.Number(strconv.FormatInt(int64(t), 10)), nil
	case int64:
		return json.Number(strconv.FormatInt(t, 10)), nil
	case uint:
		return json.Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint8:
		return json.Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint16:
		return json.Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint32:
		return json.Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint64:
		return json.Number(strconv.FormatUint(t, 10)), nil
	case float32:
		return floatNumber(float64(t))
	case float64:
		return floatNumber(t)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(time.DateOnly), nil
		}
		return t.Format(time.RFC3339), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
	}
}

// floatNumber rejects .inf and .nan, which JSON cannot represent.
func floatNumber(f float64) (Document, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, f)
	}
	return json.Number(strconv.FormatFloat(f, 'f', -1, 64)), nil
}
