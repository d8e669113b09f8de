// Package dateutil converts user-facing date tokens to Go layouts.
// Résumé templates format entry dates with it, and the PDF footer resolves
// "auto" dates through it.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

const (
	// DefaultDateFormat is used for footer "auto" dates.
	DefaultDateFormat = "YYYY-MM-DD"

	// DefaultResumeFormat renders résumé entry dates such as "Mar 2021".
	DefaultResumeFormat = "MMM YYYY"
)

// Longest tokens first so "MMMM" wins over "MM".
var dateTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"short":    "MMM YYYY",
	"month":    "MMMM YYYY",
	"numeric":  "MM/YYYY",
}

// ParseDateFormat converts a token format (YYYY, YY, MMMM, MMM, MM, M, DD,
// D) into a Go layout. Text inside brackets is copied literally, as is any
// character that is not part of a token. Preset names are accepted.
func ParseDateFormat(format string) (string, error) {
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}

	switch {
	case format == "":
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	case len(format) > MaxDateFormatLength:
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	b.Grow(len(format) + 8)

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			b.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		n := writeToken(&b, format[i:])
		if n == 0 {
			b.WriteByte(format[i])
			n = 1
		}
		i += n
	}

	return b.String(), nil
}

// writeToken writes the layout for the token at the start of s and returns
// how many bytes it consumed, or 0 when s does not start with a token.
func writeToken(b *strings.Builder, s string) int {
	for _, t := range dateTokens {
		if strings.HasPrefix(s, t.token) {
			b.WriteString(t.layout)
			return len(t.token)
		}
	}
	return 0
}

// ResolveDate expands "auto" and "auto:FORMAT" to the date of t.
// "auto" uses DefaultDateFormat; FORMAT may be a token format or a preset
// name. Any other value is returned unchanged.
func ResolveDate(value string, t time.Time) (string, error) {
	lower := strings.ToLower(value)

	switch {
	case !strings.HasPrefix(lower, "auto"):
		return value, nil
	case lower == "auto":
		value = "auto:" + DefaultDateFormat
	case !strings.HasPrefix(lower, "auto:"):
		return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	}

	format := value[len("auto:"):]
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
	}

	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
