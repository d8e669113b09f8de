package dateutil

import (
	"strings"
	"time"
)

// Résumé dates come in three precisions.
var resumeDateLayouts = []struct {
	layout   string
	yearOnly bool
}{
	{"2006-01-02", false},
	{"2006-01", false},
	{"2006", true},
}

// FormatResumeDate renders a résumé date ("2021", "2021-03" or
// "2021-03-14") with the Go layout produced by ParseDateFormat. Year-only
// dates print the year alone since the month is unknown. Values that are not
// dates ("Present", "Summer 2020") are returned trimmed but otherwise as is.
func FormatResumeDate(value, layout string) string {
	value = strings.TrimSpace(value)
	if value == "" || layout == "" {
		return value
	}

	for _, candidate := range resumeDateLayouts {
		t, err := time.Parse(candidate.layout, value)
		if err != nil {
			continue
		}
		if candidate.yearOnly {
			return t.Format("2006")
		}
		return t.Format(layout)
	}
	return value
}
