// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/matchday-dashboard/pkg/constants"
)

const (
	// DateLayout is the format fixture dates are presented and selected with.
	DateLayout = constants.DateLayout

	// SourceDateLayout is the day-first format fixture lists are written in.
	SourceDateLayout = constants.SourceDateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseFixtureDate accepts either the day-first source layout (27-03-2025) or
// the presentation layout (2025-03-27).
func ParseFixtureDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range []string{SourceDateLayout, DateLayout} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q, expected %s or %s", value, SourceDateLayout, DateLayout)
}

// FormatDate renders a date in the presentation layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
