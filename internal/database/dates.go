package database

import (
	"fmt"
	"regexp"
	"time"
)

// TimestampLayout is how created_at/updated_at are stored (SQLite datetime()).
const TimestampLayout = "2006-01-02 15:04:05"

const dayLayout = "2006-01-02"

var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DayRange converts a YYYY-MM-DD string into [start, end) created_at bounds.
// Anything that is not a real calendar day in that exact form is rejected.
func DayRange(day string) (from, to string, err error) {
	if !dayPattern.MatchString(day) {
		return "", "", fmt.Errorf("malformed date %q", day)
	}
	d, err := time.Parse(dayLayout, day)
	if err != nil {
		return "", "", fmt.Errorf("malformed date %q: %w", day, err)
	}
	return d.Format(dayLayout), d.AddDate(0, 0, 1).Format(dayLayout), nil
}

// MonthRange converts a YYYY-MM string into [start, end) created_at bounds.
func MonthRange(month string) (from, to string, err error) {
	m, err := time.Parse("2006-01", month)
	if err != nil {
		return "", "", fmt.Errorf("malformed month %q: %w", month, err)
	}
	return m.Format(dayLayout), m.AddDate(0, 1, 0).Format(dayLayout), nil
}

// ParseTimestamp parses a stored timestamp. It accepts the SQLite datetime
// form and RFC 3339, which is what out-of-band writers tend to use.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano, time.RFC3339, dayLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDay renders a stored timestamp as a Japanese date ("2024年3月1日").
// Unparseable input is returned as-is.
func FormatDay(s string) string {
	t, ok := ParseTimestamp(s)
	if !ok {
		return s
	}
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

// Now returns the current UTC time in TimestampLayout.
func Now() string {
	return time.Now().UTC().Format(TimestampLayout)
}
