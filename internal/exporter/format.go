package exporter

import (
	"strconv"
	"time"
)

// TimeLayout is how timestamps are written to CSV cells
const TimeLayout = "2006-01-02 15:04:05"

// formatFloat formats a float64 with the fewest digits that round-trip
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatTime formats a timestamp in UTC, or "" for the zero time
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

// deref returns *s or "" for nil
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
