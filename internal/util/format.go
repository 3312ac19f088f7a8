package util

import (
	"fmt"
	"math"
	"time"
)

// FormatNumber formats an int64 with K/M suffix for readability.
// Examples: 500 -> "500", 1500 -> "1.5K", 1500000 -> "1.5M"
func FormatNumber(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

// FormatYears renders a duration in years with a precision that suits its
// scale: sub-year values keep two decimals, century-scale values none.
// Examples: 0.137 -> "0.14", 38.2 -> "38.2", 412.7 -> "413"
func FormatYears(years float64) string {
	abs := math.Abs(years)
	switch {
	case abs < 1:
		return fmt.Sprintf("%.2f", years)
	case abs < 100:
		return fmt.Sprintf("%.1f", years)
	default:
		return fmt.Sprintf("%.0f", years)
	}
}

// FormatDateISO formats an RFC3339 timestamp string to ISO date format (2006-01-02).
// Returns the original string if parsing fails.
func FormatDateISO(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}

// ParseTimeRFC3339 parses an RFC3339 timestamp string to time.Time.
// Returns zero time if parsing fails.
func ParseTimeRFC3339(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
