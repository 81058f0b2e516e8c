package utils

import (
	"fmt"
	"time"
)

// Today returns the current calendar date as YYYY-MM-DD.
func Today() string {
	return time.Now().Format("2006-01-02")
}

func ParseISOTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, fmt.Errorf("empty time string")
	}

	// Try standard RFC3339 format (ISO 8601)
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return &t, nil
	}

	// Try with nanoseconds (e.g. 2025-10-13T09:30:00.123Z)
	t, err = time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return &t, nil
	}

	// Try fallback common formats
	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if tt, e := time.ParseInLocation(layout, s, time.UTC); e == nil {
			return &tt, nil
		}
	}

	return nil, fmt.Errorf("failed to parse time: %v", s)
}

// FormatClock renders a stored event timestamp as a 12-hour clock string
// for the spreadsheet mirror, e.g. "5:04:05 PM". Unparseable or missing
// values render as "".
func FormatClock(s *string) string {
	if s == nil {
		return ""
	}
	t, err := ParseISOTime(*s)
	if err != nil {
		return ""
	}
	return t.Format("3:04:05 PM")
}

// TimeAgo renders a coarse relative timestamp for activity feeds.
func TimeAgo(t, now time.Time) string {
	minutes := int(now.Sub(t).Minutes())
	if minutes < 1 {
		return "Just now"
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min ago", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := hours / 24
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
