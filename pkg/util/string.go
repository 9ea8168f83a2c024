package util

import (
	"strings"
	"time"
)

// TruncateAtWord shortens s to at most max characters, cutting at the
// last word boundary before the limit when one exists.
func TruncateAtWord(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}

	truncated := s[:max]
	if idx := strings.LastIndex(truncated, " "); idx > 0 {
		truncated = truncated[:idx]
	}
	return strings.TrimRight(truncated, " ")
}

// NormalizeHashtags strips leading '#' characters and whitespace, and
// drops empty entries.
func NormalizeHashtags(tags []string) []string {
	var clean []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		tag = strings.TrimPrefix(tag, "#")
		if tag != "" {
			clean = append(clean, tag)
		}
	}
	return clean
}

// CapHashtags limits the hashtag list to at most max entries.
func CapHashtags(tags []string, max int) []string {
	if max < 0 {
		max = 0
	}
	if len(tags) <= max {
		return tags
	}
	return tags[:max]
}

// MondayOf returns midnight of the Monday of t's week, in t's location.
func MondayOf(t time.Time) time.Time {
	// time.Weekday has Sunday=0; shift so Monday=0
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -offset)
}

// NextMonday returns the Monday of the week after t's week.
func NextMonday(t time.Time) time.Time {
	return MondayOf(t).AddDate(0, 0, 7)
}
