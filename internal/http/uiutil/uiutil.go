// Package uiutil formats values for the portal's HTML tables.
package uiutil

import (
	"strconv"
	"strings"
	"time"
)

// FriendlyDateTimeLayout is used for absolute timestamps.
const FriendlyDateTimeLayout = "02 Jan 2006 15:04"

// FriendlyRelativeTime describes how long before now t occurred. Times in
// the future read as "just now"; anything older than a week is shown as a date.
func FriendlyRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	default:
		return FormatFriendlyDateTime(t)
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return strconv.Itoa(n) + " " + unit + "s ago"
}

// FormatFriendlyDateTime renders t in local time, or "" for the zero time.
func FormatFriendlyDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(FriendlyDateTimeLayout)
}

// TruncateWithEllipsis shortens text to limit runes, ending in an ellipsis
// when anything was cut.
func TruncateWithEllipsis(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
