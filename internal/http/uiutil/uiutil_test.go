package uiutil

import (
	"testing"
	"time"
)

func TestFriendlyRelativeTime(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"zero", time.Time{}, ""},
		{"future", now.Add(time.Hour), "just now"},
		{"seconds", now.Add(-30 * time.Second), "just now"},
		{"one minute", now.Add(-time.Minute), "1 minute ago"},
		{"minutes", now.Add(-42 * time.Minute), "42 minutes ago"},
		{"one hour", now.Add(-time.Hour), "1 hour ago"},
		{"hours", now.Add(-5 * time.Hour), "5 hours ago"},
		{"one day", now.Add(-30 * time.Hour), "1 day ago"},
		{"days", now.Add(-6 * 24 * time.Hour), "6 days ago"},
		{"old", now.Add(-30 * 24 * time.Hour), FormatFriendlyDateTime(now.Add(-30 * 24 * time.Hour))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FriendlyRelativeTime(tt.at, now); got != tt.want {
				t.Errorf("FriendlyRelativeTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatFriendlyDateTime(t *testing.T) {
	if FormatFriendlyDateTime(time.Time{}) != "" {
		t.Error("zero time should format as empty")
	}
	at := time.Date(2024, 1, 2, 15, 4, 0, 0, time.Local)
	if got := FormatFriendlyDateTime(at); got != "02 Jan 2024 15:04" {
		t.Errorf("FormatFriendlyDateTime() = %q", got)
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		text  string
		limit int
		want  string
	}{
		{"Conference", 20, "Conference"},
		{"Annual sports meet", 7, "Annual…"},
		{"Café au lait", 5, "Café…"},
		{"abc", 1, "…"},
	}
	for _, tt := range tests {
		if got := TruncateWithEllipsis(tt.text, tt.limit); got != tt.want {
			t.Errorf("TruncateWithEllipsis(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
		}
	}
}
