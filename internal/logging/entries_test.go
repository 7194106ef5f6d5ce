package logging

import (
	"strings"
	"testing"
	"time"
)

func TestLogEntry_String(t *testing.T) {
	entry := LogEntry{
		Timestamp: time.Date(2026, 3, 1, 9, 30, 5, 0, time.UTC),
		Level:     "INFO",
		Scope:     "canvas",
		Message:   "panel closed",
		Fields:    map[string]any{"panel": "p1"},
	}

	got := entry.String()
	for _, want := range []string{"09:30:05", "INFO", "[canvas]", "panel closed", "panel=p1"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"trace", "INFO"},
		{"", "INFO"},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
