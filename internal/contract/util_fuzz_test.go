package contract

import (
	"testing"
	"time"
)

// FuzzParseRelativeTime fuzzes the relative time parser with arbitrary input.
func FuzzParseRelativeTime(f *testing.F) {
	seeds := []string{
		"2 years ago",
		"3 months ago",
		"1 week ago",
		"10 days ago",
		"",
		"not a time",
		"999999 days ago",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	now := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	f.Fuzz(func(t *testing.T, s string) {
		got, err := ParseRelativeTime(s, now)
		if err == nil && got.After(now) {
			t.Fatalf("relative time %q resolved to the future: %v", s, got)
		}
	})
}

// FuzzParseFlexibleDate fuzzes the date parser with arbitrary input.
func FuzzParseFlexibleDate(f *testing.F) {
	seeds := []string{
		"2025-03-09",
		"03/09/2025",
		"2025-03-09T14:30:00Z",
		"",
		"garbage",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		got, err := ParseFlexibleDate(s)
		if err == nil && got.IsZero() {
			t.Fatalf("parse of %q succeeded with a zero time", s)
		}
	})
}
