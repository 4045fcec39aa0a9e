package contract

import (
	"testing"
	"time"

	"github.com/sinteticoai/givemetry/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainRiskLabel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.9, CriticalValue},
		{0.85, CriticalValue},
		{0.7, HighValue},
		{0.5, ModerateValue},
		{0.4, ModerateValue},
		{0.1, LowValue},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GetPlainRiskLabel(tt.score), "score %.2f", tt.score)
	}
}

func TestGetPlainSeverityLabel(t *testing.T) {
	assert.Equal(t, HighValue, GetPlainSeverityLabel(schema.HighSeverity))
	assert.Equal(t, ModerateValue, GetPlainSeverityLabel(schema.MediumSeverity))
	assert.Equal(t, LowValue, GetPlainSeverityLabel(schema.LowSeverity))
}

func TestGetColorRiskLabelContainsText(t *testing.T) {
	// Colored output must still carry the plain label regardless of
	// whether the terminal supports color.
	assert.Contains(t, GetColorRiskLabel(0.9), CriticalValue)
	assert.Contains(t, GetColorRiskLabel(0.1), LowValue)
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "true", "1", "YES", "True"} {
		got, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.True(t, got, s)
	}
	for _, s := range []string{"no", "false", "0", "NO"} {
		got, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.False(t, got, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestParseRelativeTime(t *testing.T) {
	now := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"2 years ago", now.AddDate(-2, 0, 0)},
		{"3 months ago", now.AddDate(0, -3, 0)},
		{"1 week ago", now.AddDate(0, 0, -7)},
		{"10 days ago", now.AddDate(0, 0, -10)},
		{"1 day ago", now.AddDate(0, 0, -1)},
	}

	for _, tt := range tests {
		got, err := ParseRelativeTime(tt.input, now)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	for _, bad := range []string{"", "yesterday", "2 fortnights ago", "soon"} {
		_, err := ParseRelativeTime(bad, now)
		assert.Error(t, err, bad)
	}
}

func TestParseFlexibleDate(t *testing.T) {
	want := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)

	for _, s := range []string{"2025-03-09", "03/09/2025", " 2025-03-09 "} {
		got, err := ParseFlexibleDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	rfc, err := ParseFlexibleDate("2025-03-09T14:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, want.Add(14*time.Hour+30*time.Minute), rfc)

	for _, bad := range []string{"", "March 9th", "2025/03/09"} {
		_, err := ParseFlexibleDate(bad)
		assert.Error(t, err, bad)
	}
}
