package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/sinteticoai/givemetry/schema"
)

// Risk label constants.
const (
	CriticalValue = "Critical" // Critical value
	HighValue     = "High"     // High value
	ModerateValue = "Moderate" // Moderate value
	LowValue      = "Low"      // Low value
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // criticalColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // highColor represents strong, distinct warning.
	ModerateColor = color.New(color.FgYellow)              // moderateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)                // lowColor represents informational / low-priority signal.
)

// GetPlainRiskLabel returns a plain text label for a lapse risk score.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainRiskLabel(score float64) string {
	switch {
	case score >= schema.CriticalRiskThreshold:
		return CriticalValue
	case score >= schema.HighRiskThreshold:
		return HighValue
	case score >= schema.MediumRiskThreshold:
		return ModerateValue
	default:
		return LowValue
	}
}

// GetColorRiskLabel returns a colored text label for console output (table).
// It uses GetPlainRiskLabel to determine the string, and then applies the
// appropriate color.
func GetColorRiskLabel(score float64) string {
	return colorizeLabel(GetPlainRiskLabel(score))
}

// GetPlainSeverityLabel returns a plain text label for an alert severity.
func GetPlainSeverityLabel(sev schema.Severity) string {
	switch sev {
	case schema.HighSeverity:
		return HighValue
	case schema.MediumSeverity:
		return ModerateValue
	default:
		return LowValue
	}
}

// GetColorSeverityLabel returns a colored severity label for table output.
func GetColorSeverityLabel(sev schema.Severity) string {
	return colorizeLabel(GetPlainSeverityLabel(sev))
}

func colorizeLabel(text string) string {
	switch text {
	case CriticalValue:
		return CriticalColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// TruncateName shortens a display name for table output, keeping the front.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetAlertsDBFilePath returns the path to the SQLite DB file for alert storage.
func GetAlertsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".givemetry_alerts.db"
	}
	return filepath.Join(homeDir, ".givemetry_alerts.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
