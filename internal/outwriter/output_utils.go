package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/sinteticoai/givemetry/internal/contract"
	"github.com/sinteticoai/givemetry/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// riskLabel picks the colored or plain risk label based on config.
func riskLabel(cfg *contract.Config, score float64) string {
	if cfg.UseColors {
		return contract.GetColorRiskLabel(score)
	}
	return contract.GetPlainRiskLabel(score)
}

// severityLabel picks the colored or plain severity label based on config.
func severityLabel(cfg *contract.Config, sev schema.Severity) string {
	if cfg.UseColors {
		return contract.GetColorSeverityLabel(sev)
	}
	return contract.GetPlainSeverityLabel(sev)
}

// getMaxTableNameWidth calculates the maximum width for display names in
// table output based on terminal width and table configuration.
func getMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for fixed columns with table formatting
	baseWidth := 45 // Rank + ID + Score + Label + Confidence + Window with borders/padding

	// Add explain column
	if cfg.Explain {
		baseWidth += 35 // Explain column with formatting
	}

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 10

	// Calculate available space for the name
	available := termWidth - baseWidth
	if available < 12 {
		// Minimum reasonable name width
		return 12
	}
	if available > 40 {
		// Maximum name width to prevent ragged tables
		return 40
	}
	return available
}

// formatTopRiskFactors summarizes the factors that pushed a score highest,
// strongest impact first.
func formatTopRiskFactors(result *schema.LapseRiskResult) string {
	var high, medium []string
	for _, f := range result.Factors {
		switch f.Impact {
		case schema.HighImpact:
			high = append(high, f.Name)
		case schema.MediumImpact:
			medium = append(medium, f.Name)
		}
	}

	parts := append(high, medium...)
	if len(parts) == 0 {
		return "No strong contributors"
	}
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, " > ")
}

// formatIssues renders the issue codes of a profile for table output.
func formatIssues(issues []schema.CompletenessIssue) string {
	if len(issues) == 0 {
		return "None"
	}
	codes := make([]string, len(issues))
	for i, issue := range issues {
		codes[i] = string(issue.Code)
	}
	return strings.Join(codes, ", ")
}
