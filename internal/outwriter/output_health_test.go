package outwriter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinteticoai/givemetry/internal/contract"
	"github.com/sinteticoai/givemetry/schema"
)

func healthTestReport() schema.HealthReport {
	return schema.HealthReport{
		Constituents: []schema.ConstituentHealthItem{
			{
				ConstituentID: "LU-00001",
				DisplayName:   "Dana Whitfield",
				Completeness:  1.0,
			},
			{
				ConstituentID: "LU-00002",
				DisplayName:   "Miriam Okafor",
				Completeness:  0.87,
				Issues: []schema.CompletenessIssue{
					{Code: schema.MissingContactIssue, Field: "email", Severity: schema.MediumSeverity, Description: "No email or phone on file"},
				},
			},
		},
		Inputs: schema.HealthInputs{Completeness: 0.93, Freshness: 0.5, Consistency: 0.5, Coverage: 1.0},
		Score:  schema.HealthScoreResult{Overall: 0.734, Completeness: 0.93, Freshness: 0.5, Consistency: 0.5, Coverage: 1.0},
		Grade:  "C",
	}
}

func TestWriteHealthTable(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	cfg := &contract.Config{Precision: 2, Width: 120}

	var buf bytes.Buffer
	err := writeHealthTable(healthTestReport(), cfg, fmtFloat, 42*time.Millisecond, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "LU-00002")
	assert.Contains(t, out, "missing_contact")
	assert.NotContains(t, out, "LU-00001") // clean profiles are summarized, not listed
	assert.Contains(t, out, "1 of 2 constituents have data quality findings (1 clean)")
	assert.Contains(t, out, "Overall health: 0.73 (grade C)")
	assert.Contains(t, out, "Coverage 1.00")
}

func TestWriteHealthCSVResults(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	cfg := &contract.Config{Precision: 2}
	tmp := t.TempDir() + "/health.csv"
	cfg.OutputFile = tmp

	require.NoError(t, writeHealthCSVResults(healthTestReport(), cfg, fmtFloat))

	raw, err := readFileString(tmp)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	require.Len(t, lines, 3) // header + every constituent, clean ones included
	assert.Contains(t, lines[0], "completeness")
	assert.Contains(t, lines[1], "LU-00001")
	assert.Contains(t, lines[1], "None")
	assert.Contains(t, lines[2], "0.87")
}

func TestWriteHealthReportRejectsParquet(t *testing.T) {
	cfg := &contract.Config{Output: schema.ParquetOut}
	err := WriteHealthReport(healthTestReport(), cfg, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}
