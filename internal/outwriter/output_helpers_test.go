package outwriter

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sinteticoai/givemetry/internal/contract"
	"github.com/sinteticoai/givemetry/schema"
)

// readFileString reads a whole file as a string.
func readFileString(path string) (string, error) {
	raw, err := os.ReadFile(path)
	return string(raw), err
}

func TestCreateFormatters(t *testing.T) {
	fmtFloat, intFmt := createFormatters(3)
	assert.Equal(t, "0.125", fmtFloat(0.125))
	assert.Equal(t, "%d", intFmt)

	fmtFloat, _ = createFormatters(1)
	assert.Equal(t, "0.9", fmtFloat(0.88))
}

func TestGetMaxTableNameWidthOverride(t *testing.T) {
	cfg := &contract.Config{Width: 200}
	assert.Equal(t, 40, getMaxTableNameWidth(cfg)) // capped

	cfg = &contract.Config{Width: 60}
	assert.Equal(t, 12, getMaxTableNameWidth(cfg)) // floored

	cfg = &contract.Config{Width: 120, Explain: true}
	assert.Equal(t, 30, getMaxTableNameWidth(cfg))
}

func TestFormatTopRiskFactors(t *testing.T) {
	result := &schema.LapseRiskResult{
		Factors: []schema.ScoreFactor{
			{Name: "recency", Impact: schema.HighImpact},
			{Name: "frequency", Impact: schema.LowImpact},
			{Name: "monetary", Impact: schema.MediumImpact},
			{Name: "contact", Impact: schema.HighImpact},
		},
	}
	assert.Equal(t, "recency > contact > monetary", formatTopRiskFactors(result))
}

func TestFormatTopRiskFactorsNoStrongContributors(t *testing.T) {
	result := &schema.LapseRiskResult{
		Factors: []schema.ScoreFactor{
			{Name: "recency", Impact: schema.LowImpact},
			{Name: "frequency", Impact: schema.LowImpact},
		},
	}
	assert.Equal(t, "No strong contributors", formatTopRiskFactors(result))
}

func TestFormatIssues(t *testing.T) {
	assert.Equal(t, "None", formatIssues(nil))

	issues := []schema.CompletenessIssue{
		{Code: schema.MissingContactIssue, Field: "email"},
		{Code: schema.IncompleteAddressIssue},
	}
	assert.Equal(t, "missing_contact, incomplete_address", formatIssues(issues))
}

func TestRiskLabelRespectsColorSetting(t *testing.T) {
	plain := &contract.Config{UseColors: false}
	assert.Equal(t, "Critical", riskLabel(plain, 0.9))
	assert.Equal(t, "Low", riskLabel(plain, 0.1))

	colored := &contract.Config{UseColors: true}
	assert.Contains(t, riskLabel(colored, 0.9), "Critical")
}

func TestSeverityLabelRespectsColorSetting(t *testing.T) {
	plain := &contract.Config{UseColors: false}
	assert.Equal(t, "High", severityLabel(plain, schema.HighSeverity))
	assert.Equal(t, "Moderate", severityLabel(plain, schema.MediumSeverity))
}
