package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinteticoai/givemetry/internal/contract"
	"github.com/sinteticoai/givemetry/schema"
)

func healthTestConfig() *contract.Config {
	return &contract.Config{
		ReferenceDate: time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
	}
}

// healthTestData has one pristine constituent and one bare-bones one, so
// every share-based category input lands at exactly 0.5.
func healthTestData(ref time.Time) []schema.ConstituentData {
	return []schema.ConstituentData{
		{
			Profile: schema.ConstituentProfile{
				ExternalID:        "LU-00001",
				FirstName:         "Dana",
				LastName:          "Whitfield",
				Email:             "dana.whitfield@example.edu",
				Phone:             "555-0142",
				AddressLine1:      "18 Chapel Hill Rd",
				City:              "Lakewood",
				State:             "OH",
				PostalCode:        "44107",
				ConstituentType:   "alumni",
				AssignedOfficerID: "MGO-A",
			},
			Gifts: []schema.GiftRecord{{Amount: 250, Date: ref.AddDate(0, -3, 0)}},
		},
		{
			Profile: schema.ConstituentProfile{
				ExternalID: "LU-00002",
				LastName:   "Okafor",
			},
		},
	}
}

func TestBuildHealthReportInputs(t *testing.T) {
	cfg := healthTestConfig()
	report := BuildHealthReport(healthTestData(cfg.ReferenceDate), cfg)

	require.Len(t, report.Constituents, 2)
	assert.InDelta(t, 1.0, report.Constituents[0].Completeness, 1e-9)
	assert.Empty(t, report.Constituents[0].Issues)
	assert.InDelta(t, 0.40, report.Constituents[1].Completeness, 1e-9)
	require.Len(t, report.Constituents[1].Issues, 1)
	assert.Equal(t, schema.MissingContactIssue, report.Constituents[1].Issues[0].Code)

	assert.InDelta(t, 0.70, report.Inputs.Completeness, 1e-9)
	assert.InDelta(t, 0.50, report.Inputs.Freshness, 1e-9)
	assert.InDelta(t, 0.50, report.Inputs.Consistency, 1e-9)
	assert.InDelta(t, 0.50, report.Inputs.Coverage, 1e-9)

	// 0.3*0.7 + 0.25*0.5 + 0.25*0.5 + 0.2*0.5
	assert.InDelta(t, 0.56, report.Score.Overall, 1e-9)
	assert.Equal(t, "F", report.Grade)
}

func TestBuildHealthReportFreshnessWindow(t *testing.T) {
	cfg := healthTestConfig()
	data := healthTestData(cfg.ReferenceDate)

	// A contact just inside the window counts; a gift just outside does not.
	data[1].Contacts = []schema.ContactRecord{
		{Date: cfg.ReferenceDate.AddDate(0, 0, -freshDays), Type: schema.CallContact},
	}
	data[0].Gifts = []schema.GiftRecord{
		{Amount: 250, Date: cfg.ReferenceDate.AddDate(0, 0, -freshDays-1)},
	}

	report := BuildHealthReport(data, cfg)
	assert.InDelta(t, 0.50, report.Inputs.Freshness, 1e-9)
}

func TestBuildHealthReportCustomWeights(t *testing.T) {
	cfg := healthTestConfig()
	cfg.CustomHealthWeights = map[schema.HealthKey]float64{
		schema.HealthCompleteness: 5, // normalized to 1.0
	}

	report := BuildHealthReport(healthTestData(cfg.ReferenceDate), cfg)
	assert.InDelta(t, 0.70, report.Score.Overall, 1e-9)
	assert.Equal(t, "C", report.Grade)

	// Category scores are untouched; only Overall is recombined.
	assert.InDelta(t, 0.50, report.Score.Freshness, 1e-9)
}

func TestBuildHealthReportEmptyData(t *testing.T) {
	report := BuildHealthReport(nil, healthTestConfig())

	assert.Empty(t, report.Constituents)
	assert.Zero(t, report.Score.Overall)
	assert.Equal(t, "F", report.Grade)
}
