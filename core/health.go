package core

import (
	"time"

	"github.com/sinteticoai/givemetry/core/algo"
	"github.com/sinteticoai/givemetry/internal/contract"
	"github.com/sinteticoai/givemetry/schema"
)

// freshDays is the recency window for the freshness category: a
// constituent counts as fresh when any gift or contact falls inside it.
const freshDays = 365

// BuildHealthReport computes the organization-wide data quality picture:
// per-constituent completeness and issues, then the four category scores
// combined into an overall score and grade.
func BuildHealthReport(data []schema.ConstituentData, cfg *contract.Config) schema.HealthReport {
	report := schema.HealthReport{
		Constituents: make([]schema.ConstituentHealthItem, 0, len(data)),
	}
	if len(data) == 0 {
		report.Score = algo.CalculateHealthScore(schema.HealthInputs{})
		report.Grade = algo.HealthGrade(report.Score.Overall)
		return report
	}

	cutoff := cfg.ReferenceDate.AddDate(0, 0, -freshDays)

	var completenessSum float64
	var fresh, consistent, covered int
	for _, d := range data {
		completeness := algo.CalculateCompletenessScore(d.Profile)
		issues := algo.AnalyzeCompletenessIssues(d.Profile)

		completenessSum += completeness
		if hasActivitySince(d, cutoff) {
			fresh++
		}
		if len(issues) == 0 {
			consistent++
		}
		if !schema.IsBlank(d.Profile.AssignedOfficerID) {
			covered++
		}

		report.Constituents = append(report.Constituents, schema.ConstituentHealthItem{
			ConstituentID: d.Profile.ExternalID,
			DisplayName:   d.Profile.DisplayName(),
			Completeness:  completeness,
			Issues:        issues,
		})
	}

	n := float64(len(data))
	report.Inputs = schema.HealthInputs{
		Completeness: completenessSum / n,
		Freshness:    float64(fresh) / n,
		Consistency:  float64(consistent) / n,
		Coverage:     float64(covered) / n,
	}

	report.Score = algo.CalculateHealthScore(report.Inputs)
	if cfg.CustomHealthWeights != nil {
		report.Score.Overall = algo.OverallScore(report.Score, cfg.CustomHealthWeights)
	}
	report.Grade = algo.HealthGrade(report.Score.Overall)
	return report
}

// hasActivitySince reports whether the constituent has any gift or contact
// on or after the cutoff.
func hasActivitySince(d schema.ConstituentData, cutoff time.Time) bool {
	for _, g := range d.Gifts {
		if !g.Date.Before(cutoff) {
			return true
		}
	}
	for _, c := range d.Contacts {
		if !c.Date.Before(cutoff) {
			return true
		}
	}
	return false
}
