package algo

import (
	"fmt"

	"github.com/sinteticoai/givemetry/schema"
)

// completenessField is one scored profile field with its fixed weight.
type completenessField struct {
	name     string
	weight   float64
	required bool
	value    func(schema.ConstituentProfile) string
}

// completenessFields is the fixed weighting of profile fields. Weights sum
// to 1.0; the two required fields carry far more weight apiece than any
// optional field.
var completenessFields = []completenessField{
	{"external_id", 0.20, true, func(p schema.ConstituentProfile) string { return p.ExternalID }},
	{"last_name", 0.20, true, func(p schema.ConstituentProfile) string { return p.LastName }},
	{"first_name", 0.10, false, func(p schema.ConstituentProfile) string { return p.FirstName }},
	{"email", 0.13, false, func(p schema.ConstituentProfile) string { return p.Email }},
	{"phone", 0.09, false, func(p schema.ConstituentProfile) string { return p.Phone }},
	{"address_line1", 0.09, false, func(p schema.ConstituentProfile) string { return p.AddressLine1 }},
	{"city", 0.05, false, func(p schema.ConstituentProfile) string { return p.City }},
	{"state", 0.05, false, func(p schema.ConstituentProfile) string { return p.State }},
	{"postal_code", 0.04, false, func(p schema.ConstituentProfile) string { return p.PostalCode }},
	{"constituent_type", 0.05, false, func(p schema.ConstituentProfile) string { return p.ConstituentType }},
}

// CalculateCompletenessScore returns the weighted fill rate of a profile
// in [0,1]. Blank and whitespace-only values count as missing. A profile
// with every scored field populated yields exactly 1.0; one with only the
// required fields yields 0.40.
func CalculateCompletenessScore(profile schema.ConstituentProfile) float64 {
	var score float64
	for _, f := range completenessFields {
		if !schema.IsBlank(f.value(profile)) {
			score += f.weight
		}
	}
	return Clamp01(score)
}

// AnalyzeCompletenessIssues emits typed data quality issues for a profile.
// A fully complete profile yields no issues.
func AnalyzeCompletenessIssues(profile schema.ConstituentProfile) []schema.CompletenessIssue {
	var issues []schema.CompletenessIssue

	for _, f := range completenessFields {
		if f.required && schema.IsBlank(f.value(profile)) {
			issues = append(issues, schema.CompletenessIssue{
				Code:        schema.MissingRequiredIssue,
				Field:       f.name,
				Severity:    schema.HighSeverity,
				Description: fmt.Sprintf("Required field %s is missing", f.name),
			})
		}
	}

	if schema.IsBlank(profile.Email) && schema.IsBlank(profile.Phone) {
		issues = append(issues, schema.CompletenessIssue{
			Code:        schema.MissingContactIssue,
			Severity:    schema.MediumSeverity,
			Description: "No email or phone on record; constituent cannot be reached directly",
		})
	}

	if !schema.IsBlank(profile.AddressLine1) {
		missing := schema.IsBlank(profile.City) || schema.IsBlank(profile.State) || schema.IsBlank(profile.PostalCode)
		if missing {
			issues = append(issues, schema.CompletenessIssue{
				Code:        schema.IncompleteAddressIssue,
				Severity:    schema.LowSeverity,
				Description: "Street address present but city, state or postal code is missing",
			})
		}
	}

	return issues
}

// CalculateHealthScore combines the four category inputs into an overall
// health score using the default weights. Each input is clamped to [0,1]
// BEFORE combination, so out-of-range inputs degrade gracefully instead
// of failing. Overall is never settable independently of the categories.
func CalculateHealthScore(in schema.HealthInputs) schema.HealthScoreResult {
	result := schema.HealthScoreResult{
		Completeness: Clamp01(in.Completeness),
		Freshness:    Clamp01(in.Freshness),
		Consistency:  Clamp01(in.Consistency),
		Coverage:     Clamp01(in.Coverage),
	}
	result.Overall = OverallScore(result, nil)
	return result
}

// OverallScore computes the weighted combination of category scores.
// Custom weights are normalized to sum to 1 before combination; this is a
// deliberate difference from the lapse risk scorer, which uses caller
// weights verbatim. Nil, empty or zero-sum weights fall back to defaults.
func OverallScore(scores schema.HealthScoreResult, customWeights map[schema.HealthKey]float64) float64 {
	weights := schema.DefaultHealthWeights()
	if len(customWeights) > 0 {
		var sum float64
		for _, w := range customWeights {
			sum += w
		}
		if sum > 0 {
			weights = make(map[schema.HealthKey]float64, len(customWeights))
			for k, w := range customWeights {
				weights[k] = w / sum
			}
		}
	}

	categories := map[schema.HealthKey]float64{
		schema.HealthCompleteness: Clamp01(scores.Completeness),
		schema.HealthFreshness:    Clamp01(scores.Freshness),
		schema.HealthConsistency:  Clamp01(scores.Consistency),
		schema.HealthCoverage:     Clamp01(scores.Coverage),
	}

	var overall float64
	for key, w := range weights {
		overall += w * categories[key]
	}
	return Clamp01(overall)
}

// HealthGrade converts a health score to a letter grade. Half-open
// intervals, lower bound inclusive: 0.9 is an A, 0.89 a B.
func HealthGrade(score float64) string {
	switch {
	case score >= 0.9:
		return "A"
	case score >= 0.8:
		return "B"
	case score >= 0.7:
		return "C"
	case score >= 0.6:
		return "D"
	default:
		return "F"
	}
}

// AggregateHealthScores averages each category across results. An empty
// input yields the all-zero result rather than an error.
func AggregateHealthScores(results []schema.HealthScoreResult) schema.HealthScoreResult {
	if len(results) == 0 {
		return schema.HealthScoreResult{}
	}

	var agg schema.HealthScoreResult
	for _, r := range results {
		agg.Overall += r.Overall
		agg.Completeness += r.Completeness
		agg.Freshness += r.Freshness
		agg.Consistency += r.Consistency
		agg.Coverage += r.Coverage
	}

	n := float64(len(results))
	agg.Overall /= n
	agg.Completeness /= n
	agg.Freshness /= n
	agg.Consistency /= n
	agg.Coverage /= n
	return agg
}
