package algo

import (
	"fmt"
	"time"

	"github.com/sinteticoai/givemetry/schema"
)

// Thresholds for the rule-based anomaly scan.
const (
	capacityFloor         = 100_000.0 // below this, capacity mismatch is not interesting
	majorCapacityFloor    = 500_000.0 // capacity that warrants a top-tier portfolio
	capacityGivingShare   = 0.01      // lifetime giving below 1% of capacity is a mismatch
	silenceQuietMonths    = 6         // months with zero contacts to count as silence
	silencePriorContacts  = 3         // contacts in the preceding year that make silence sudden
	givingDeclineFraction = 0.5       // recent-year giving below half of prior year
)

// AnomalyInput bundles everything the detector needs for one constituent.
type AnomalyInput struct {
	Profile       schema.ConstituentProfile
	Gifts         []schema.GiftRecord
	Contacts      []schema.ContactRecord
	ReferenceDate time.Time
}

// DetectAnomalies scans a constituent's gift and contact timeline for
// rule-notable deviations. Zero anomalies is the common, healthy case.
// Every finding carries its explanatory factors and the reference date as
// DetectedAt, so a batch re-run over the same records reproduces the same
// findings.
func DetectAnomalies(in AnomalyInput) []schema.AnomalyResult {
	var findings []schema.AnomalyResult

	if a := detectLapseRisk(in); a != nil {
		findings = append(findings, *a)
	}
	if a := detectCapacityMismatch(in); a != nil {
		findings = append(findings, *a)
	}
	if a := detectSuddenSilence(in); a != nil {
		findings = append(findings, *a)
	}
	if a := detectGivingDrop(in); a != nil {
		findings = append(findings, *a)
	}

	return findings
}

// detectLapseRisk flags constituents whose lapse risk crossed the high
// threshold. The risk result's own factors become the anomaly's factors.
func detectLapseRisk(in AnomalyInput) *schema.AnomalyResult {
	risk := CalculateLapseRisk(in.Gifts, in.Contacts, in.ReferenceDate, nil)
	if risk.Score < schema.HighRiskThreshold {
		return nil
	}

	severity := schema.MediumSeverity
	if risk.Score >= schema.CriticalRiskThreshold {
		severity = schema.HighSeverity
	}

	return &schema.AnomalyResult{
		ConstituentID: in.Profile.ExternalID,
		Type:          schema.LapseRiskAnomaly,
		Severity:      severity,
		Title:         "High lapse risk",
		Description: fmt.Sprintf("Lapse risk score %.2f with predicted lapse window %s",
			risk.Score, risk.PredictedLapseWindow),
		Factors:    risk.Factors,
		DetectedAt: in.ReferenceDate,
	}
}

// detectCapacityMismatch flags wealth screening results that the giving
// history or portfolio tier does not live up to.
func detectCapacityMismatch(in AnomalyInput) *schema.AnomalyResult {
	capacity := in.Profile.EstimatedCapacity
	if capacity < capacityFloor {
		return nil
	}

	var lifetime float64
	for _, g := range in.Gifts {
		if g.Amount > 0 {
			lifetime += g.Amount
		}
	}

	if lifetime < capacity*capacityGivingShare {
		severity := schema.MediumSeverity
		if capacity >= majorCapacityFloor {
			severity = schema.HighSeverity
		}
		return &schema.AnomalyResult{
			ConstituentID: in.Profile.ExternalID,
			Type:          schema.CapacityMismatchAnomaly,
			Severity:      severity,
			Title:         "Giving far below estimated capacity",
			Description: fmt.Sprintf("Estimated capacity $%.0f but lifetime giving only $%.0f",
				capacity, lifetime),
			Factors: []schema.ScoreFactor{
				{Name: "estimated_capacity", Value: fmt.Sprintf("$%.0f", capacity), Impact: schema.HighImpact},
				{Name: "lifetime_giving", Value: fmt.Sprintf("$%.0f", lifetime), Impact: schema.HighImpact},
			},
			DetectedAt: in.ReferenceDate,
		}
	}

	if capacity >= majorCapacityFloor && schema.TierRank(in.Profile.PortfolioTier) < schema.TierRank(schema.MajorTier) {
		return &schema.AnomalyResult{
			ConstituentID: in.Profile.ExternalID,
			Type:          schema.CapacityMismatchAnomaly,
			Severity:      schema.MediumSeverity,
			Title:         "Portfolio tier below estimated capacity",
			Description: fmt.Sprintf("Estimated capacity $%.0f but portfolio tier is %q",
				capacity, string(in.Profile.PortfolioTier)),
			Factors: []schema.ScoreFactor{
				{Name: "estimated_capacity", Value: fmt.Sprintf("$%.0f", capacity), Impact: schema.HighImpact},
				{Name: "portfolio_tier", Value: tierOrUnassigned(in.Profile.PortfolioTier), Impact: schema.MediumImpact},
			},
			DetectedAt: in.ReferenceDate,
		}
	}

	return nil
}

// detectSuddenSilence flags relationships that went quiet: a steady
// contact pattern in the preceding year followed by six months of nothing.
func detectSuddenSilence(in AnomalyInput) *schema.AnomalyResult {
	quietStart := in.ReferenceDate.AddDate(0, -silenceQuietMonths, 0)
	priorStart := quietStart.AddDate(-1, 0, 0)

	var quiet, prior int
	for _, c := range in.Contacts {
		switch {
		case c.Date.After(quietStart) && !c.Date.After(in.ReferenceDate):
			quiet++
		case c.Date.After(priorStart) && !c.Date.After(quietStart):
			prior++
		}
	}

	if quiet > 0 || prior < silencePriorContacts {
		return nil
	}

	return &schema.AnomalyResult{
		ConstituentID: in.Profile.ExternalID,
		Type:          schema.SuddenSilenceAnomaly,
		Severity:      schema.MediumSeverity,
		Title:         "Sudden contact silence",
		Description: fmt.Sprintf("No interactions in the last %d months after %d in the year before",
			silenceQuietMonths, prior),
		Factors: []schema.ScoreFactor{
			{Name: "recent_contacts", Value: "0 in the quiet window", Impact: schema.HighImpact},
			{Name: "prior_contacts", Value: fmt.Sprintf("%d in the preceding year", prior), Impact: schema.MediumImpact},
		},
		DetectedAt: in.ReferenceDate,
	}
}

// detectGivingDrop flags LYBUNT-style giving stops (gifts in each of the
// two prior years, nothing in the last one) and sharp declines in annual
// giving. The two are mutually exclusive: a drop requires zero recent
// giving, a decline requires some.
func detectGivingDrop(in AnomalyInput) *schema.AnomalyResult {
	ref := in.ReferenceDate
	lastYear := sumInWindow(in.Gifts, ref.AddDate(-1, 0, 0), ref)
	priorYear := sumInWindow(in.Gifts, ref.AddDate(-2, 0, 0), ref.AddDate(-1, 0, 0))
	earlierYear := sumInWindow(in.Gifts, ref.AddDate(-3, 0, 0), ref.AddDate(-2, 0, 0))

	if lastYear == 0 && priorYear > 0 && earlierYear > 0 {
		return &schema.AnomalyResult{
			ConstituentID: in.Profile.ExternalID,
			Type:          schema.GivingDropAnomaly,
			Severity:      schema.HighSeverity,
			Title:         "Consistent donor stopped giving",
			Description: fmt.Sprintf("Gave $%.0f and $%.0f in the two prior years but nothing in the last year",
				priorYear, earlierYear),
			Factors: []schema.ScoreFactor{
				{Name: "last_year_giving", Value: "$0", Impact: schema.HighImpact},
				{Name: "prior_year_giving", Value: fmt.Sprintf("$%.0f", priorYear), Impact: schema.MediumImpact},
			},
			DetectedAt: ref,
		}
	}

	if lastYear > 0 && priorYear > 0 && lastYear < priorYear*givingDeclineFraction {
		return &schema.AnomalyResult{
			ConstituentID: in.Profile.ExternalID,
			Type:          schema.GivingDeclineAnomaly,
			Severity:      schema.MediumSeverity,
			Title:         "Annual giving declined sharply",
			Description: fmt.Sprintf("Gave $%.0f in the last year, down from $%.0f the year before",
				lastYear, priorYear),
			Factors: []schema.ScoreFactor{
				{Name: "last_year_giving", Value: fmt.Sprintf("$%.0f", lastYear), Impact: schema.HighImpact},
				{Name: "prior_year_giving", Value: fmt.Sprintf("$%.0f", priorYear), Impact: schema.MediumImpact},
			},
			DetectedAt: ref,
		}
	}

	return nil
}

// tierOrUnassigned renders a portfolio tier for factor text.
func tierOrUnassigned(t schema.PortfolioTier) string {
	if t == "" {
		return "unassigned"
	}
	return string(t)
}
