package algo

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sinteticoai/givemetry/schema"
)

// GenerateAlertsForConstituent maps anomalies 1:1 to alert records. The
// constituent's display name is prefixed to the description when it is not
// already mentioned, so an alert reads well outside the record's context.
func GenerateAlertsForConstituent(profile schema.ConstituentProfile, anomalies []schema.AnomalyResult) []schema.GeneratedAlert {
	name := profile.DisplayName()
	alerts := make([]schema.GeneratedAlert, 0, len(anomalies))

	for _, a := range anomalies {
		desc := a.Description
		if name != "" && !strings.Contains(desc, name) {
			desc = name + ": " + desc
		}
		alerts = append(alerts, schema.GeneratedAlert{
			ID:            uuid.NewString(),
			ConstituentID: a.ConstituentID,
			AlertType:     a.Type,
			Severity:      a.Severity,
			Title:         a.Title,
			Description:   desc,
			DetectedAt:    a.DetectedAt,
		})
	}

	return alerts
}

// GenerateAlertsForOrganization detects anomalies and generates alerts
// across a whole constituent set, returning the combined output
// deduplicated and prioritized. Each constituent is an independent
// computation; callers may parallelize instead if they prefer.
func GenerateAlertsForOrganization(data []schema.ConstituentData, referenceDate time.Time) []schema.GeneratedAlert {
	var alerts []schema.GeneratedAlert
	for _, d := range data {
		anomalies := DetectAnomalies(AnomalyInput{
			Profile:       d.Profile,
			Gifts:         d.Gifts,
			Contacts:      d.Contacts,
			ReferenceDate: referenceDate,
		})
		alerts = append(alerts, GenerateAlertsForConstituent(d.Profile, anomalies)...)
	}
	return PrioritizeAlerts(DeduplicateAlerts(alerts))
}

// PrioritizeAlerts returns the alerts sorted by severity (high first)
// then by detection time (newer first) within equal severity. The sort is
// stable and the input slice is left untouched.
func PrioritizeAlerts(alerts []schema.GeneratedAlert) []schema.GeneratedAlert {
	out := make([]schema.GeneratedAlert, len(alerts))
	copy(out, alerts)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := schema.SeverityRank(out[i].Severity), schema.SeverityRank(out[j].Severity)
		if ri != rj {
			return ri > rj
		}
		return out[i].DetectedAt.After(out[j].DetectedAt)
	})
	return out
}

// DeduplicateAlerts keeps at most one alert per (constituent, type) key:
// the one with the higher severity, tie-broken by the more recent
// detection time. First-seen key order is preserved, which makes the
// operation idempotent: dedup applied to its own output changes nothing.
func DeduplicateAlerts(alerts []schema.GeneratedAlert) []schema.GeneratedAlert {
	best := make(map[string]schema.GeneratedAlert, len(alerts))
	order := make([]string, 0, len(alerts))

	for _, a := range alerts {
		key := a.Key()
		cur, seen := best[key]
		if !seen {
			best[key] = a
			order = append(order, key)
			continue
		}
		if supersedes(a, cur) {
			best[key] = a
		}
	}

	out := make([]schema.GeneratedAlert, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

// supersedes reports whether candidate should replace current within one
// dedup key.
func supersedes(candidate, current schema.GeneratedAlert) bool {
	cr, xr := schema.SeverityRank(candidate.Severity), schema.SeverityRank(current.Severity)
	if cr != xr {
		return cr > xr
	}
	return candidate.DetectedAt.After(current.DetectedAt)
}

// FilterNewAlerts drops alerts whose dedup key already exists in the
// provided set, making organization-wide alert runs safe to repeat.
func FilterNewAlerts(alerts []schema.GeneratedAlert, existingKeys map[string]struct{}) []schema.GeneratedAlert {
	out := make([]schema.GeneratedAlert, 0, len(alerts))
	for _, a := range alerts {
		if _, exists := existingKeys[a.Key()]; exists {
			continue
		}
		out = append(out, a)
	}
	return out
}

// GetAlertSummary rolls up a batch of alerts into counts by severity and
// type plus the number of distinct constituents affected.
func GetAlertSummary(alerts []schema.GeneratedAlert) schema.AlertSummary {
	summary := schema.AlertSummary{
		Total:      len(alerts),
		BySeverity: make(map[schema.Severity]int),
		ByType:     make(map[schema.AnomalyType]int),
	}

	constituents := make(map[string]struct{})
	for _, a := range alerts {
		summary.BySeverity[a.Severity]++
		summary.ByType[a.AlertType]++
		constituents[a.ConstituentID] = struct{}{}
	}
	summary.ConstituentsAffected = len(constituents)

	return summary
}
