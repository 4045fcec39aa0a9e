package algo

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sinteticoai/givemetry/schema"
)

// Workload score component weights. The ratio and capacity components are
// normalized against 2x the average before weighting.
const (
	workloadCountWeight    = 0.60
	workloadPriorityWeight = 0.25
	workloadCapacityWeight = 0.15
)

// heavyTargetSlack is the headroom above the average that rebalancing
// aims for: an overloaded officer is trimmed down to ceil(avg * 1.2).
const heavyTargetSlack = schema.HeavyRatio

// AnalyzePortfolio aggregates per-officer workload statistics from the
// assigned constituents and flags imbalance. Everything is recomputed
// wholesale from the input on each call; unassigned constituents are
// ignored. The output is advisory: the engine never mutates assignments.
func AnalyzePortfolio(data []schema.ConstituentData, referenceDate time.Time) schema.PortfolioAnalysis {
	byOfficer := make(map[string][]schema.ConstituentData)
	for _, d := range data {
		officerID := d.Profile.AssignedOfficerID
		if officerID == "" {
			continue
		}
		byOfficer[officerID] = append(byOfficer[officerID], d)
	}

	if len(byOfficer) == 0 {
		return schema.PortfolioAnalysis{IsBalanced: true}
	}

	officerIDs := make([]string, 0, len(byOfficer))
	total := 0
	var totalCapacity float64
	for id, assigned := range byOfficer {
		officerIDs = append(officerIDs, id)
		total += len(assigned)
		for _, d := range assigned {
			totalCapacity += math.Max(d.Profile.EstimatedCapacity, 0)
		}
	}
	sort.Strings(officerIDs)

	avg := float64(total) / float64(len(byOfficer))
	avgCapacity := totalCapacity / float64(len(byOfficer))

	analysis := schema.PortfolioAnalysis{
		AveragePortfolioSize: avg,
		MinPortfolioSize:     total,
		IsBalanced:           true,
	}

	singleOfficer := len(byOfficer) == 1
	for _, id := range officerIDs {
		m := buildOfficerMetrics(id, byOfficer[id], avg, avgCapacity, referenceDate, singleOfficer)
		if m.Classification == schema.OverloadedWorkload || m.Classification == schema.UnderutilizedWorkload {
			analysis.IsBalanced = false
		}
		if m.ConstituentCount < analysis.MinPortfolioSize {
			analysis.MinPortfolioSize = m.ConstituentCount
		}
		if m.ConstituentCount > analysis.MaxPortfolioSize {
			analysis.MaxPortfolioSize = m.ConstituentCount
		}
		analysis.Officers = append(analysis.Officers, m)
	}

	analysis.Suggestions = SuggestRebalancing(analysis.Officers, byOfficer, avg)
	return analysis
}

// buildOfficerMetrics computes the workload picture for one officer.
func buildOfficerMetrics(officerID string, assigned []schema.ConstituentData, avg, avgCapacity float64, referenceDate time.Time, singleOfficer bool) schema.OfficerPortfolioMetrics {
	m := schema.OfficerPortfolioMetrics{
		OfficerID:        officerID,
		ConstituentCount: len(assigned),
	}

	for _, d := range assigned {
		m.TotalCapacity += math.Max(d.Profile.EstimatedCapacity, 0)
		if schema.TierRank(d.Profile.PortfolioTier) >= schema.TierRank(schema.MajorTier) {
			m.HighPriorityCount++
		}
		risk := CalculateLapseRisk(d.Gifts, d.Contacts, referenceDate, nil)
		if risk.RiskLevel == schema.HighRisk {
			m.HighRiskCount++
		}
	}

	if avg > 0 {
		m.WorkloadRatio = float64(m.ConstituentCount) / avg
	}

	var priorityShare, capacityRatio float64
	if m.ConstituentCount > 0 {
		priorityShare = float64(m.HighPriorityCount) / float64(m.ConstituentCount)
	}
	if avgCapacity > 0 {
		capacityRatio = m.TotalCapacity / avgCapacity
	}
	m.WorkloadScore = 100 * Clamp01(
		workloadCountWeight*Clamp01(m.WorkloadRatio/2)+
			workloadPriorityWeight*priorityShare+
			workloadCapacityWeight*Clamp01(capacityRatio/2))

	m.Classification = classifyWorkload(m.WorkloadRatio, singleOfficer)
	return m
}

// classifyWorkload buckets an officer's workload ratio. A single-officer
// organization is always balanced: there is no average to deviate from.
func classifyWorkload(ratio float64, singleOfficer bool) schema.WorkloadClass {
	if singleOfficer {
		return schema.BalancedWorkload
	}
	switch {
	case ratio > schema.OverloadedRatio:
		return schema.OverloadedWorkload
	case ratio > schema.HeavyRatio:
		return schema.HeavyWorkload
	case ratio < schema.UnderutilizedRatio:
		return schema.UnderutilizedWorkload
	case ratio < schema.BelowAverageRatio:
		return schema.BelowAverageWorkload
	default:
		return schema.BalancedWorkload
	}
}

// SuggestRebalancing proposes moving constituents from overloaded to
// underutilized officers. Candidates leave the crowded portfolio lowest
// priority first, most recently assigned first, and land with whichever
// underutilized officer has the most headroom below the average.
// Suggestions are preview-only; applying them is an external action.
func SuggestRebalancing(officers []schema.OfficerPortfolioMetrics, byOfficer map[string][]schema.ConstituentData, avg float64) []schema.RebalanceSuggestion {
	type receiver struct {
		officerID string
		headroom  int
	}

	var receivers []receiver
	for _, m := range officers {
		if m.Classification == schema.UnderutilizedWorkload {
			headroom := int(math.Floor(avg)) - m.ConstituentCount
			if headroom > 0 {
				receivers = append(receivers, receiver{m.OfficerID, headroom})
			}
		}
	}
	if len(receivers) == 0 {
		return nil
	}

	var suggestions []schema.RebalanceSuggestion
	target := int(math.Ceil(avg * heavyTargetSlack))

	for _, m := range officers {
		if m.Classification != schema.OverloadedWorkload {
			continue
		}
		excess := m.ConstituentCount - target
		if excess <= 0 {
			continue
		}

		candidates := make([]schema.ConstituentData, len(byOfficer[m.OfficerID]))
		copy(candidates, byOfficer[m.OfficerID])
		sort.SliceStable(candidates, func(i, j int) bool {
			ti, tj := schema.TierRank(candidates[i].Profile.PortfolioTier), schema.TierRank(candidates[j].Profile.PortfolioTier)
			if ti != tj {
				return ti < tj
			}
			return candidates[i].Profile.AssignedAt.After(candidates[j].Profile.AssignedAt)
		})

		for _, c := range candidates {
			if excess == 0 {
				break
			}
			dest := -1
			for i := range receivers {
				if receivers[i].headroom > 0 && (dest < 0 || receivers[i].headroom > receivers[dest].headroom) {
					dest = i
				}
			}
			if dest < 0 {
				break
			}

			suggestions = append(suggestions, schema.RebalanceSuggestion{
				ConstituentID: c.Profile.ExternalID,
				FromOfficerID: m.OfficerID,
				ToOfficerID:   receivers[dest].officerID,
				Reason: fmt.Sprintf("%s carries %d constituents (%.1fx the average); %s is a %s relationship that %s has capacity to take on",
					m.OfficerID, m.ConstituentCount, m.WorkloadRatio,
					c.Profile.DisplayName(), tierOrUnassigned(c.Profile.PortfolioTier),
					receivers[dest].officerID),
			})
			receivers[dest].headroom--
			excess--
		}
	}

	return suggestions
}
