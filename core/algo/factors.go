// Package algo holds the pure scoring and detection functions of the
// donor analytics engine. Nothing here reads a clock, touches I/O or
// mutates its inputs; every time-sensitive calculation takes an explicit
// reference date so results are reproducible under batch re-computation.
package algo

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sinteticoai/givemetry/schema"
)

// Tunable maxima used to normalize factor inputs.
const (
	maxRecencyDays = 730.0 // gift gaps beyond two years saturate
	maxContactDays = 365.0 // contact gaps beyond one year saturate
	maxGiftsPerYr  = 4.0   // annualized cadence beyond this saturates

	// Sub-scores assigned when history is missing. Absence of data is a
	// meaningful signal, never an error.
	noGiftRecencyScore   = 0.9
	noGiftFrequencyScore = 0.85
	noGiftMonetaryScore  = 0.9
	singleGiftFrequency  = 0.7
	singleGiftMonetary   = 0.6
	noContactScore       = 0.8
)

// Monetary trend boundaries: the ratio of the newer half's mean gift to
// the older half's mean gift.
const (
	decliningTrendRatio = 0.75
	growingTrendRatio   = 1.25

	decliningMonetaryScore = 0.75
	stableMonetaryScore    = 0.4
	growingMonetaryScore   = 0.15
)

// Clamp01 clamps v to the [0,1] range.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// impactFor maps a sub-score to its descriptive impact bucket. The
// boundaries mirror the risk level thresholds.
func impactFor(score float64) schema.Impact {
	switch {
	case score >= schema.HighRiskThreshold:
		return schema.HighImpact
	case score >= schema.MediumRiskThreshold:
		return schema.MediumImpact
	default:
		return schema.LowImpact
	}
}

// sortedGifts returns a date-ascending copy of gifts with negative
// amounts clamped to zero. The input slice is never mutated.
func sortedGifts(gifts []schema.GiftRecord) []schema.GiftRecord {
	out := make([]schema.GiftRecord, len(gifts))
	copy(out, gifts)
	for i := range out {
		if out[i].Amount < 0 {
			out[i].Amount = 0
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// daysSince returns the whole days between then and ref, floored at zero.
func daysSince(ref, then time.Time) float64 {
	d := ref.Sub(then).Hours() / 24
	if d < 0 {
		return 0
	}
	return d
}

// humanizeDays renders a day count the way an officer would say it.
func humanizeDays(days float64) string {
	switch {
	case days < 45:
		return fmt.Sprintf("%d days", int(days))
	case days < 660:
		return fmt.Sprintf("%d months", int(math.Round(days/30.0)))
	default:
		return fmt.Sprintf("%.1f years", days/365.0)
	}
}

// countInWindow counts gifts with start < date <= end.
func countInWindow(gifts []schema.GiftRecord, start, end time.Time) int {
	n := 0
	for _, g := range gifts {
		if g.Date.After(start) && !g.Date.After(end) {
			n++
		}
	}
	return n
}

// sumInWindow sums gift amounts with start < date <= end.
func sumInWindow(gifts []schema.GiftRecord, start, end time.Time) float64 {
	var total float64
	for _, g := range gifts {
		if g.Date.After(start) && !g.Date.After(end) {
			total += math.Max(g.Amount, 0)
		}
	}
	return total
}

// RecencyFactor maps time since the most recent gift to a risk
// contribution. Zero for a gift received today, saturating at two years.
func RecencyFactor(gifts []schema.GiftRecord, referenceDate time.Time) (float64, schema.ScoreFactor) {
	if len(gifts) == 0 {
		return noGiftRecencyScore, schema.ScoreFactor{
			Name:   string(schema.FactorRecency),
			Value:  "No gifts on record",
			Impact: schema.HighImpact,
		}
	}

	sorted := sortedGifts(gifts)
	last := sorted[len(sorted)-1].Date
	days := daysSince(referenceDate, last)
	score := Clamp01(days / maxRecencyDays)

	return score, schema.ScoreFactor{
		Name:   string(schema.FactorRecency),
		Value:  fmt.Sprintf("%s since last gift", humanizeDays(days)),
		Impact: impactFor(score),
	}
}

// FrequencyFactor analyzes gift cadence: sparse or declining giving
// raises the risk contribution.
func FrequencyFactor(gifts []schema.GiftRecord, referenceDate time.Time) (float64, schema.ScoreFactor) {
	if len(gifts) == 0 {
		return noGiftFrequencyScore, schema.ScoreFactor{
			Name:   string(schema.FactorFrequency),
			Value:  "No giving history to establish a cadence",
			Impact: schema.HighImpact,
		}
	}
	if len(gifts) == 1 {
		return singleGiftFrequency, schema.ScoreFactor{
			Name:   string(schema.FactorFrequency),
			Value:  "Single gift on record, no cadence yet",
			Impact: schema.HighImpact,
		}
	}

	// The span runs from the first gift to the reference date, so a donor
	// who stopped giving sees their annualized rate decay over time.
	sorted := sortedGifts(gifts)
	spanYears := daysSince(referenceDate, sorted[0].Date) / 365.0
	if spanYears < 1 {
		spanYears = 1 // avoid inflating the rate for short histories
	}
	rate := float64(len(sorted)) / spanYears
	score := Clamp01(1 - rate/maxGiftsPerYr)

	// A cadence that slowed in the most recent year is itself a signal.
	recent := countInWindow(sorted, referenceDate.AddDate(-1, 0, 0), referenceDate)
	prior := countInWindow(sorted, referenceDate.AddDate(-2, 0, 0), referenceDate.AddDate(-1, 0, 0))
	declining := recent < prior
	if declining {
		score = Clamp01(score + 0.2)
	}

	value := fmt.Sprintf("About %.1f gifts per year", rate)
	if declining {
		value = fmt.Sprintf("Cadence slowing: %d gifts in the last year vs %d the year before", recent, prior)
	}

	return score, schema.ScoreFactor{
		Name:   string(schema.FactorFrequency),
		Value:  value,
		Impact: impactFor(score),
	}
}

// MonetaryFactor analyzes the gift amount trend: declining amounts
// relative to the constituent's own history raise the risk contribution.
func MonetaryFactor(gifts []schema.GiftRecord, referenceDate time.Time) (float64, schema.ScoreFactor) {
	if len(gifts) == 0 {
		return noGiftMonetaryScore, schema.ScoreFactor{
			Name:   string(schema.FactorMonetary),
			Value:  "No gift amounts to analyze",
			Impact: schema.HighImpact,
		}
	}
	if len(gifts) == 1 {
		return singleGiftMonetary, schema.ScoreFactor{
			Name:   string(schema.FactorMonetary),
			Value:  fmt.Sprintf("Single gift of $%.0f, no trend yet", math.Max(gifts[0].Amount, 0)),
			Impact: schema.MediumImpact,
		}
	}

	sorted := sortedGifts(gifts)
	mid := len(sorted) / 2
	older := meanAmount(sorted[:mid])
	newer := meanAmount(sorted[mid:])

	var score float64
	var value string
	switch {
	case older == 0:
		// All early gifts were zero-amount; any real giving counts as growth.
		score = growingMonetaryScore
		value = fmt.Sprintf("Giving grew to an average of $%.0f", newer)
	case newer/older < decliningTrendRatio:
		score = decliningMonetaryScore
		value = fmt.Sprintf("Average gift declining: $%.0f recently vs $%.0f earlier", newer, older)
	case newer/older > growingTrendRatio:
		score = growingMonetaryScore
		value = fmt.Sprintf("Average gift growing: $%.0f recently vs $%.0f earlier", newer, older)
	default:
		score = stableMonetaryScore
		value = fmt.Sprintf("Average gift steady around $%.0f", newer)
	}

	return score, schema.ScoreFactor{
		Name:   string(schema.FactorMonetary),
		Value:  value,
		Impact: impactFor(score),
	}
}

// ContactFactor analyzes interaction recency and volume: long silence or
// no interactions at all raise the risk contribution.
func ContactFactor(contacts []schema.ContactRecord, referenceDate time.Time) (float64, schema.ScoreFactor) {
	if len(contacts) == 0 {
		return noContactScore, schema.ScoreFactor{
			Name:   string(schema.FactorContact),
			Value:  "No recorded interactions",
			Impact: schema.HighImpact,
		}
	}

	last := contacts[0].Date
	recentCount := 0
	yearAgo := referenceDate.AddDate(-1, 0, 0)
	for _, c := range contacts {
		if c.Date.After(last) {
			last = c.Date
		}
		if c.Date.After(yearAgo) && !c.Date.After(referenceDate) {
			recentCount++
		}
	}

	days := daysSince(referenceDate, last)
	score := Clamp01(days / maxContactDays)
	if recentCount >= 4 {
		// A steadily touched relationship is lower risk even after a gap.
		score = Clamp01(score - 0.1)
	}

	return score, schema.ScoreFactor{
		Name:   string(schema.FactorContact),
		Value:  fmt.Sprintf("%s since last interaction, %d in the past year", humanizeDays(days), recentCount),
		Impact: impactFor(score),
	}
}

// EstimateCapacityFromHistory infers a rough giving capacity from the
// constituent's own gift pattern: the mean of the top three gifts scaled
// by the typical 1-5% share of capacity donors give in a year. This is a
// side utility for capacity screening and plays no part in risk scoring.
func EstimateCapacityFromHistory(gifts []schema.GiftRecord) float64 {
	if len(gifts) == 0 {
		return 0
	}

	amounts := make([]float64, 0, len(gifts))
	for _, g := range gifts {
		amounts = append(amounts, math.Max(g.Amount, 0))
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(amounts)))

	n := min(3, len(amounts))
	var top float64
	for _, a := range amounts[:n] {
		top += a
	}
	return top / float64(n) * 25
}

// meanAmount returns the mean gift amount of the slice, 0 when empty.
func meanAmount(gifts []schema.GiftRecord) float64 {
	if len(gifts) == 0 {
		return 0
	}
	var total float64
	for _, g := range gifts {
		total += g.Amount
	}
	return total / float64(len(gifts))
}
