package algo

import (
	"math"
	"time"

	"github.com/sinteticoai/givemetry/schema"
)

// confidenceSaturation is the history volume (gifts + contacts) at which
// confidence reaches 1.0.
const confidenceSaturation = 25

// CalculateLapseRisk combines the four factor calculators into a single
// lapse risk result. The weights map is used verbatim; it is NOT
// renormalized, so callers supplying weights that do not sum to 1 get a
// proportionally scaled score (still clamped to [0,1]). Pass nil to use
// the defaults. A constituent with zero gifts still produces a full
// four-factor result: the missing history is itself informative.
func CalculateLapseRisk(gifts []schema.GiftRecord, contacts []schema.ContactRecord, referenceDate time.Time, weights map[schema.FactorKey]float64) schema.LapseRiskResult {
	if weights == nil {
		weights = schema.DefaultRiskWeights()
	}

	recencyScore, recencyFactor := RecencyFactor(gifts, referenceDate)
	frequencyScore, frequencyFactor := FrequencyFactor(gifts, referenceDate)
	monetaryScore, monetaryFactor := MonetaryFactor(gifts, referenceDate)
	contactScore, contactFactor := ContactFactor(contacts, referenceDate)

	subScores := map[schema.FactorKey]float64{
		schema.FactorRecency:   recencyScore,
		schema.FactorFrequency: frequencyScore,
		schema.FactorMonetary:  monetaryScore,
		schema.FactorContact:   contactScore,
	}
	factors := map[schema.FactorKey]schema.ScoreFactor{
		schema.FactorRecency:   recencyFactor,
		schema.FactorFrequency: frequencyFactor,
		schema.FactorMonetary:  monetaryFactor,
		schema.FactorContact:   contactFactor,
	}

	var score float64
	ordered := make([]schema.ScoreFactor, 0, len(schema.FactorOrder))
	for _, key := range schema.FactorOrder {
		w := weights[key]
		score += w * subScores[key]

		f := factors[key]
		f.Weight = w
		ordered = append(ordered, f)
	}
	score = Clamp01(score)

	return schema.LapseRiskResult{
		Score:                score,
		RiskLevel:            RiskLevelFor(score),
		Confidence:           historyConfidence(len(gifts) + len(contacts)),
		PredictedLapseWindow: PredictLapseWindow(score),
		Factors:              ordered,
	}
}

// RiskLevelFor buckets a risk score. Intervals are half-open; boundary
// values belong to the higher risk bucket.
func RiskLevelFor(score float64) schema.RiskLevel {
	switch {
	case score >= schema.HighRiskThreshold:
		return schema.HighRisk
	case score >= schema.MediumRiskThreshold:
		return schema.MediumRisk
	default:
		return schema.LowRisk
	}
}

// PredictLapseWindow maps a risk score to a categorical lapse window.
// Always non-empty: even low risk gets the open-ended bucket.
func PredictLapseWindow(score float64) string {
	switch {
	case score >= 0.85:
		return "0-3 months"
	case score >= 0.7:
		return "3-6 months"
	case score >= 0.55:
		return "6-12 months"
	case score >= 0.4:
		return "12-18 months"
	default:
		return "18+ months"
	}
}

// historyConfidence grows monotonically with the number of gift and
// contact data points backing a score, saturating at confidenceSaturation.
// The log curve means the first few points matter most: a single data
// point yields strictly lower confidence than ten.
func historyConfidence(points int) float64 {
	if points < 0 {
		points = 0
	}
	return Clamp01(math.Log1p(float64(points)) / math.Log1p(confidenceSaturation))
}
