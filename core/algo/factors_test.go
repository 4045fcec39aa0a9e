package algo

import (
	"testing"
	"time"

	"github.com/sinteticoai/givemetry/schema"
	"github.com/stretchr/testify/assert"
)

var refDate = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

// gift is a test helper for building gift records relative to refDate.
func gift(amount float64, monthsAgo int) schema.GiftRecord {
	return schema.GiftRecord{Amount: amount, Date: refDate.AddDate(0, -monthsAgo, 0)}
}

// contact is a test helper for building contact records relative to refDate.
func contact(t schema.ContactType, monthsAgo int) schema.ContactRecord {
	return schema.ContactRecord{Type: t, Date: refDate.AddDate(0, -monthsAgo, 0)}
}

func TestRecencyFactor(t *testing.T) {
	tests := []struct {
		name      string
		gifts     []schema.GiftRecord
		wantMin   float64
		wantMax   float64
		wantValue string
	}{
		{
			name:    "no gifts maps to high risk, not undefined",
			gifts:   nil,
			wantMin: 0.85,
			wantMax: 0.95,
		},
		{
			name:    "gift this month",
			gifts:   []schema.GiftRecord{gift(100, 0)},
			wantMin: 0,
			wantMax: 0.05,
		},
		{
			name:    "gift two years ago saturates",
			gifts:   []schema.GiftRecord{gift(100, 30)},
			wantMin: 1,
			wantMax: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, factor := RecencyFactor(tt.gifts, refDate)
			assert.GreaterOrEqual(t, score, tt.wantMin)
			assert.LessOrEqual(t, score, tt.wantMax)
			assert.Equal(t, string(schema.FactorRecency), factor.Name)
			assert.NotEmpty(t, factor.Value)
		})
	}
}

func TestRecencyFactorSortsInternally(t *testing.T) {
	// Insertion order must not matter.
	shuffled := []schema.GiftRecord{gift(50, 14), gift(75, 1), gift(25, 30)}
	ordered := []schema.GiftRecord{gift(25, 30), gift(50, 14), gift(75, 1)}

	s1, _ := RecencyFactor(shuffled, refDate)
	s2, _ := RecencyFactor(ordered, refDate)
	assert.Equal(t, s1, s2)
}

func TestFrequencyFactor(t *testing.T) {
	t.Run("steady annual donor is moderate", func(t *testing.T) {
		gifts := []schema.GiftRecord{gift(100, 2), gift(100, 14), gift(100, 26), gift(100, 38)}
		score, factor := FrequencyFactor(gifts, refDate)
		assert.Less(t, score, 0.8)
		assert.Greater(t, score, 0.2)
		assert.Equal(t, string(schema.FactorFrequency), factor.Name)
	})

	t.Run("frequent donor is low risk", func(t *testing.T) {
		gifts := []schema.GiftRecord{gift(50, 2), gift(50, 6), gift(50, 10), gift(50, 16)}
		score, _ := FrequencyFactor(gifts, refDate)
		assert.Less(t, score, 0.4)
	})

	t.Run("declining cadence adds risk", func(t *testing.T) {
		steady := []schema.GiftRecord{gift(50, 2), gift(50, 8), gift(50, 14), gift(50, 20)}
		declining := []schema.GiftRecord{gift(50, 13), gift(50, 16), gift(50, 19), gift(50, 22)}

		steadyScore, _ := FrequencyFactor(steady, refDate)
		decliningScore, decliningFactor := FrequencyFactor(declining, refDate)
		assert.Greater(t, decliningScore, steadyScore)
		assert.Contains(t, decliningFactor.Value, "slowing")
	})

	t.Run("single gift has no cadence", func(t *testing.T) {
		score, factor := FrequencyFactor([]schema.GiftRecord{gift(100, 6)}, refDate)
		assert.InDelta(t, singleGiftFrequency, score, 0.001)
		assert.Equal(t, schema.HighImpact, factor.Impact)
	})
}

func TestMonetaryFactor(t *testing.T) {
	tests := []struct {
		name  string
		gifts []schema.GiftRecord
		want  float64
	}{
		{
			name:  "declining amounts",
			gifts: []schema.GiftRecord{gift(1000, 36), gift(900, 24), gift(400, 12), gift(300, 2)},
			want:  decliningMonetaryScore,
		},
		{
			name:  "growing amounts",
			gifts: []schema.GiftRecord{gift(100, 36), gift(150, 24), gift(400, 12), gift(500, 2)},
			want:  growingMonetaryScore,
		},
		{
			name:  "steady amounts",
			gifts: []schema.GiftRecord{gift(250, 36), gift(250, 24), gift(250, 12), gift(250, 2)},
			want:  stableMonetaryScore,
		},
		{
			name:  "no gifts",
			gifts: nil,
			want:  noGiftMonetaryScore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, factor := MonetaryFactor(tt.gifts, refDate)
			assert.InDelta(t, tt.want, score, 0.001)
			assert.NotEmpty(t, factor.Value)
		})
	}
}

func TestMonetaryFactorClampsNegativeAmounts(t *testing.T) {
	gifts := []schema.GiftRecord{gift(-500, 24), gift(100, 2)}
	score, _ := MonetaryFactor(gifts, refDate)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestContactFactor(t *testing.T) {
	t.Run("no interactions", func(t *testing.T) {
		score, factor := ContactFactor(nil, refDate)
		assert.InDelta(t, noContactScore, score, 0.001)
		assert.Equal(t, schema.HighImpact, factor.Impact)
	})

	t.Run("recent meeting is low risk", func(t *testing.T) {
		score, _ := ContactFactor([]schema.ContactRecord{contact(schema.MeetingContact, 1)}, refDate)
		assert.Less(t, score, 0.2)
	})

	t.Run("year of silence saturates", func(t *testing.T) {
		score, _ := ContactFactor([]schema.ContactRecord{contact(schema.CallContact, 14)}, refDate)
		assert.InDelta(t, 1.0, score, 0.05)
	})

	t.Run("steady touch pattern reduces risk", func(t *testing.T) {
		sparse := []schema.ContactRecord{contact(schema.EmailContact, 4)}
		steady := []schema.ContactRecord{
			contact(schema.EmailContact, 4),
			contact(schema.CallContact, 6),
			contact(schema.EmailContact, 8),
			contact(schema.MeetingContact, 10),
		}
		sparseScore, _ := ContactFactor(sparse, refDate)
		steadyScore, _ := ContactFactor(steady, refDate)
		assert.Less(t, steadyScore, sparseScore)
	})
}

func TestEstimateCapacityFromHistory(t *testing.T) {
	t.Run("no gifts yields zero", func(t *testing.T) {
		assert.Zero(t, EstimateCapacityFromHistory(nil))
	})

	t.Run("scales top gifts", func(t *testing.T) {
		gifts := []schema.GiftRecord{gift(1000, 2), gift(500, 12), gift(100, 24), gift(50, 36)}
		// mean of top 3 = (1000+500+100)/3, scaled by 25
		assert.InDelta(t, 1600.0/3*25, EstimateCapacityFromHistory(gifts), 0.01)
	})

	t.Run("fewer than three gifts", func(t *testing.T) {
		gifts := []schema.GiftRecord{gift(200, 2)}
		assert.InDelta(t, 200*25, EstimateCapacityFromHistory(gifts), 0.01)
	})
}

func TestHumanizeDays(t *testing.T) {
	assert.Equal(t, "12 days", humanizeDays(12))
	assert.Equal(t, "6 months", humanizeDays(183))
	assert.Equal(t, "2.5 years", humanizeDays(912.5))
}
