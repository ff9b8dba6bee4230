package core

import (
	"testing"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/stretchr/testify/assert"
)

func TestEstimateConfidenceEmpty(t *testing.T) {
	got := EstimateConfidence(nil, 0)
	assert.Equal(t, schema.ConfidenceScore{Overall: 0.3, Level: schema.ConfidenceLow}, got)

	carriedOnly := []schema.DailyRecord{{FocusMinutes: 100, Carried: true}}
	assert.Equal(t, got, EstimateConfidence(carriedOnly, 0))
}

func TestEstimateConfidence(t *testing.T) {
	tests := []struct {
		name      string
		history   []schema.DailyRecord
		recency   int
		overall   float64
		level     schema.ConfidenceLevel
		quantity  float64
		stability float64
		fresh     float64
	}{
		{
			name:      "long stable fresh history",
			history:   makeHistory(60, constant(100)),
			recency:   0,
			overall:   1,
			level:     schema.ConfidenceHigh,
			quantity:  1,
			stability: 1,
			fresh:     1,
		},
		{
			name: "alternating focus, half stale",
			history: makeHistory(30, func(i int) float64 {
				if i%2 == 0 {
					return 50
				}
				return 150
			}),
			recency:   15,
			overall:   0.6,
			level:     schema.ConfidenceMedium,
			quantity:  0.5,
			stability: 0.75,
			fresh:     0.5,
		},
		{
			name:      "zero focus and stale",
			history:   makeHistory(12, constant(0)),
			recency:   45,
			overall:   0.28,
			level:     schema.ConfidenceLow,
			quantity:  0.2,
			stability: 0.5,
			fresh:     0,
		},
		{
			name:      "short steady history",
			history:   makeHistory(30, constant(90)),
			recency:   3,
			overall:   0.78,
			level:     schema.ConfidenceHigh,
			quantity:  0.5,
			stability: 1,
			fresh:     0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateConfidence(tt.history, tt.recency)
			assert.InDelta(t, tt.overall, got.Overall, 1e-9)
			assert.Equal(t, tt.level, got.Level)
			assert.InDelta(t, tt.quantity, got.Factors.DataQuantity, 1e-9)
			assert.InDelta(t, tt.stability, got.Factors.PatternStability, 1e-9)
			assert.InDelta(t, tt.fresh, got.Factors.DataRecency, 1e-9)
		})
	}
}

func TestEstimateConfidenceIgnoresCarried(t *testing.T) {
	history := makeHistory(60, constant(100))
	withCarried := append(append([]schema.DailyRecord(nil), history...),
		schema.DailyRecord{FocusMinutes: 1, Carried: true},
		schema.DailyRecord{FocusMinutes: 900, Carried: true},
	)
	assert.Equal(t, EstimateConfidence(history, 1), EstimateConfidence(withCarried, 1))
}

func TestDowngradeConfidence(t *testing.T) {
	tests := []struct {
		in, want schema.ConfidenceLevel
	}{
		{schema.ConfidenceHigh, schema.ConfidenceMedium},
		{schema.ConfidenceMedium, schema.ConfidenceFair},
		{schema.ConfidenceFair, schema.ConfidenceLow},
		{schema.ConfidenceLow, schema.ConfidenceLow},
	}
	for _, tt := range tests {
		got := DowngradeConfidence(schema.ConfidenceScore{Overall: 0.5, Level: tt.in})
		assert.Equal(t, tt.want, got.Level)
		assert.Equal(t, 0.5, got.Overall)
	}
}

func TestConfidenceLevelBoundaries(t *testing.T) {
	assert.Equal(t, schema.ConfidenceHigh, confidenceLevel(0.75))
	assert.Equal(t, schema.ConfidenceMedium, confidenceLevel(0.7499))
	assert.Equal(t, schema.ConfidenceMedium, confidenceLevel(0.55))
	assert.Equal(t, schema.ConfidenceFair, confidenceLevel(0.35))
	assert.Equal(t, schema.ConfidenceLow, confidenceLevel(0.3499))
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Equal(t, 1.0, coefficientOfVariation(nil))
	assert.Equal(t, 1.0, coefficientOfVariation([]float64{0, 0}))
	assert.InDelta(t, 0.5, coefficientOfVariation([]float64{50, 150}), 1e-9)
	assert.InDelta(t, 0.0, coefficientOfVariation([]float64{7, 7, 7}), 1e-9)
}
