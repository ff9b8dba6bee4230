package core

import (
	"math"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// Confidence weights and saturation points.
const (
	quantityWeight  = 0.4
	stabilityWeight = 0.4
	recencyWeight   = 0.2

	fullQuantityDays = 60.0
	staleAfterDays   = 30.0

	emptyConfidence = 0.3
)

// EstimateConfidence scores how reliable a forecast built on history is.
// Carried records are ignored. recencyDays is the age of the newest measured day.
func EstimateConfidence(history []schema.DailyRecord, recencyDays int) schema.ConfidenceScore {
	measured := measuredOnly(history)
	if len(measured) == 0 {
		return schema.ConfidenceScore{Overall: emptyConfidence, Level: schema.ConfidenceLow}
	}

	clamp01 := func(v float64) float64 {
		return math.Max(0, math.Min(1, v))
	}

	focus := make([]float64, len(measured))
	for i, r := range measured {
		focus[i] = r.FocusMinutes
	}

	quantity := math.Min(float64(len(measured))/fullQuantityDays, 1)
	stability := math.Max(0, 1-coefficientOfVariation(focus)/2)
	recency := clamp01(1 - float64(recencyDays)/staleAfterDays)

	overall := quantityWeight*quantity + stabilityWeight*stability + recencyWeight*recency
	return schema.ConfidenceScore{
		Overall: schema.Round2(overall),
		Level:   confidenceLevel(overall),
		Factors: schema.ConfidenceFactors{
			DataQuantity:     schema.Round2(quantity),
			PatternStability: schema.Round2(stability),
			DataRecency:      schema.Round2(recency),
		},
	}
}

// DowngradeConfidence lowers a score by one level for a defaulted work profile.
func DowngradeConfidence(c schema.ConfidenceScore) schema.ConfidenceScore {
	switch c.Level {
	case schema.ConfidenceHigh:
		c.Level = schema.ConfidenceMedium
	case schema.ConfidenceMedium:
		c.Level = schema.ConfidenceFair
	default:
		c.Level = schema.ConfidenceLow
	}
	return c
}

func confidenceLevel(overall float64) schema.ConfidenceLevel {
	switch {
	case overall >= 0.75:
		return schema.ConfidenceHigh
	case overall >= 0.55:
		return schema.ConfidenceMedium
	case overall >= 0.35:
		return schema.ConfidenceFair
	default:
		return schema.ConfidenceLow
	}
}

// coefficientOfVariation is the population stddev over the mean, 1 when the mean is not positive.
func coefficientOfVariation(values []float64) float64 {
	mean, std := meanStd(values)
	if mean <= 0 {
		return 1
	}
	return std / mean
}

// meanStd returns the mean and population standard deviation.
func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}
