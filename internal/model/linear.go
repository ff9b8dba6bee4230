package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// linear is an intercept plus one coefficient per feature.
type linear struct {
	intercept    float64
	coefficients []float64
}

func parseLinear(data []byte, features []string) (*linear, error) {
	var raw struct {
		Intercept    float64            `json:"intercept"`
		Coefficients map[string]float64 `json:"coefficients"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	l := &linear{intercept: raw.Intercept, coefficients: make([]float64, len(features))}
	known := make(map[string]bool, len(features))
	for i, f := range features {
		l.coefficients[i] = raw.Coefficients[f]
		known[f] = true
	}
	for name := range raw.Coefficients {
		if !known[name] {
			return nil, fmt.Errorf("coefficient for unknown feature %q", name)
		}
	}
	return l, nil
}

func (l *linear) predict(features []float64) float64 {
	sum := l.intercept
	for i, c := range l.coefficients {
		sum += c * features[i]
	}
	return sum
}

func (l *linear) importance(names []string) map[string]float64 {
	out := make(map[string]float64, len(names))
	for i, name := range names {
		out[name] = math.Abs(l.coefficients[i])
	}
	return out
}
