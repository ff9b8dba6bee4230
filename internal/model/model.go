// Package model loads trained focus models and evaluates them.
package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"strings"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// Supported model types.
const (
	TypeXGBoost = "xgboost"
	TypeLinear  = "linear"
)

// DefaultBaseScore is the XGBoost starting prediction when neither the dump nor
// the metadata records one.
const DefaultBaseScore = 0.5

// ErrFeatureCount is returned when a vector does not match the model's features.
var ErrFeatureCount = errors.New("feature vector length does not match model features")

// predictor is the evaluation part of a model.
type predictor interface {
	predict(features []float64) float64
	importance(names []string) map[string]float64
}

// Model is an immutable loaded model.
type Model struct {
	meta       schema.ModelMetadata
	predictor  predictor
	importance map[string]float64
}

var _ contract.Model = &Model{} // Compile-time check

// New builds a model from metadata and a predictor.
func New(meta schema.ModelMetadata, p predictor) (*Model, error) {
	if len(meta.Features) == 0 {
		return nil, fmt.Errorf("model metadata lists no features")
	}
	if meta.P90AbsResidual < 0 {
		return nil, fmt.Errorf("p90_abs_residual cannot be negative (received %.2f)", meta.P90AbsResidual)
	}
	importance := p.importance(meta.Features)
	if len(meta.FeatureImportance) > 0 {
		importance = maps.Clone(meta.FeatureImportance)
	}
	return &Model{meta: meta, predictor: p, importance: importance}, nil
}

// Predict evaluates the model on a feature vector ordered like Metadata().Features.
func (m *Model) Predict(ctx context.Context, features []float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(features) != len(m.meta.Features) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrFeatureCount, len(features), len(m.meta.Features))
	}
	v := m.predictor.predict(features)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("model produced a non-finite value")
	}
	return v, nil
}

// Metadata returns the static description of the model.
func (m *Model) Metadata() schema.ModelMetadata {
	meta := m.meta
	meta.Features = append([]string(nil), m.meta.Features...)
	return meta
}

// Importance returns the native importance of each feature.
func (m *Model) Importance() map[string]float64 {
	return maps.Clone(m.importance)
}

// Load reads a model file and its metadata sidecar.
func Load(modelPath, metadataPath string) (*Model, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("no model path configured")
	}
	meta, err := LoadMetadata(metadataPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", modelPath, err)
	}

	p, kind, err := parsePredictor(data, meta)
	if err != nil {
		return nil, fmt.Errorf("parse model %s: %w", modelPath, err)
	}
	if meta.ModelType == "" {
		meta.ModelType = kind
	}
	if meta.ModelVersion == "" {
		meta.ModelVersion = kind + "-unversioned"
	}
	return New(meta, p)
}

// LoadMetadata reads a metadata sidecar file.
func LoadMetadata(path string) (schema.ModelMetadata, error) {
	var meta schema.ModelMetadata
	data, err := os.ReadFile(path)
	if err != nil {
		return meta, fmt.Errorf("read model metadata %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("decode model metadata %s: %w", path, err)
	}
	if len(meta.Features) == 0 {
		return meta, fmt.Errorf("model metadata %s lists no features", path)
	}
	return meta, nil
}

// parsePredictor detects the model format from its JSON shape.
// A bare tree dump takes its base score from the metadata.
func parsePredictor(data []byte, meta schema.ModelMetadata) (predictor, string, error) {
	features := meta.Features
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		b, err := parseBooster(data, baseScore(meta.BaseScore), features)
		return b, TypeXGBoost, err
	}

	var shape struct {
		Trees        json.RawMessage `json:"trees"`
		BaseScore    *float64        `json:"base_score"`
		Coefficients json.RawMessage `json:"coefficients"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, "", err
	}
	switch {
	case len(shape.Trees) > 0:
		b, err := parseBooster(shape.Trees, baseScore(shape.BaseScore, meta.BaseScore), features)
		return b, TypeXGBoost, err
	case len(shape.Coefficients) > 0:
		l, err := parseLinear(data, features)
		return l, TypeLinear, err
	default:
		return nil, "", fmt.Errorf("unrecognized model format: expected a tree dump or linear coefficients")
	}
}

// baseScore picks the first recorded base score, else the XGBoost default.
func baseScore(scores ...*float64) float64 {
	for _, s := range scores {
		if s != nil {
			return *s
		}
	}
	return DefaultBaseScore
}
