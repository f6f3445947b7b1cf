// Package pipeline provides the reference implementations of every decision
// stage: scoring, aggregation, classification, rules, explainability and
// audit assembly. Each implementation is stateless after construction and
// safe for concurrent use.
package pipeline

import (
	"fmt"
	"math"

	"github.com/davidahmann/verdict/core/decision"
)

// BasicScorer accepts precomputed local scores from the payload. It copies
// the caller-supplied maps into a canonical score set without dropping or
// inventing indicators; nil maps degrade to empty maps.
type BasicScorer struct{}

func (BasicScorer) Score(payload decision.Payload) (decision.ScoreSet, error) {
	details := make(map[string]decision.IndicatorDetail, len(payload.IndicatorDetails))
	for indicatorID, detail := range payload.IndicatorDetails {
		details[indicatorID] = detail
	}
	scores := make(map[string]float64, len(payload.LocalScores))
	for indicatorID, score := range payload.LocalScores {
		scores[indicatorID] = score
	}
	return decision.ScoreSet{IndicatorDetails: details, LocalScores: scores}, nil
}

// ResponseScorer derives local scores from raw likelihood and impact
// responses carried in indicator metadata: both are min-max normalized over
// the configured scale, multiplied, and mapped to 0-100 with two-decimal
// rounding. Indicators without both responses keep their supplied local
// score.
type ResponseScorer struct {
	scaleMin float64
	scaleMax float64
}

// NewResponseScorer validates the response scale bounds. The conventional
// scale is 1..5.
func NewResponseScorer(scaleMin, scaleMax float64) (ResponseScorer, error) {
	if scaleMax <= scaleMin {
		return ResponseScorer{}, fmt.Errorf("invalid response scale: require min (%v) < max (%v)", scaleMin, scaleMax)
	}
	return ResponseScorer{scaleMin: scaleMin, scaleMax: scaleMax}, nil
}

func (s ResponseScorer) Score(payload decision.Payload) (decision.ScoreSet, error) {
	scoreSet, err := BasicScorer{}.Score(payload)
	if err != nil {
		return decision.ScoreSet{}, err
	}
	for indicatorID, detail := range scoreSet.IndicatorDetails {
		likelihood, likelihoodOK := numericMetadata(detail.Metadata, "likelihood")
		impact, impactOK := numericMetadata(detail.Metadata, "impact")
		if !likelihoodOK || !impactOK {
			continue
		}
		normalized := s.normalize(likelihood) * s.normalize(impact)
		scoreSet.LocalScores[indicatorID] = math.Round(normalized*100*100) / 100
	}
	return scoreSet, nil
}

func (s ResponseScorer) normalize(value float64) float64 {
	normalized := (value - s.scaleMin) / (s.scaleMax - s.scaleMin)
	if normalized < 0 {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}

func numericMetadata(metadata map[string]any, key string) (float64, bool) {
	raw, ok := metadata[key]
	if !ok {
		return 0, false
	}
	switch value := raw.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	}
	return 0, false
}
