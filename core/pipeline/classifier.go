package pipeline

import (
	"fmt"
	"strings"

	"github.com/davidahmann/verdict/core/decision"
	coreerrors "github.com/davidahmann/verdict/core/errors"
)

const (
	// DefaultLowThreshold and DefaultHighThreshold are the conventional base
	// cut points for 0-100 scaled scores.
	DefaultLowThreshold  = 20.0
	DefaultHighThreshold = 45.0

	appetiteScaleLow  = 0.85
	appetiteScaleHigh = 1.15
	earlyStageScale   = 0.95
	thresholdEpsilon  = 1e-6
)

// earlyStages are project stages classified more strictly.
var earlyStages = map[string]struct{}{
	"concept": {},
	"design":  {},
}

func bandFor(score float64, thresholds decision.Thresholds) decision.Band {
	// Boundary equality belongs to the higher band: score == low is medium.
	if score < thresholds.Low {
		return decision.BandLow
	}
	if score < thresholds.High {
		return decision.BandMedium
	}
	return decision.BandHigh
}

func validateThresholds(low, high float64) error {
	if low <= 0 || high <= 0 || low >= high {
		return coreerrors.Wrap(
			fmt.Errorf("invalid thresholds: require 0 < low (%v) < high (%v)", low, high),
			coreerrors.CategoryConfigInvalid,
			"thresholds_invalid",
			"base thresholds must be positive and strictly ordered",
		)
	}
	return nil
}

// FixedClassifier bands scores against absolute, context-blind thresholds.
// Kept for baseline behavior and regression comparisons.
type FixedClassifier struct {
	thresholds decision.Thresholds
}

func NewFixedClassifier(low, high float64) (FixedClassifier, error) {
	if err := validateThresholds(low, high); err != nil {
		return FixedClassifier{}, err
	}
	return FixedClassifier{thresholds: decision.Thresholds{Low: low, High: high}}, nil
}

func (c FixedClassifier) Classify(domainScores map[string]float64) map[string]decision.Classification {
	classifications := make(map[string]decision.Classification, len(domainScores))
	for domain, score := range domainScores {
		classifications[domain] = decision.Classification{
			Score: score,
			Band:  bandFor(score, c.thresholds),
		}
	}
	return classifications
}

// PolicyClassifier scales base thresholds by risk appetite (low appetite
// escalates sooner, high appetite tolerates more) and tightens both by a
// further factor at early project stages. Configured once at construction
// and immutable thereafter.
type PolicyClassifier struct {
	baseLow      float64
	baseHigh     float64
	riskAppetite string
	stage        string
}

func NewPolicyClassifier(baseLow, baseHigh float64, riskAppetite, stage string) (PolicyClassifier, error) {
	if err := validateThresholds(baseLow, baseHigh); err != nil {
		return PolicyClassifier{}, err
	}
	appetite := strings.ToLower(strings.TrimSpace(riskAppetite))
	if appetite == "" {
		appetite = "medium"
	}
	return PolicyClassifier{
		baseLow:      baseLow,
		baseHigh:     baseHigh,
		riskAppetite: appetite,
		stage:        strings.ToLower(strings.TrimSpace(stage)),
	}, nil
}

// EffectiveThresholds returns the cut points after appetite and stage
// scaling. Strict ordering is preserved even if scaling collapses the pair.
func (c PolicyClassifier) EffectiveThresholds() decision.Thresholds {
	scale := 1.0
	switch c.riskAppetite {
	case "low":
		scale = appetiteScaleLow
	case "high":
		scale = appetiteScaleHigh
	}

	low := c.baseLow * scale
	high := c.baseHigh * scale

	if _, early := earlyStages[c.stage]; early {
		low *= earlyStageScale
		high *= earlyStageScale
	}

	if low >= high {
		high = low + thresholdEpsilon
	}
	return decision.Thresholds{Low: low, High: high}
}

// Policy returns the appetite and stage parameters this classifier applies.
func (c PolicyClassifier) Policy() decision.PolicyParams {
	return decision.PolicyParams{RiskAppetite: c.riskAppetite, Stage: c.stage}
}

func (c PolicyClassifier) Classify(domainScores map[string]float64) map[string]decision.Classification {
	thresholds := c.EffectiveThresholds()
	policy := c.Policy()

	classifications := make(map[string]decision.Classification, len(domainScores))
	for domain, score := range domainScores {
		effectiveThresholds := thresholds
		effectivePolicy := policy
		classifications[domain] = decision.Classification{
			Score:      score,
			Band:       bandFor(score, thresholds),
			Thresholds: &effectiveThresholds,
			Policy:     &effectivePolicy,
		}
	}
	return classifications
}
