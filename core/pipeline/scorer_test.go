package pipeline

import (
	"testing"

	"github.com/davidahmann/verdict/core/decision"
)

func TestBasicScorerCopiesPayload(t *testing.T) {
	payload := decision.Payload{
		IndicatorDetails: map[string]decision.IndicatorDetail{
			"i1": {Domain: "manufacturing", Category: "qc_gaps"},
		},
		LocalScores: map[string]float64{"i1": 12.5},
	}

	scoreSet, err := BasicScorer{}.Score(payload)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if len(scoreSet.IndicatorDetails) != 1 || len(scoreSet.LocalScores) != 1 {
		t.Fatalf("scorer must not drop or invent indicators: %#v", scoreSet)
	}
	if scoreSet.LocalScores["i1"] != 12.5 {
		t.Fatalf("unexpected score: %v", scoreSet.LocalScores["i1"])
	}

	// Mutating the canonical copy must not touch the caller's payload.
	scoreSet.LocalScores["i1"] = 99
	if payload.LocalScores["i1"] != 12.5 {
		t.Fatalf("scorer must copy, not alias, the caller maps")
	}
}

func TestBasicScorerNilMaps(t *testing.T) {
	scoreSet, err := BasicScorer{}.Score(decision.Payload{})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if scoreSet.IndicatorDetails == nil || scoreSet.LocalScores == nil {
		t.Fatalf("nil payload maps must degrade to empty maps")
	}
}

func TestResponseScorerDerivesFromResponses(t *testing.T) {
	scorer, err := NewResponseScorer(1, 5)
	if err != nil {
		t.Fatalf("new scorer: %v", err)
	}
	payload := decision.Payload{
		IndicatorDetails: map[string]decision.IndicatorDetail{
			"i1": {Domain: "supply_chain", Metadata: map[string]any{"likelihood": 5.0, "impact": 5.0}},
			"i2": {Domain: "supply_chain", Metadata: map[string]any{"likelihood": 3.0, "impact": 3.0}},
			"i3": {Domain: "supply_chain"},
		},
		LocalScores: map[string]float64{"i3": 42},
	}

	scoreSet, err := scorer.Score(payload)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if scoreSet.LocalScores["i1"] != 100 {
		t.Fatalf("max responses should score 100, got %v", scoreSet.LocalScores["i1"])
	}
	if scoreSet.LocalScores["i2"] != 25 {
		t.Fatalf("mid responses (0.5*0.5*100) should score 25, got %v", scoreSet.LocalScores["i2"])
	}
	if scoreSet.LocalScores["i3"] != 42 {
		t.Fatalf("indicator without responses keeps its supplied score, got %v", scoreSet.LocalScores["i3"])
	}
}

func TestResponseScorerClampsOutOfScale(t *testing.T) {
	scorer, err := NewResponseScorer(1, 5)
	if err != nil {
		t.Fatalf("new scorer: %v", err)
	}
	payload := decision.Payload{
		IndicatorDetails: map[string]decision.IndicatorDetail{
			"i1": {Domain: "manufacturing", Metadata: map[string]any{"likelihood": 9.0, "impact": 0.0}},
		},
	}
	scoreSet, err := scorer.Score(payload)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if scoreSet.LocalScores["i1"] != 0 {
		t.Fatalf("clamped impact of 0 should zero the score, got %v", scoreSet.LocalScores["i1"])
	}
}

func TestNewResponseScorerInvalidScale(t *testing.T) {
	if _, err := NewResponseScorer(5, 5); err == nil {
		t.Fatalf("expected error for degenerate scale")
	}
}
