package pipeline

import (
	"strings"
	"testing"

	"github.com/davidahmann/verdict/core/decision"
)

func classificationsFor(bands map[string]decision.Band) map[string]decision.Classification {
	out := make(map[string]decision.Classification, len(bands))
	for domain, band := range bands {
		out[domain] = decision.Classification{Band: band}
	}
	return out
}

func TestDecideBandMapping(t *testing.T) {
	ruling := BasicRules{}.Decide(classificationsFor(map[string]decision.Band{
		"a": decision.BandLow,
		"b": decision.BandMedium,
		"c": decision.BandHigh,
	}))

	if ruling.PerDomain["a"] != decision.LevelApprove {
		t.Fatalf("low must approve, got %s", ruling.PerDomain["a"])
	}
	if ruling.PerDomain["b"] != decision.LevelConditional {
		t.Fatalf("medium must condition, got %s", ruling.PerDomain["b"])
	}
	if ruling.PerDomain["c"] != decision.LevelReject {
		t.Fatalf("high must reject, got %s", ruling.PerDomain["c"])
	}
	if ruling.Overall != decision.LevelReject {
		t.Fatalf("any high domain forces overall reject, got %s", ruling.Overall)
	}
}

func TestDecideEscalationDominance(t *testing.T) {
	bands := map[string]decision.Band{"d1": decision.BandLow, "d2": decision.BandLow, "d3": decision.BandLow, "single": decision.BandHigh}
	ruling := BasicRules{}.Decide(classificationsFor(bands))
	if ruling.Overall != decision.LevelReject {
		t.Fatalf("one high domain among lows must reject, got %s", ruling.Overall)
	}
}

func TestDecideConditionalWithoutHigh(t *testing.T) {
	ruling := BasicRules{}.Decide(classificationsFor(map[string]decision.Band{
		"d1": decision.BandMedium,
		"d2": decision.BandLow,
	}))
	if ruling.Overall != decision.LevelConditional {
		t.Fatalf("medium without high must condition, got %s", ruling.Overall)
	}
}

func TestDecideAllLowApproves(t *testing.T) {
	ruling := BasicRules{}.Decide(classificationsFor(map[string]decision.Band{"d1": decision.BandLow}))
	if ruling.Overall != decision.LevelApprove {
		t.Fatalf("all-low must approve, got %s", ruling.Overall)
	}
	if len(ruling.Rationale) != 0 || len(ruling.RequiredActions) != 0 {
		t.Fatalf("low domains produce no rationale or actions: %#v", ruling)
	}
}

func TestDecideEmptyClassifications(t *testing.T) {
	ruling := BasicRules{}.Decide(map[string]decision.Classification{})
	if ruling.Overall != decision.LevelApprove {
		t.Fatalf("no classified domains must approve, got %s", ruling.Overall)
	}
}

func TestDecideActionPriorities(t *testing.T) {
	ruling := BasicRules{}.Decide(classificationsFor(map[string]decision.Band{
		"risky":   decision.BandHigh,
		"shaky":   decision.BandMedium,
		"healthy": decision.BandLow,
	}))

	if len(ruling.RequiredActions) != 2 {
		t.Fatalf("expected one action per medium/high domain, got %#v", ruling.RequiredActions)
	}
	for _, action := range ruling.RequiredActions {
		switch action.RelatedDomain {
		case "risky":
			if action.Priority != 1 || !strings.Contains(action.Action, "risky") {
				t.Fatalf("high domain needs a priority-1 action naming it: %#v", action)
			}
		case "shaky":
			if action.Priority != 2 || !strings.Contains(action.Action, "shaky") {
				t.Fatalf("medium domain needs a priority-2 action naming it: %#v", action)
			}
		default:
			t.Fatalf("unexpected action domain: %#v", action)
		}
	}
}

func TestDecideOrderingIsStable(t *testing.T) {
	bands := map[string]decision.Band{
		"zeta":  decision.BandMedium,
		"alpha": decision.BandHigh,
		"mike":  decision.BandMedium,
	}
	first := BasicRules{}.Decide(classificationsFor(bands))
	for range 20 {
		again := BasicRules{}.Decide(classificationsFor(bands))
		for i, line := range first.Rationale {
			if again.Rationale[i] != line {
				t.Fatalf("rationale order must be stable: %#v vs %#v", first.Rationale, again.Rationale)
			}
		}
	}
	// Ascending domain name order.
	if !strings.Contains(first.Rationale[0], "alpha") || !strings.Contains(first.Rationale[1], "mike") || !strings.Contains(first.Rationale[2], "zeta") {
		t.Fatalf("expected ascending domain order, got %#v", first.Rationale)
	}
}
