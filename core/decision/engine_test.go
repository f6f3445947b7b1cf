package decision_test

import (
	"strings"
	"testing"

	"github.com/davidahmann/verdict/core/decision"
	coreerrors "github.com/davidahmann/verdict/core/errors"
	"github.com/davidahmann/verdict/core/pipeline"
)

func newEngine(t *testing.T, auditor decision.Auditor) decision.Engine {
	t.Helper()
	classifier, err := pipeline.NewFixedClassifier(20, 45)
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	return decision.Engine{
		Scorer:     pipeline.BasicScorer{},
		Aggregator: pipeline.BasicAggregator{},
		Classifier: classifier,
		Rules:      pipeline.BasicRules{},
		Explainer:  pipeline.NewExplainer(pipeline.DefaultTopN),
		Auditor:    auditor,
	}
}

func scenarioPayload() decision.Payload {
	return decision.Payload{
		IndicatorDetails: map[string]decision.IndicatorDetail{
			"i1": {Domain: "design_maturity", Category: "unvalidated_assumptions"},
			"i2": {Domain: "regulatory_compliance", Category: "documentation_gaps"},
		},
		LocalScores: map[string]float64{"i1": 10, "i2": 50},
	}
}

func TestRunEndToEndScenario(t *testing.T) {
	engine := newEngine(t, pipeline.NewAuditor(""))
	ctx := decision.Context{DecisionID: "d-1", Title: "Launch review", Activity: "product_design", Stage: "design"}

	output, err := engine.Run(ctx, scenarioPayload())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if output.Overall != decision.LevelReject {
		t.Fatalf("expected overall reject, got %s", output.Overall)
	}
	design := output.PerDomain["design_maturity"]
	if design.Level != decision.LevelApprove || design.Classification != decision.BandLow {
		t.Fatalf("unexpected design_maturity decision: %#v", design)
	}
	regulatory := output.PerDomain["regulatory_compliance"]
	if regulatory.Level != decision.LevelReject || regulatory.Classification != decision.BandHigh {
		t.Fatalf("unexpected regulatory_compliance decision: %#v", regulatory)
	}

	priorityOne := 0
	for _, action := range output.RequiredActions {
		if action.Priority == 1 && strings.Contains(action.Action, "regulatory_compliance") {
			priorityOne++
		}
		if action.Owner != "TBC" || action.TargetDate != "TBC" {
			t.Fatalf("expected TBC defaults on actions, got %#v", action)
		}
	}
	if priorityOne != 1 {
		t.Fatalf("expected one priority-1 action referencing regulatory_compliance, got %d", priorityOne)
	}

	if output.Fingerprint == nil || output.Fingerprint.InputHash == "" || output.Fingerprint.ConfigHash == "" {
		t.Fatalf("expected fingerprint set, got %#v", output.Fingerprint)
	}
	if len(output.AuditTrail) != 3 {
		t.Fatalf("expected 3 audit entries, got %d", len(output.AuditTrail))
	}
	if output.DomainScores["design_maturity"].Score != 10 || output.DomainScores["regulatory_compliance"].Score != 50 {
		t.Fatalf("unexpected domain scores: %#v", output.DomainScores)
	}
	if output.CategoryScores["documentation_gaps"] != 50 {
		t.Fatalf("unexpected category scores: %#v", output.CategoryScores)
	}
}

func TestRunDeterministicFingerprints(t *testing.T) {
	engine := newEngine(t, pipeline.NewAuditor("risk-decision"))
	ctx := decision.Context{DecisionID: "d-2", Title: "Repeat", Activity: "audit", Stage: "production"}

	first, err := engine.Run(ctx, scenarioPayload())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := engine.Run(ctx, scenarioPayload())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first.Fingerprint.InputHash != second.Fingerprint.InputHash {
		t.Fatalf("input hash must be byte-identical across identical runs")
	}
	if first.Fingerprint.ConfigHash != second.Fingerprint.ConfigHash {
		t.Fatalf("config hash must be byte-identical across identical runs")
	}
}

func TestRunWithoutAuditor(t *testing.T) {
	engine := newEngine(t, nil)
	output, err := engine.Run(decision.Context{DecisionID: "d-3"}, scenarioPayload())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if output.Fingerprint != nil {
		t.Fatalf("expected no fingerprint without an auditor")
	}
	if len(output.AuditTrail) != 0 {
		t.Fatalf("expected empty audit trail, got %#v", output.AuditTrail)
	}
	if output.Overall != decision.LevelReject {
		t.Fatalf("decision must not depend on audit configuration, got %s", output.Overall)
	}
}

func TestRunEmptyPayloadDegradesGracefully(t *testing.T) {
	engine := newEngine(t, pipeline.NewAuditor(""))
	output, err := engine.Run(decision.Context{DecisionID: "d-4"}, decision.Payload{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if output.Overall != decision.LevelApprove {
		t.Fatalf("empty payload should approve by absence of risk, got %s", output.Overall)
	}
	if len(output.PerDomain) != 0 || len(output.DomainScores) != 0 {
		t.Fatalf("expected empty results, got %#v", output)
	}
}

func TestRunWarnsOnOrphanScores(t *testing.T) {
	engine := newEngine(t, nil)
	payload := decision.Payload{
		LocalScores: map[string]float64{"ghost": 99},
	}
	output, err := engine.Run(decision.Context{DecisionID: "d-5"}, payload)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(output.Warnings) != 1 || !strings.Contains(output.Warnings[0], "ghost") {
		t.Fatalf("expected orphan score warning, got %#v", output.Warnings)
	}
	if len(output.DomainScores) != 0 {
		t.Fatalf("orphan scores must not create aggregation groups")
	}
}

func TestRunMissingStageFailsFast(t *testing.T) {
	engine := newEngine(t, nil)
	engine.Rules = nil
	_, err := engine.Run(decision.Context{}, decision.Payload{})
	if err == nil {
		t.Fatalf("expected error for incomplete engine")
	}
	if coreerrors.CategoryOf(err) != coreerrors.CategoryConfigInvalid {
		t.Fatalf("unexpected category: %s", coreerrors.CategoryOf(err))
	}
}

func TestRunMonotonicityAcrossThreshold(t *testing.T) {
	engine := newEngine(t, nil)
	levels := make([]decision.Level, 0, 3)
	for _, score := range []float64{10, 30, 60} {
		payload := decision.Payload{
			IndicatorDetails: map[string]decision.IndicatorDetail{"i1": {Domain: "manufacturing"}},
			LocalScores:      map[string]float64{"i1": score},
		}
		output, err := engine.Run(decision.Context{DecisionID: "d-6"}, payload)
		if err != nil {
			t.Fatalf("run score=%v: %v", score, err)
		}
		levels = append(levels, output.Overall)
	}
	for i := 1; i < len(levels); i++ {
		if levels[i].Rank() < levels[i-1].Rank() {
			t.Fatalf("overall level decreased as score increased: %#v", levels)
		}
	}
}
