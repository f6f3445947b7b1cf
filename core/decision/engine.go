package decision

import (
	"fmt"
	"sort"

	coreerrors "github.com/davidahmann/verdict/core/errors"
)

// Scorer normalizes the raw payload into a canonical score set. It must not
// drop or invent indicators.
type Scorer interface {
	Score(payload Payload) (ScoreSet, error)
}

// Aggregator rolls indicator-level scores up into per-domain and per-category
// means.
type Aggregator interface {
	Aggregate(details map[string]IndicatorDetail, scores map[string]float64) Rollup
}

// Classifier maps each domain score to an ordinal risk band.
type Classifier interface {
	Classify(domainScores map[string]float64) map[string]Classification
}

// Rules converts classifications into per-domain and overall decisions with
// rationale and required actions.
type Rules interface {
	Decide(classifications map[string]Classification) Ruling
}

// Explainer selects the top contributing indicators per domain.
type Explainer interface {
	Explain(classifications map[string]Classification, details map[string]IndicatorDetail, scores map[string]float64) map[string][]Contributor
}

// Auditor assembles the audit trail and fingerprint set from all prior stage
// outputs.
type Auditor interface {
	BuildAudit(output Output, parts RawParts) (Audit, error)
}

// Engine composes the pipeline stages. It depends only on the stage
// interfaces; every field except Auditor is required. A nil Auditor is a
// supported configuration: the output then carries an empty trail and no
// fingerprint.
type Engine struct {
	Scorer     Scorer
	Aggregator Aggregator
	Classifier Classifier
	Rules      Rules
	Explainer  Explainer
	Auditor    Auditor
}

// Run executes Scorer, Aggregator, Classifier, Rules, Explainer and the
// optional Auditor in fixed sequence and assembles the final output. Stages
// never mutate shared state, so concurrent runs with distinct inputs are
// safe.
func (e Engine) Run(ctx Context, payload Payload) (Output, error) {
	if err := e.validate(); err != nil {
		return Output{}, err
	}

	scoreSet, err := e.Scorer.Score(payload)
	if err != nil {
		return Output{}, coreerrors.Wrap(fmt.Errorf("score payload: %w", err), coreerrors.CategoryInvalidInput, "score_failed", "check payload indicator_details and local_scores")
	}
	if scoreSet.IndicatorDetails == nil {
		scoreSet.IndicatorDetails = map[string]IndicatorDetail{}
	}
	if scoreSet.LocalScores == nil {
		scoreSet.LocalScores = map[string]float64{}
	}

	rollup := e.Aggregator.Aggregate(scoreSet.IndicatorDetails, scoreSet.LocalScores)
	classifications := e.Classifier.Classify(rollup.DomainScores)
	ruling := e.Rules.Decide(classifications)
	contributors := e.Explainer.Explain(classifications, scoreSet.IndicatorDetails, scoreSet.LocalScores)

	output := Output{
		Context:         ctx,
		Overall:         ruling.Overall,
		PerDomain:       assemblePerDomain(classifications, ruling.PerDomain, contributors),
		DomainScores:    assembleDomainScores(rollup.DomainScores, classifications),
		CategoryScores:  copyScores(rollup.CategoryScores),
		Rationale:       append([]string{}, ruling.Rationale...),
		RequiredActions: normalizeActions(ruling.RequiredActions),
		AuditTrail:      []AuditEntry{},
		Warnings:        orphanScoreWarnings(scoreSet),
	}

	if e.Auditor != nil {
		audit, err := e.Auditor.BuildAudit(output, RawParts{
			Payload:         payload,
			ScoreSet:        scoreSet,
			Rollup:          rollup,
			Classifications: classifications,
			Ruling:          ruling,
			Contributors:    contributors,
		})
		if err != nil {
			return Output{}, coreerrors.Wrap(fmt.Errorf("build audit: %w", err), coreerrors.CategoryInternalFailure, "audit_failed", "audit assembly should not fail for serializable inputs")
		}
		output.AuditTrail = audit.Trail
		fingerprint := audit.Fingerprint
		output.Fingerprint = &fingerprint
	}

	return output, nil
}

func (e Engine) validate() error {
	missing := ""
	switch {
	case e.Scorer == nil:
		missing = "scorer"
	case e.Aggregator == nil:
		missing = "aggregator"
	case e.Classifier == nil:
		missing = "classifier"
	case e.Rules == nil:
		missing = "rules"
	case e.Explainer == nil:
		missing = "explainer"
	}
	if missing == "" {
		return nil
	}
	return coreerrors.Wrap(fmt.Errorf("engine stage %s is nil", missing), coreerrors.CategoryConfigInvalid, "engine_incomplete", "construct the engine with all required stages")
}

func assemblePerDomain(classifications map[string]Classification, levels map[string]Level, contributors map[string][]Contributor) map[string]DomainDecision {
	perDomain := make(map[string]DomainDecision, len(classifications))
	for domain, classification := range classifications {
		level, ok := levels[domain]
		if !ok {
			level = LevelConditional
		}
		top := append([]Contributor{}, contributors[domain]...)
		perDomain[domain] = DomainDecision{
			Domain:          domain,
			Level:           level,
			Score:           classification.Score,
			Classification:  classification.Band,
			TopContributors: top,
		}
	}
	return perDomain
}

func assembleDomainScores(domainScores map[string]float64, classifications map[string]Classification) map[string]DomainScore {
	assembled := make(map[string]DomainScore, len(domainScores))
	for domain, score := range domainScores {
		entry := DomainScore{Score: score}
		if classification, ok := classifications[domain]; ok {
			entry.Band = classification.Band
		}
		assembled[domain] = entry
	}
	return assembled
}

func copyScores(scores map[string]float64) map[string]float64 {
	copied := make(map[string]float64, len(scores))
	for key, value := range scores {
		copied[key] = value
	}
	return copied
}

func normalizeActions(actions []ActionItem) []ActionItem {
	normalized := make([]ActionItem, 0, len(actions))
	for _, action := range actions {
		normalized = append(normalized, action.normalize())
	}
	return normalized
}

// orphanScoreWarnings flags local scores with no indicator detail. Such
// scores are kept in the score set but contribute to no aggregation group.
func orphanScoreWarnings(scoreSet ScoreSet) []string {
	orphans := make([]string, 0)
	for indicatorID := range scoreSet.LocalScores {
		if _, ok := scoreSet.IndicatorDetails[indicatorID]; !ok {
			orphans = append(orphans, indicatorID)
		}
	}
	if len(orphans) == 0 {
		return nil
	}
	sort.Strings(orphans)
	warnings := make([]string, 0, len(orphans))
	for _, indicatorID := range orphans {
		warnings = append(warnings, fmt.Sprintf("indicator %s has a local score but no detail; excluded from aggregation", indicatorID))
	}
	return warnings
}
