package pipeline

import "github.com/davidahmann/verdict/core/decision"

// DefaultModelRef is the model reference recorded in fingerprints when the
// caller does not supply one.
const DefaultModelRef = "risk-decision"

// BasicAuditor fingerprints the raw payload together with the governance
// configuration (ruling plus classifications, which carry the effective
// thresholds and policy), so changing thresholds changes the config hash even
// with identical indicator data. It also records an ordered trail sufficient
// for independent replay verification.
type BasicAuditor struct {
	modelRef string
}

func NewAuditor(modelRef string) BasicAuditor {
	if modelRef == "" {
		modelRef = DefaultModelRef
	}
	return BasicAuditor{modelRef: modelRef}
}

func (a BasicAuditor) BuildAudit(output decision.Output, parts decision.RawParts) (decision.Audit, error) {
	config := map[string]any{
		"rules":          parts.Ruling,
		"classification": parts.Classifications,
	}
	fingerprint := decision.BuildFingerprints(parts.Payload, config, a.modelRef)

	perDomain := make(map[string]decision.Level, len(output.PerDomain))
	for domain, domainDecision := range output.PerDomain {
		perDomain[domain] = domainDecision.Level
	}

	trail := []decision.AuditEntry{
		{Key: "overall_decision", Value: output.Overall},
		{Key: "per_domain_decision", Value: perDomain},
		{Key: "domain_scores", Value: parts.Rollup.DomainScores},
	}

	return decision.Audit{Trail: trail, Fingerprint: fingerprint}, nil
}
