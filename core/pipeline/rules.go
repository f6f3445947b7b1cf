package pipeline

import (
	"fmt"
	"sort"

	"github.com/davidahmann/verdict/core/decision"
)

// BasicRules maps classification bands to decision levels: high rejects,
// medium conditions, low approves. The overall decision is the maximum
// per-domain level under reject > conditional > approve. Domains are
// processed in ascending name order so rationale and action ordering is
// stable across runs.
type BasicRules struct{}

func (BasicRules) Decide(classifications map[string]decision.Classification) decision.Ruling {
	domains := make([]string, 0, len(classifications))
	for domain := range classifications {
		domains = append(domains, domain)
	}
	sort.Strings(domains)

	perDomain := make(map[string]decision.Level, len(domains))
	rationale := make([]string, 0)
	actions := make([]decision.ActionItem, 0)
	overall := decision.LevelApprove

	for _, domain := range domains {
		switch classifications[domain].Band {
		case decision.BandHigh:
			perDomain[domain] = decision.LevelReject
			rationale = append(rationale, fmt.Sprintf("High risk detected in domain: %s", domain))
			actions = append(actions, decision.ActionItem{
				Priority:      1,
				Action:        fmt.Sprintf("Mitigate high risk in domain %s", domain),
				RelatedDomain: domain,
			})
		case decision.BandMedium:
			perDomain[domain] = decision.LevelConditional
			rationale = append(rationale, fmt.Sprintf("Medium risk requires conditions in domain: %s", domain))
			actions = append(actions, decision.ActionItem{
				Priority:      2,
				Action:        fmt.Sprintf("Reduce medium risk in domain %s", domain),
				RelatedDomain: domain,
			})
		default:
			perDomain[domain] = decision.LevelApprove
		}
		overall = decision.Escalate(overall, perDomain[domain])
	}

	return decision.Ruling{
		Overall:         overall,
		PerDomain:       perDomain,
		Rationale:       rationale,
		RequiredActions: actions,
	}
}
