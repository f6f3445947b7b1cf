package pipeline

import (
	"math"
	"sort"

	"github.com/davidahmann/verdict/core/decision"
)

// DefaultTopN caps contributor lists at five indicators per domain.
const DefaultTopN = 5

// BasicExplainer collects every indicator mapped to a domain and keeps the
// strongest contributors by absolute score. Ties break by indicator id
// ascending so explanations are reproducible.
type BasicExplainer struct {
	topN int
}

func NewExplainer(topN int) BasicExplainer {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return BasicExplainer{topN: topN}
}

func (e BasicExplainer) Explain(_ map[string]decision.Classification, details map[string]decision.IndicatorDetail, scores map[string]float64) map[string][]decision.Contributor {
	byDomain := map[string][]decision.Contributor{}
	for indicatorID, detail := range details {
		if detail.Domain == "" {
			continue
		}
		byDomain[detail.Domain] = append(byDomain[detail.Domain], decision.Contributor{
			IndicatorID: indicatorID,
			Score:       scores[indicatorID],
			Category:    detail.Category,
		})
	}

	for domain, contributors := range byDomain {
		sort.Slice(contributors, func(i, j int) bool {
			left := math.Abs(contributors[i].Score)
			right := math.Abs(contributors[j].Score)
			if left != right {
				return left > right
			}
			return contributors[i].IndicatorID < contributors[j].IndicatorID
		})
		if len(contributors) > e.topN {
			contributors = contributors[:e.topN]
		}
		byDomain[domain] = contributors
	}
	return byDomain
}
