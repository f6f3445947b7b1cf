package pipeline

import "github.com/davidahmann/verdict/core/decision"

// BasicAggregator computes the arithmetic mean of local scores per domain and
// per category. Indicators with no domain or category are excluded from that
// grouping only; groups with zero members are omitted from the result.
type BasicAggregator struct{}

func (BasicAggregator) Aggregate(details map[string]decision.IndicatorDetail, scores map[string]float64) decision.Rollup {
	domainSums := map[string]float64{}
	domainCounts := map[string]int{}
	categorySums := map[string]float64{}
	categoryCounts := map[string]int{}

	for indicatorID, detail := range details {
		score := scores[indicatorID]
		if detail.Domain != "" {
			domainSums[detail.Domain] += score
			domainCounts[detail.Domain]++
		}
		if detail.Category != "" {
			categorySums[detail.Category] += score
			categoryCounts[detail.Category]++
		}
	}

	return decision.Rollup{
		DomainScores:   means(domainSums, domainCounts),
		CategoryScores: means(categorySums, categoryCounts),
	}
}

func means(sums map[string]float64, counts map[string]int) map[string]float64 {
	out := make(map[string]float64, len(sums))
	for group, sum := range sums {
		out[group] = sum / float64(counts[group])
	}
	return out
}
