package scanner

import (
	"sort"
	"strings"
	"time"

	"yield-radar/internal/domain"
)

const (
	bucketSize    = 10
	topPicksCount = 5
)

// SortKey returns the ranking value for an opportunity under a sort mode.
func SortKey(o domain.Opportunity, mode domain.SortMode) float64 {
	switch mode {
	case domain.SortByAPY, domain.SortByAPR:
		return o.APY
	case domain.SortByTVL:
		return o.TVLUSD
	default:
		return o.ROR
	}
}

// Bucketize splits classified opportunities into the four dashboard
// buckets. Focus protocols land in the focus bucket; everything else is
// split long-term (low risk) vs short-term. Layer-2 chains additionally
// appear in the layer2 bucket. Each bucket is sorted descending by the
// sort mode and capped.
func Bucketize(opps []domain.Opportunity, mode domain.SortMode, fetchedAt time.Time) domain.ScanResult {
	result := domain.ScanResult{FetchedAt: fetchedAt}

	for _, opp := range opps {
		focus := domain.FocusProtocols[strings.ToLower(opp.Project)]
		switch {
		case focus:
			result.Focus = append(result.Focus, opp)
		case opp.Risk == domain.RiskLow:
			result.LongTerm = append(result.LongTerm, opp)
		default:
			result.ShortTerm = append(result.ShortTerm, opp)
		}
		if domain.Layer2Chains[opp.Chain] {
			result.Layer2 = append(result.Layer2, opp)
		}
	}

	result.Focus = topByKey(result.Focus, mode, bucketSize)
	result.LongTerm = topByKey(result.LongTerm, mode, bucketSize)
	result.ShortTerm = topByKey(result.ShortTerm, mode, bucketSize)
	result.Layer2 = topByKey(result.Layer2, mode, bucketSize)

	return result
}

// TopPicks returns the highest-ROR opportunities across all buckets.
func TopPicks(result domain.ScanResult) []domain.Opportunity {
	all := result.All()
	sorted := make([]domain.Opportunity, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ROR > sorted[j].ROR })
	if len(sorted) > topPicksCount {
		sorted = sorted[:topPicksCount]
	}
	return sorted
}

func topByKey(opps []domain.Opportunity, mode domain.SortMode, limit int) []domain.Opportunity {
	sort.SliceStable(opps, func(i, j int) bool {
		return SortKey(opps[i], mode) > SortKey(opps[j], mode)
	})
	if len(opps) > limit {
		opps = opps[:limit]
	}
	return opps
}
