package scanner

import (
	"sort"
	"strings"

	"yield-radar/internal/domain"
)

// Classify applies the threshold rules to a single raw pool record and
// returns the classified opportunity. ok is false when the record is
// malformed or fails a filter. Classification is pure: the same record
// and params always produce the same opportunity.
func Classify(raw domain.RawPool, params domain.ScanParams) (domain.Opportunity, bool) {
	if raw.APY == nil || raw.TVLUSD == nil {
		return domain.Opportunity{}, false
	}

	apy := *raw.APY
	tvl := *raw.TVLUSD
	project := strings.ToLower(strings.TrimSpace(raw.Project))
	chain := strings.ToLower(strings.TrimSpace(raw.Chain))
	if chain == "" {
		chain = "n/a"
	}

	if apy < params.MinAPY || tvl < params.MinTVLUSD {
		return domain.Opportunity{}, false
	}
	if !params.ChainAllowed(chain) {
		return domain.Opportunity{}, false
	}

	risk := RiskScore(apy, tvl, project)

	symbol := strings.TrimSpace(raw.Symbol)
	if symbol == "" {
		symbol = "N/A"
	}

	return domain.Opportunity{
		Project:  project,
		Chain:    chain,
		Symbol:   symbol,
		PoolID:   raw.PoolID,
		Category: CategoryFor(project),
		APY:      apy,
		TVLUSD:   tvl,
		Risk:     risk,
		ROR:      apy * risk.Factor(),
	}, true
}

// RiskScore maps APY/TVL bands to a risk label. Focus protocols are
// always low risk.
func RiskScore(apy, tvl float64, project string) domain.RiskLevel {
	if domain.FocusProtocols[strings.ToLower(project)] {
		return domain.RiskLow
	}
	switch {
	case tvl > 50_000_000 && apy < 15:
		return domain.RiskLow
	case tvl >= 5_000_000 && tvl <= 50_000_000 && apy >= 15 && apy <= 50:
		return domain.RiskMedium
	case tvl < 5_000_000 || apy > 50:
		return domain.RiskHigh
	default:
		return domain.RiskMedium
	}
}

// categoryKeys is the substring lookup order: longest keys first so
// "aave-v3" wins over "aave".
var categoryKeys = func() []string {
	keys := make([]string, 0, len(domain.CategoryByProject))
	for k := range domain.CategoryByProject {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// CategoryFor resolves a protocol name to its category. Exact match
// first, then substring match against the fixed table.
func CategoryFor(project string) domain.Category {
	project = strings.ToLower(strings.TrimSpace(project))
	if cat, ok := domain.CategoryByProject[project]; ok {
		return cat
	}
	for _, key := range categoryKeys {
		if strings.Contains(project, key) {
			return domain.CategoryByProject[key]
		}
	}
	return domain.CategoryUnknown
}

// ClassifyAll classifies a batch, silently dropping records that fail.
// seen reports how many raw records were considered.
func ClassifyAll(raws []domain.RawPool, params domain.ScanParams) (opps []domain.Opportunity, seen int) {
	for _, raw := range raws {
		seen++
		if opp, ok := Classify(raw, params); ok {
			opps = append(opps, opp)
		}
	}
	return opps, seen
}
