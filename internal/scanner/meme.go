package scanner

import (
	"sort"
	"strings"

	"yield-radar/internal/domain"
)

const (
	memePairsPerQuery = 3
	// MaxMemePairs caps the combined meme scan result.
	MaxMemePairs = 12
	// volume must be at least this fraction of liquidity to count as live
	minVolumeToLiquidity = 0.1
)

// ClassifyMemePair filters and labels one DEX pair. ok is false when the
// pair's chain is not tracked or its liquidity/volume fail the cutoffs.
func ClassifyMemePair(raw domain.RawPair, minLiquidityUSD float64) (domain.MemePair, bool) {
	chain := domain.DexChainName[strings.ToLower(strings.TrimSpace(raw.ChainID))]
	if chain == "" {
		chain = strings.ToLower(strings.TrimSpace(raw.ChainID))
	}
	if !domain.MemeChains[chain] {
		return domain.MemePair{}, false
	}

	if raw.LiquidityUSD < minLiquidityUSD || raw.Volume24hUSD < minVolumeToLiquidity*raw.LiquidityUSD {
		return domain.MemePair{}, false
	}

	risk := domain.RiskMedium
	switch {
	case raw.Change24hPct > 0 && raw.LiquidityUSD > 1_000_000:
		risk = domain.RiskLow
	case raw.Change24hPct < -30:
		risk = domain.RiskHigh
	}

	symbol := strings.TrimSpace(raw.BaseSymbol)
	if symbol == "" {
		symbol = "?"
	}
	price := strings.TrimSpace(raw.PriceUSD)
	if price == "" {
		price = "N/A"
	}

	return domain.MemePair{
		Symbol:       symbol,
		Chain:        chain,
		PriceUSD:     price,
		LiquidityUSD: raw.LiquidityUSD,
		Volume24hUSD: raw.Volume24hUSD,
		Change24hPct: raw.Change24hPct,
		Risk:         risk,
	}, true
}

// SelectMemePairs classifies one query's pairs and keeps the top entries
// by 24h volume.
func SelectMemePairs(raws []domain.RawPair, minLiquidityUSD float64) []domain.MemePair {
	var pairs []domain.MemePair
	for _, raw := range raws {
		if pair, ok := ClassifyMemePair(raw, minLiquidityUSD); ok {
			pairs = append(pairs, pair)
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Volume24hUSD > pairs[j].Volume24hUSD
	})
	if len(pairs) > memePairsPerQuery {
		pairs = pairs[:memePairsPerQuery]
	}
	return pairs
}
