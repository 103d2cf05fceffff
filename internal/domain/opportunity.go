package domain

import (
	"strings"
	"time"
)

// RiskLevel labels an opportunity by the fixed APY/TVL risk bands.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func (r RiskLevel) IsValid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// Factor is the risk discount applied to APY when computing ROR.
func (r RiskLevel) Factor() float64 {
	switch r {
	case RiskLow:
		return 1.0
	case RiskMedium:
		return 0.6
	case RiskHigh:
		return 0.3
	default:
		return 0.5
	}
}

type Category string

const (
	CategoryVault   Category = "Vault / Auto-compounding"
	CategoryLending Category = "Lending / Borrowing"
	CategoryFarming Category = "Yield Farming"
	CategoryStaking Category = "Staking / Restaking"
	CategoryUnknown Category = "Unknown"
)

// Opportunity is a single classified yield position candidate.
// Values are fixed at classification time; a fresh scan builds a fresh set.
type Opportunity struct {
	Project  string    `json:"project"`
	Chain    string    `json:"chain"`
	Symbol   string    `json:"symbol"`
	PoolID   string    `json:"pool_id"`
	Category Category  `json:"category"`
	APY      float64   `json:"apy"`
	TVLUSD   float64   `json:"tvl_usd"`
	Risk     RiskLevel `json:"risk"`
	ROR      float64   `json:"ror"`
	Outlier  bool      `json:"outlier,omitempty"`
}

// RawPool is one record from the yield aggregator before classification.
// APY and TVLUSD are pointers so missing fields can be told apart from zero.
type RawPool struct {
	Project string   `json:"project"`
	Chain   string   `json:"chain"`
	Symbol  string   `json:"symbol"`
	PoolID  string   `json:"pool"`
	APY     *float64 `json:"apy"`
	TVLUSD  *float64 `json:"tvlUsd"`
}

// RawPair is one DEX pair record from the pair search API, flattened.
type RawPair struct {
	ChainID      string
	BaseSymbol   string
	PriceUSD     string
	LiquidityUSD float64
	Volume24hUSD float64
	Change24hPct float64
}

// MemePair is a classified trending meme-coin pair.
type MemePair struct {
	Symbol       string    `json:"symbol"`
	Chain        string    `json:"chain"`
	PriceUSD     string    `json:"price_usd"`
	LiquidityUSD float64   `json:"liquidity_usd"`
	Volume24hUSD float64   `json:"volume_24h_usd"`
	Change24hPct float64   `json:"change_24h_pct"`
	Risk         RiskLevel `json:"risk"`
}

type SortMode string

const (
	SortByAPY SortMode = "apy"
	SortByAPR SortMode = "apr"
	SortByTVL SortMode = "tvl"
	SortByROR SortMode = "ror"
)

func (m SortMode) IsValid() bool {
	switch m {
	case SortByAPY, SortByAPR, SortByTVL, SortByROR:
		return true
	}
	return false
}

// ScanParams holds the numeric thresholds and allow-list for one scan.
type ScanParams struct {
	MinAPY        float64  `json:"min_apy"`
	MinTVLUSD     float64  `json:"min_tvl_usd"`
	AllowedChains []string `json:"allowed_chains"`
	SortMode      SortMode `json:"sort_mode"`
}

// ChainAllowed reports whether chain passes the allow-list.
// An empty allow-list permits every supported chain.
func (p ScanParams) ChainAllowed(chain string) bool {
	chain = strings.ToLower(chain)
	if len(p.AllowedChains) == 0 {
		return SupportedChains[chain]
	}
	for _, c := range p.AllowedChains {
		if strings.ToLower(c) == chain {
			return true
		}
	}
	return false
}

func DefaultScanParams() ScanParams {
	return ScanParams{
		MinAPY:    5.0,
		MinTVLUSD: 500_000,
		SortMode:  SortByROR,
	}
}

// ScanResult holds the four opportunity buckets produced by one scan.
type ScanResult struct {
	Focus     []Opportunity `json:"focus"`
	LongTerm  []Opportunity `json:"long_term"`
	ShortTerm []Opportunity `json:"short_term"`
	Layer2    []Opportunity `json:"layer2"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// All returns every bucketed opportunity in a single slice.
// Layer2 entries also appear in one of the other buckets, so they are
// skipped to avoid double counting.
func (r ScanResult) All() []Opportunity {
	out := make([]Opportunity, 0, len(r.Focus)+len(r.LongTerm)+len(r.ShortTerm))
	out = append(out, r.Focus...)
	out = append(out, r.LongTerm...)
	out = append(out, r.ShortTerm...)
	return out
}

// SupportedChains lists the chains the scanner tracks.
var SupportedChains = map[string]bool{
	"solana":   true,
	"bsc":      true,
	"eth":      true,
	"ethereum": true,
	"sui":      true,
	"tao":      true,
	"arbitrum": true,
	"optimism": true,
	"base":     true,
}

// Layer2Chains marks chains bucketed as Layer 2.
var Layer2Chains = map[string]bool{
	"arbitrum": true,
	"optimism": true,
	"zksync":   true,
	"base":     true,
	"scroll":   true,
	"linea":    true,
}

// FocusProtocols are the protocols surfaced in the focus bucket and
// always treated as low risk.
var FocusProtocols = map[string]bool{
	"beefy":       true,
	"yearn":       true,
	"radiant":     true,
	"aave":        true,
	"aave-v3":     true,
	"venus":       true,
	"morpho":      true,
	"pancakeswap": true,
	"raydium":     true,
	"lido":        true,
	"marinade":    true,
	"eigenlayer":  true,
	"kamino":      true,
	"krystal":     true,
	"turbo":       true,
}

// CategoryByProject maps protocol names to opportunity categories.
var CategoryByProject = map[string]Category{
	"beefy":       CategoryVault,
	"yearn":       CategoryVault,
	"kamino":      CategoryVault,
	"krystal":     CategoryVault,
	"lido":        CategoryStaking,
	"marinade":    CategoryStaking,
	"eigenlayer":  CategoryStaking,
	"turbo":       CategoryFarming,
	"raydium":     CategoryFarming,
	"pancakeswap": CategoryFarming,
	"aave":        CategoryLending,
	"aave-v3":     CategoryLending,
	"venus":       CategoryLending,
	"morpho":      CategoryLending,
	"radiant":     CategoryLending,
}

// MemeChains are the chains eligible for the meme-pair scan.
var MemeChains = map[string]bool{
	"sui": true, "tao": true, "eth": true, "bsc": true,
	"sol": true, "base": true, "optimism": true, "arbitrum": true,
}

// DexChainName maps DEX screener chain identifiers to short chain names.
var DexChainName = map[string]string{
	"ethereum": "eth",
	"bsc":      "bsc",
	"solana":   "sol",
	"sui":      "sui",
	"bittensor": "tao",
	"arbitrum": "arbitrum",
	"optimism": "optimism",
	"base":     "base",
}

// MemeQueries are the fixed search terms for the meme-pair scan.
var MemeQueries = []string{"pepe", "doge", "shiba", "floki", "bonk"}
