package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"yield-radar/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const dexScreenerBaseURL = "https://api.dexscreener.com"

// DexScreenerProvider searches DEX pairs on the DexScreener free API.
type DexScreenerProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewDexScreenerProvider creates a provider rate limited well under the
// documented 300 requests per minute.
func NewDexScreenerProvider(tracer trace.Tracer) *DexScreenerProvider {
	return &DexScreenerProvider{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: dexScreenerBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(60, time.Second),
	}
}

// SearchPairs runs a pair search and flattens the nested response into
// RawPair records. Pairs missing liquidity or volume come back as zeros
// and are filtered out by the meme classifier.
func (p *DexScreenerProvider) SearchPairs(ctx context.Context, query string) ([]domain.RawPair, error) {
	ctx, span := p.tracer.Start(ctx, "dexscreener.search-pairs")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	endpoint := fmt.Sprintf("%s/latest/dex/search?q=%s", p.baseURL, url.QueryEscape(query))

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search pairs %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("dexscreener API error %d: %s", resp.StatusCode, string(body))
	}

	var raw struct {
		Pairs []struct {
			ChainID   string `json:"chainId"`
			PriceUSD  string `json:"priceUsd"`
			BaseToken struct {
				Symbol string `json:"symbol"`
			} `json:"baseToken"`
			Liquidity struct {
				USD float64 `json:"usd"`
			} `json:"liquidity"`
			Volume struct {
				H24 float64 `json:"h24"`
			} `json:"volume"`
			PriceChange struct {
				H24 float64 `json:"h24"`
			} `json:"priceChange"`
		} `json:"pairs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse pairs for %q: %w", query, err)
	}

	pairs := make([]domain.RawPair, 0, len(raw.Pairs))
	for _, rp := range raw.Pairs {
		pairs = append(pairs, domain.RawPair{
			ChainID:      rp.ChainID,
			BaseSymbol:   rp.BaseToken.Symbol,
			PriceUSD:     rp.PriceUSD,
			LiquidityUSD: rp.Liquidity.USD,
			Volume24hUSD: rp.Volume.H24,
			Change24hPct: rp.PriceChange.H24,
		})
	}

	span.SetAttributes(attribute.Int("pairs.count", len(pairs)))
	return pairs, nil
}
