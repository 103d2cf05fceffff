package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"yield-radar/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defiLlamaBaseURL = "https://yields.llama.fi"

// DefiLlamaProvider fetches yield pool data from the DefiLlama free API.
type DefiLlamaProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewDefiLlamaProvider creates a new provider with built-in rate limiting.
// The pools endpoint returns the full dataset in one call, so a token
// every 10 seconds is plenty.
func NewDefiLlamaProvider(tracer trace.Tracer) *DefiLlamaProvider {
	return &DefiLlamaProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: defiLlamaBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(6, 10*time.Second),
	}
}

// FetchPools fetches all yield pools. Records with a missing apy or
// tvlUsd field are kept here and dropped later by the classifier.
func (p *DefiLlamaProvider) FetchPools(ctx context.Context) ([]domain.RawPool, error) {
	ctx, span := p.tracer.Start(ctx, "defillama.fetch-pools")
	defer span.End()

	body, err := p.doRequest(ctx, p.baseURL+"/pools")
	if err != nil {
		return nil, fmt.Errorf("fetch pools: %w", err)
	}

	// Response shape: {"status": "success", "data": [{"chain": "Ethereum",
	// "project": "lido", "symbol": "STETH", "tvlUsd": 1.4e10, "apy": 3.1,
	// "pool": "747c1d2a-..."}, ...]}
	var raw struct {
		Data []domain.RawPool `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse pools: %w", err)
	}

	span.SetAttributes(attribute.Int("pools.count", len(raw.Data)))
	return raw.Data, nil
}

func (p *DefiLlamaProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("defillama API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
