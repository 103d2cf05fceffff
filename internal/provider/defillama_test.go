package provider

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
	}
}

func TestDefiLlamaFetchPools(t *testing.T) {
	t.Parallel()

	provider := NewDefiLlamaProvider(trace.NewNoopTracerProvider().Tracer("test"))
	provider.baseURL = "http://example"
	provider.limiter = NewRateLimiter(10, time.Millisecond)
	provider.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if !strings.HasSuffix(req.URL.Path, "/pools") {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			return jsonResponse(http.StatusOK, `{
				"status": "success",
				"data": [
					{"chain": "Ethereum", "project": "lido", "symbol": "STETH", "tvlUsd": 14000000000, "apy": 3.1, "pool": "p1"},
					{"chain": "Solana", "project": "raydium", "symbol": "SOL-USDC", "tvlUsd": 2000000, "apy": null, "pool": "p2"}
				]
			}`), nil
		}),
	}

	pools, err := provider.FetchPools(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pools) != 2 {
		t.Fatalf("expected 2 pools, got %d", len(pools))
	}
	if pools[0].Project != "lido" || pools[0].APY == nil || *pools[0].APY != 3.1 {
		t.Fatalf("unexpected first pool: %+v", pools[0])
	}
	if pools[1].APY != nil {
		t.Fatalf("null apy should decode to nil, got %v", *pools[1].APY)
	}
}

func TestDefiLlamaFetchPoolsAPIError(t *testing.T) {
	t.Parallel()

	provider := NewDefiLlamaProvider(trace.NewNoopTracerProvider().Tracer("test"))
	provider.baseURL = "http://example"
	provider.limiter = NewRateLimiter(10, time.Millisecond)
	provider.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusTooManyRequests, `slow down`), nil
		}),
	}

	if _, err := provider.FetchPools(context.Background()); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestDefiLlamaFetchPoolsBadJSON(t *testing.T) {
	t.Parallel()

	provider := NewDefiLlamaProvider(trace.NewNoopTracerProvider().Tracer("test"))
	provider.baseURL = "http://example"
	provider.limiter = NewRateLimiter(10, time.Millisecond)
	provider.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"data": "not-a-list"`), nil
		}),
	}

	if _, err := provider.FetchPools(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}
