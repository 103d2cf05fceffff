// Command mcp exposes the opportunity scanner as MCP tools over stdio, so
// LLM clients can query live yield data without going through the HTTP API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"yield-radar/internal/cache"
	"yield-radar/internal/config"
	"yield-radar/internal/domain"
	"yield-radar/internal/provider"
	"yield-radar/internal/service"
	"yield-radar/pkg/tracing"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"
)

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	initRedisFunc  = cache.InitRedis
	initTracerFunc = tracing.InitTracer

	newDefiLlamaProviderFunc = func(tracer trace.Tracer) service.PoolProvider {
		return provider.NewDefiLlamaProvider(tracer)
	}
	newDexScreenerProviderFunc = func(tracer trace.Tracer) service.PairProvider {
		return provider.NewDexScreenerProvider(tracer)
	}
	runServerFunc = func(ctx context.Context, server *mcp.Server) error {
		return server.Run(ctx, &mcp.StdioTransport{})
	}
)

type scanArgs struct {
	MinAPY float64 `json:"min_apy,omitempty" jsonschema:"minimum APY percent, default 5"`
	MinTVL float64 `json:"min_tvl,omitempty" jsonschema:"minimum TVL in USD, default 500000"`
	Chains string  `json:"chains,omitempty" jsonschema:"comma-separated chain allow-list"`
	Sort   string  `json:"sort,omitempty" jsonschema:"sort mode: apy, apr, tvl, or ror"`
}

type emptyArgs struct{}

// Tool outputs must be JSON objects, so slice results get a wrapper.
type topPicksResult struct {
	Picks []domain.Opportunity `json:"picks"`
}

type memePairsResult struct {
	Pairs []domain.MemePair `json:"pairs"`
}

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stdout carries the MCP protocol; logs must go to stderr only.
	log.SetOutput(os.Stderr)

	os.Setenv("REDIS_URL", cfg.RedisURL)
	initRedisFunc(ctx)

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	llamaProvider := newDefiLlamaProviderFunc(tracer)
	dexProvider := newDexScreenerProviderFunc(tracer)
	scanService := service.NewScanService(tracer, llamaProvider, dexProvider, nil,
		cache.Client, cfg.ScanParams(), cfg.MinLiquidityUSD)

	server := newMCPServer(scanService)

	log.Println("MCP server listening on stdio")
	if err := runServerFunc(ctx, server); err != nil {
		log.Fatalf("MCP server stopped: %v", err)
	}
}

func newMCPServer(scans *service.ScanService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "yield-radar",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_opportunities",
		Description: "Scan DeFi yield pools and return them classified by risk into focus, long-term, short-term, and layer-2 buckets. Accepts optional APY/TVL/chain/sort overrides.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args scanArgs) (*mcp.CallToolResult, domain.ScanResult, error) {
		params, err := scanParamsFromArgs(args)
		if err != nil {
			return nil, domain.ScanResult{}, err
		}
		result, err := scans.ScanWithParams(ctx, params)
		if err != nil {
			return nil, domain.ScanResult{}, err
		}
		return nil, result, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "top_picks",
		Description: "Return the highest risk-adjusted-return yield opportunities from the latest scan.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args emptyArgs) (*mcp.CallToolResult, topPicksResult, error) {
		picks, err := scans.TopPicks(ctx)
		if err != nil {
			return nil, topPicksResult{}, err
		}
		return nil, topPicksResult{Picks: picks}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "meme_pairs",
		Description: "Return trending meme token DEX pairs that pass the liquidity and volume cutoffs.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args emptyArgs) (*mcp.CallToolResult, memePairsResult, error) {
		pairs, err := scans.GetMemePairs(ctx)
		if err != nil {
			return nil, memePairsResult{}, err
		}
		return nil, memePairsResult{Pairs: pairs}, nil
	})

	return server
}

func scanParamsFromArgs(args scanArgs) (domain.ScanParams, error) {
	params := domain.DefaultScanParams()

	if args.MinAPY < 0 || args.MinTVL < 0 {
		return params, fmt.Errorf("thresholds must be non-negative")
	}
	if args.MinAPY > 0 {
		params.MinAPY = args.MinAPY
	}
	if args.MinTVL > 0 {
		params.MinTVLUSD = args.MinTVL
	}
	if args.Chains != "" {
		for _, chain := range strings.Split(args.Chains, ",") {
			chain = strings.ToLower(strings.TrimSpace(chain))
			if chain == "" {
				continue
			}
			if !domain.SupportedChains[chain] {
				return params, fmt.Errorf("unsupported chain: %s", chain)
			}
			params.AllowedChains = append(params.AllowedChains, chain)
		}
	}
	if args.Sort != "" {
		mode := domain.SortMode(strings.ToLower(strings.TrimSpace(args.Sort)))
		if !mode.IsValid() {
			return params, fmt.Errorf("unsupported sort mode: %s", args.Sort)
		}
		params.SortMode = mode
	}

	return params, nil
}
