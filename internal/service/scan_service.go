package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"yield-radar/internal/domain"
	"yield-radar/internal/scanner"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const (
	scanCacheTTL = 90 * time.Second
	memeCacheTTL = 2 * time.Minute

	scanCacheKey = "scan:latest"
	memeCacheKey = "scan:meme"
)

// PoolProvider fetches raw yield pool rows from the aggregator API.
type PoolProvider interface {
	FetchPools(ctx context.Context) ([]domain.RawPool, error)
}

// PairProvider searches DEX trading pairs by free-text query.
type PairProvider interface {
	SearchPairs(ctx context.Context, query string) ([]domain.RawPair, error)
}

type SnapshotStore interface {
	Insert(ctx context.Context, result domain.ScanResult, poolsSeen int, topPicks []domain.Opportunity) error
	Recent(ctx context.Context, limit int) ([]domain.ScanSnapshot, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// ScanService orchestrates pool fetching, classification, bucketing, and caching.
type ScanService struct {
	tracer    trace.Tracer
	pools     PoolProvider
	pairs     PairProvider
	snapshots SnapshotStore
	redis     RedisClient
	params    domain.ScanParams
	minLiqUSD float64
}

func NewScanService(
	tracer trace.Tracer,
	pools PoolProvider,
	pairs PairProvider,
	snapshots SnapshotStore,
	redisClient RedisClient,
	params domain.ScanParams,
	minLiquidityUSD float64,
) *ScanService {
	return &ScanService{
		tracer:    tracer,
		pools:     pools,
		pairs:     pairs,
		snapshots: snapshots,
		redis:     redisClient,
		params:    params,
		minLiqUSD: minLiquidityUSD,
	}
}

// GetScan returns the latest bucketized scan, reading through the Redis cache.
// A provider failure on cache miss is logged and yields an empty result so
// callers can still render partial dashboards.
func (s *ScanService) GetScan(ctx context.Context) (domain.ScanResult, error) {
	ctx, span := s.tracer.Start(ctx, "scan-service.get-scan")
	defer span.End()

	if s.redis != nil {
		cached, err := s.getScanCache(ctx)
		if err != nil {
			log.Printf("redis scan cache read error: %v", err)
		}
		if cached != nil {
			return *cached, nil
		}
	}

	result, err := s.RefreshScan(ctx)
	if err != nil {
		log.Printf("Warning: scan refresh failed, serving empty result: %v", err)
		return domain.ScanResult{FetchedAt: time.Now().UTC()}, nil
	}
	return result, nil
}

// ScanWithParams fetches and classifies pools with caller-supplied thresholds,
// bypassing the cached default scan.
func (s *ScanService) ScanWithParams(ctx context.Context, params domain.ScanParams) (domain.ScanResult, error) {
	ctx, span := s.tracer.Start(ctx, "scan-service.scan-with-params")
	defer span.End()

	raw, err := s.pools.FetchPools(ctx)
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("fetch pools: %w", err)
	}

	opps, _ := scanner.ClassifyAll(raw, params)
	opps = scanner.MarkOutliers(opps)
	return scanner.Bucketize(opps, params.SortMode, time.Now().UTC()), nil
}

// RefreshScan fetches pools from the aggregator, classifies them with the
// configured thresholds, and replaces the cached scan and snapshot history.
func (s *ScanService) RefreshScan(ctx context.Context) (domain.ScanResult, error) {
	ctx, span := s.tracer.Start(ctx, "scan-service.refresh-scan")
	defer span.End()

	raw, err := s.pools.FetchPools(ctx)
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("fetch pools: %w", err)
	}

	opps, seen := scanner.ClassifyAll(raw, s.params)
	opps = scanner.MarkOutliers(opps)
	result := scanner.Bucketize(opps, s.params.SortMode, time.Now().UTC())

	if s.redis != nil {
		if err := s.setScanCache(ctx, result); err != nil {
			log.Printf("redis scan cache write error: %v", err)
		}
	}

	if s.snapshots != nil {
		picks := scanner.TopPicks(result)
		if err := s.snapshots.Insert(ctx, result, seen, picks); err != nil {
			log.Printf("Warning: failed to persist scan snapshot: %v", err)
		}
	}

	log.Printf("Refreshed scan: %d pools seen, %d focus, %d long-term, %d short-term, %d layer2",
		seen, len(result.Focus), len(result.LongTerm), len(result.ShortTerm), len(result.Layer2))
	return result, nil
}

// TopPicks returns the highest risk-adjusted opportunities from the latest scan.
func (s *ScanService) TopPicks(ctx context.Context) ([]domain.Opportunity, error) {
	result, err := s.GetScan(ctx)
	if err != nil {
		return nil, err
	}
	return scanner.TopPicks(result), nil
}

// GetMemePairs returns high-liquidity meme token pairs aggregated across the
// search queries. Queries that fail are skipped so one bad search does not
// sink the whole scan.
func (s *ScanService) GetMemePairs(ctx context.Context) ([]domain.MemePair, error) {
	ctx, span := s.tracer.Start(ctx, "scan-service.get-meme-pairs")
	defer span.End()

	if s.redis != nil {
		cached, err := s.getMemeCache(ctx)
		if err != nil {
			log.Printf("redis meme cache read error: %v", err)
		}
		if cached != nil {
			return cached, nil
		}
	}

	var pairs []domain.MemePair
	for _, query := range domain.MemeQueries {
		raw, err := s.pairs.SearchPairs(ctx, query)
		if err != nil {
			log.Printf("Warning: meme search %q failed: %v", query, err)
			continue
		}
		pairs = append(pairs, scanner.SelectMemePairs(raw, s.minLiqUSD)...)
		if len(pairs) >= scanner.MaxMemePairs {
			pairs = pairs[:scanner.MaxMemePairs]
			break
		}
	}

	if s.redis != nil && len(pairs) > 0 {
		if err := s.setMemeCache(ctx, pairs); err != nil {
			log.Printf("redis meme cache write error: %v", err)
		}
	}
	return pairs, nil
}

// History returns recent persisted scan snapshots, newest first.
func (s *ScanService) History(ctx context.Context, limit int) ([]domain.ScanSnapshot, error) {
	if s.snapshots == nil {
		return nil, nil
	}
	return s.snapshots.Recent(ctx, limit)
}

func (s *ScanService) setScanCache(ctx context.Context, result domain.ScanResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, scanCacheKey, data, scanCacheTTL).Err()
}

func (s *ScanService) getScanCache(ctx context.Context) (*domain.ScanResult, error) {
	data, err := s.redis.Get(ctx, scanCacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result domain.ScanResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ScanService) setMemeCache(ctx context.Context, pairs []domain.MemePair) error {
	data, err := json.Marshal(pairs)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, memeCacheKey, data, memeCacheTTL).Err()
}

func (s *ScanService) getMemeCache(ctx context.Context) ([]domain.MemePair, error) {
	data, err := s.redis.Get(ctx, memeCacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var pairs []domain.MemePair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}
