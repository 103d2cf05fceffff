package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"yield-radar/internal/domain"
	"yield-radar/internal/scanner"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

func f64(v float64) *float64 { return &v }

func testPools() []domain.RawPool {
	return []domain.RawPool{
		{Project: "aave-v3", Chain: "Ethereum", Symbol: "USDC", PoolID: "p1", APY: f64(12.5), TVLUSD: f64(60_000_000)},
		{Project: "uniswap-v3", Chain: "Arbitrum", Symbol: "ETH-USDC", PoolID: "p2", APY: f64(35), TVLUSD: f64(8_000_000)},
		{Project: "some-farm", Chain: "Base", Symbol: "DEGEN", PoolID: "p3", APY: f64(120), TVLUSD: f64(900_000)},
		{Project: "dust-pool", Chain: "Ethereum", Symbol: "DUST", PoolID: "p4", APY: f64(3), TVLUSD: f64(1_000_000)},
	}
}

type mockPoolProvider struct {
	pools []domain.RawPool
	err   error
	calls int
}

func (m *mockPoolProvider) FetchPools(ctx context.Context) ([]domain.RawPool, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.pools, nil
}

type mockPairProvider struct {
	pairs map[string][]domain.RawPair
	errOn string
}

func (m *mockPairProvider) SearchPairs(ctx context.Context, query string) ([]domain.RawPair, error) {
	if query == m.errOn {
		return nil, errors.New("search unavailable")
	}
	return m.pairs[query], nil
}

type mockSnapshotStore struct {
	inserted int
	lastSeen int
}

func (m *mockSnapshotStore) Insert(ctx context.Context, result domain.ScanResult, poolsSeen int, topPicks []domain.Opportunity) error {
	m.inserted++
	m.lastSeen = poolsSeen
	return nil
}

func (m *mockSnapshotStore) Recent(ctx context.Context, limit int) ([]domain.ScanSnapshot, error) {
	return nil, nil
}

func newTestScanService(pools *mockPoolProvider, pairs *mockPairProvider, snapshots SnapshotStore, rc RedisClient) *ScanService {
	return NewScanService(testTracer, pools, pairs, snapshots, rc, domain.DefaultScanParams(), 100_000)
}

func TestScanService_RefreshScanClassifiesAndCaches(t *testing.T) {
	t.Parallel()

	provider := &mockPoolProvider{pools: testPools()}
	snapshots := &mockSnapshotStore{}
	rc := newFakeRedis()
	svc := newTestScanService(provider, &mockPairProvider{}, snapshots, rc)

	result, err := svc.RefreshScan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Focus) == 0 {
		t.Fatal("expected aave-v3 and uniswap-v3 in the focus bucket")
	}
	if result.FetchedAt.IsZero() {
		t.Fatal("refreshed scan should carry a fetch timestamp")
	}
	for _, o := range result.All() {
		if o.Project == "dust-pool" {
			t.Fatal("pool below APY cutoff should have been dropped")
		}
	}
	if _, ok := rc.data[scanCacheKey]; !ok {
		t.Fatal("scan result not cached")
	}
	if snapshots.inserted != 1 || snapshots.lastSeen != 4 {
		t.Fatalf("expected one snapshot with 4 pools seen, got inserted=%d seen=%d", snapshots.inserted, snapshots.lastSeen)
	}
}

func TestScanService_RefreshScanWithoutSnapshotStore(t *testing.T) {
	t.Parallel()

	provider := &mockPoolProvider{pools: testPools()}
	svc := newTestScanService(provider, &mockPairProvider{}, nil, newFakeRedis())

	result, err := svc.RefreshScan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Focus) == 0 {
		t.Fatal("expected focus opportunities even with snapshots disabled")
	}
}

func TestScanService_GetScanCacheHit(t *testing.T) {
	t.Parallel()

	cached := domain.ScanResult{
		Focus:     []domain.Opportunity{{Project: "aave-v3", Chain: "ethereum", APY: 10, ROR: 10}},
		FetchedAt: time.Now().UTC(),
	}
	data, _ := json.Marshal(cached)
	rc := newFakeRedis()
	_ = rc.Set(context.Background(), scanCacheKey, data, 0)

	provider := &mockPoolProvider{pools: testPools()}
	svc := newTestScanService(provider, &mockPairProvider{}, nil, rc)

	got, err := svc.GetScan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Focus) != 1 || got.Focus[0].Project != "aave-v3" {
		t.Fatalf("unexpected cached result: %+v", got)
	}
	if provider.calls != 0 {
		t.Fatalf("cache hit should not fetch, got %d calls", provider.calls)
	}
}

func TestScanService_GetScanProviderFailureYieldsEmpty(t *testing.T) {
	t.Parallel()

	provider := &mockPoolProvider{err: errors.New("aggregator down")}
	svc := newTestScanService(provider, &mockPairProvider{}, nil, newFakeRedis())

	got, err := svc.GetScan(context.Background())
	if err != nil {
		t.Fatalf("provider failure should not surface as error: %v", err)
	}
	if len(got.All()) != 0 {
		t.Fatalf("expected empty result, got %d opportunities", len(got.All()))
	}
}

func TestScanService_ScanWithParamsBypassesCache(t *testing.T) {
	t.Parallel()

	rc := newFakeRedis()
	stale := domain.ScanResult{Focus: []domain.Opportunity{{Project: "stale"}}}
	data, _ := json.Marshal(stale)
	_ = rc.Set(context.Background(), scanCacheKey, data, 0)

	provider := &mockPoolProvider{pools: testPools()}
	svc := newTestScanService(provider, &mockPairProvider{}, nil, rc)

	params := domain.DefaultScanParams()
	params.MinAPY = 100
	got, err := svc.ScanWithParams(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("expected a fresh fetch, got %d calls", provider.calls)
	}
	for _, o := range got.All() {
		if o.APY < 100 {
			t.Fatalf("opportunity below the override cutoff: %+v", o)
		}
	}
}

func TestScanService_TopPicksRankedByROR(t *testing.T) {
	t.Parallel()

	provider := &mockPoolProvider{pools: testPools()}
	svc := newTestScanService(provider, &mockPairProvider{}, nil, newFakeRedis())

	picks, err := svc.TopPicks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(picks) == 0 {
		t.Fatal("expected at least one top pick")
	}
	for i := 1; i < len(picks); i++ {
		if picks[i].ROR > picks[i-1].ROR {
			t.Fatalf("picks not sorted by ROR desc at %d", i)
		}
	}
}

func TestScanService_GetMemePairsSkipsFailedQueries(t *testing.T) {
	t.Parallel()

	pairs := map[string][]domain.RawPair{
		"pepe": {
			{ChainID: "ethereum", BaseSymbol: "PEPE", PriceUSD: "0.00001",
				LiquidityUSD: 5_000_000, Volume24hUSD: 2_000_000, Change24hPct: 4.2},
		},
	}
	provider := &mockPairProvider{pairs: pairs, errOn: "doge"}
	svc := newTestScanService(&mockPoolProvider{}, provider, nil, newFakeRedis())

	got, err := svc.GetMemePairs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "PEPE" {
		t.Fatalf("unexpected meme pairs: %+v", got)
	}
	if len(got) > scanner.MaxMemePairs {
		t.Fatalf("meme pairs exceed cap: %d", len(got))
	}
}

func TestScanService_GetMemePairsCacheHit(t *testing.T) {
	t.Parallel()

	cached := []domain.MemePair{{Symbol: "BONK", Chain: "solana"}}
	data, _ := json.Marshal(cached)
	rc := newFakeRedis()
	_ = rc.Set(context.Background(), memeCacheKey, data, 0)

	provider := &mockPairProvider{errOn: "pepe"}
	svc := newTestScanService(&mockPoolProvider{}, provider, nil, rc)

	got, err := svc.GetMemePairs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "BONK" {
		t.Fatalf("unexpected cached pairs: %+v", got)
	}
}

type fakeRedis struct {
	data   map[string][]byte
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = append([]byte(nil), v...)
	case string:
		f.data[key] = []byte(v)
	default:
		bytes, _ := json.Marshal(v)
		f.data[key] = bytes
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}
