package scanner

import (
	"fmt"
	"testing"
	"time"

	"yield-radar/internal/domain"
)

func opp(project, chain string, risk domain.RiskLevel, apy float64) domain.Opportunity {
	return domain.Opportunity{
		Project: project,
		Chain:   chain,
		Risk:    risk,
		APY:     apy,
		TVLUSD:  apy * 1_000_000,
		ROR:     apy * risk.Factor(),
	}
}

func TestBucketizeSplitsByRiskAndFocus(t *testing.T) {
	now := time.Now()
	opps := []domain.Opportunity{
		opp("aave", "eth", domain.RiskLow, 10),
		opp("unknownswap", "eth", domain.RiskLow, 8),
		opp("degenfarm", "bsc", domain.RiskHigh, 90),
		opp("basewap", "base", domain.RiskMedium, 20),
	}

	result := Bucketize(opps, domain.SortByROR, now)

	if len(result.Focus) != 1 || result.Focus[0].Project != "aave" {
		t.Fatalf("unexpected focus bucket: %+v", result.Focus)
	}
	if len(result.LongTerm) != 1 || result.LongTerm[0].Project != "unknownswap" {
		t.Fatalf("unexpected long-term bucket: %+v", result.LongTerm)
	}
	if len(result.ShortTerm) != 2 {
		t.Fatalf("expected 2 short-term entries, got %d", len(result.ShortTerm))
	}
	if len(result.Layer2) != 1 || result.Layer2[0].Chain != "base" {
		t.Fatalf("unexpected layer2 bucket: %+v", result.Layer2)
	}
	if !result.FetchedAt.Equal(now) {
		t.Fatalf("fetched-at not set: %v", result.FetchedAt)
	}
}

func TestBucketizeCapsAtTen(t *testing.T) {
	var opps []domain.Opportunity
	for i := 0; i < 25; i++ {
		opps = append(opps, opp(fmt.Sprintf("proto%d", i), "eth", domain.RiskLow, float64(i)))
	}

	result := Bucketize(opps, domain.SortByAPY, time.Now())
	if len(result.LongTerm) != bucketSize {
		t.Fatalf("expected bucket capped at %d, got %d", bucketSize, len(result.LongTerm))
	}
	// highest APY first after the cap
	if result.LongTerm[0].APY != 24 {
		t.Fatalf("expected top APY 24, got %f", result.LongTerm[0].APY)
	}
}

func TestBucketizeSortModes(t *testing.T) {
	opps := []domain.Opportunity{
		{Project: "a", Chain: "eth", Risk: domain.RiskHigh, APY: 100, TVLUSD: 1, ROR: 30},
		{Project: "b", Chain: "eth", Risk: domain.RiskMedium, APY: 20, TVLUSD: 99, ROR: 12},
	}

	byAPY := Bucketize(opps, domain.SortByAPY, time.Now())
	if byAPY.ShortTerm[0].Project != "a" {
		t.Fatalf("apy sort should rank a first: %+v", byAPY.ShortTerm)
	}

	byTVL := Bucketize(opps, domain.SortByTVL, time.Now())
	if byTVL.ShortTerm[0].Project != "b" {
		t.Fatalf("tvl sort should rank b first: %+v", byTVL.ShortTerm)
	}
}

func TestTopPicksRanksByROR(t *testing.T) {
	result := domain.ScanResult{
		Focus:     []domain.Opportunity{{Project: "f", ROR: 50}},
		LongTerm:  []domain.Opportunity{{Project: "l1", ROR: 10}, {Project: "l2", ROR: 60}},
		ShortTerm: []domain.Opportunity{{Project: "s1", ROR: 20}, {Project: "s2", ROR: 5}, {Project: "s3", ROR: 40}},
	}

	picks := TopPicks(result)
	if len(picks) != topPicksCount {
		t.Fatalf("expected %d picks, got %d", topPicksCount, len(picks))
	}
	if picks[0].Project != "l2" || picks[1].Project != "f" {
		t.Fatalf("unexpected ranking: %+v", picks)
	}
}

func TestMarkOutliersSkipsSmallBatches(t *testing.T) {
	opps := []domain.Opportunity{{APY: 10, TVLUSD: 1_000_000, ROR: 10}}
	out := MarkOutliers(opps)
	if len(out) != 1 || out[0].Outlier {
		t.Fatalf("small batch should be returned unchanged: %+v", out)
	}
}

func TestMarkOutliersFlagsExtremePool(t *testing.T) {
	var opps []domain.Opportunity
	for i := 0; i < 30; i++ {
		opps = append(opps, domain.Opportunity{APY: 8 + float64(i%3), TVLUSD: 10_000_000, ROR: 8})
	}
	opps = append(opps, domain.Opportunity{Project: "degen", APY: 9000, TVLUSD: 500_001, ROR: 2700})

	flagged := MarkOutliers(opps)
	if len(flagged) != len(opps) {
		t.Fatalf("expected %d opportunities back, got %d", len(opps), len(flagged))
	}
	if !flagged[len(flagged)-1].Outlier {
		t.Fatal("extreme APY pool should be flagged as outlier")
	}
	// input must not be mutated
	if opps[len(opps)-1].Outlier {
		t.Fatal("MarkOutliers must not mutate its input")
	}
}
