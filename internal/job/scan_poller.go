package job

import (
	"context"
	"log"
	"time"

	"yield-radar/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const accrueInterval = 10 * time.Minute

// ScanRefresher refreshes the cached opportunity scan.
type ScanRefresher interface {
	RefreshScan(ctx context.Context) (domain.ScanResult, error)
	GetMemePairs(ctx context.Context) ([]domain.MemePair, error)
}

// PositionAccruer recomputes and persists simulated position values.
type PositionAccruer interface {
	AccrueAll(ctx context.Context) error
}

// ScanPoller runs the background goroutines that keep the scan cache warm and
// the simulated positions accruing.
type ScanPoller struct {
	tracer       trace.Tracer
	scans        ScanRefresher
	positions    PositionAccruer
	pollInterval time.Duration
}

func NewScanPoller(tracer trace.Tracer, scans ScanRefresher, positions PositionAccruer, pollIntervalSecs int) *ScanPoller {
	return &ScanPoller{
		tracer:       tracer,
		scans:        scans,
		positions:    positions,
		pollInterval: time.Duration(pollIntervalSecs) * time.Second,
	}
}

// Start launches the polling goroutines. Blocks until ctx is cancelled.
func (p *ScanPoller) Start(ctx context.Context) {
	log.Println("Scan poller starting...")

	go p.pollLoop(ctx, "opportunity-scan", p.pollInterval, func(ctx context.Context) error {
		_, err := p.scans.RefreshScan(ctx)
		return err
	})

	go p.pollMemePairs(ctx)

	if p.positions != nil {
		go p.pollLoop(ctx, "position-accrual", accrueInterval, p.positions.AccrueAll)
	}

	<-ctx.Done()
	log.Println("Scan poller stopped")
}

func (p *ScanPoller) pollLoop(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	// Run immediately on start
	if err := fn(ctx); err != nil {
		log.Printf("poller %s initial run error: %v", name, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil {
				log.Printf("poller %s error: %v", name, err)
			}
		}
	}
}

// pollMemePairs refreshes the meme-pair cache on a slower cadence, staggered
// so it does not land on the same tick as the opportunity scan.
func (p *ScanPoller) pollMemePairs(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(15 * time.Second):
	}

	p.pollLoop(ctx, "meme-pairs", 2*p.pollInterval, func(ctx context.Context) error {
		_, err := p.scans.GetMemePairs(ctx)
		return err
	})
}
