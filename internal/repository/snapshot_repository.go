package repository

import (
	"context"
	"encoding/json"

	"yield-radar/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const createScanSnapshotsTable = `
CREATE TABLE IF NOT EXISTS scan_snapshots (
    id               BIGSERIAL   PRIMARY KEY,
    fetched_at       TIMESTAMPTZ NOT NULL,
    pools_seen       INTEGER     NOT NULL,
    pools_kept       INTEGER     NOT NULL,
    focus_count      INTEGER     NOT NULL,
    long_term_count  INTEGER     NOT NULL,
    short_term_count INTEGER     NOT NULL,
    layer2_count     INTEGER     NOT NULL,
    top_picks        JSONB       NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_scan_snapshots_fetched_at
    ON scan_snapshots (fetched_at DESC);
`

type SnapshotRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewSnapshotRepository(pool PgxPool, tracer trace.Tracer) *SnapshotRepository {
	return &SnapshotRepository{pool: pool, tracer: tracer}
}

func (r *SnapshotRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "snapshot-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createScanSnapshotsTable)
	return err
}

// Insert records the counters of one completed scan together with its
// top picks serialised as JSON.
func (r *SnapshotRepository) Insert(ctx context.Context, result domain.ScanResult, poolsSeen int, topPicks []domain.Opportunity) error {
	_, span := r.tracer.Start(ctx, "snapshot-repo.insert")
	defer span.End()

	picksJSON, err := json.Marshal(topPicks)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO scan_snapshots
		     (fetched_at, pools_seen, pools_kept, focus_count, long_term_count, short_term_count, layer2_count, top_picks)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		result.FetchedAt, poolsSeen, len(result.All()),
		len(result.Focus), len(result.LongTerm), len(result.ShortTerm), len(result.Layer2),
		string(picksJSON),
	)
	return err
}

func (r *SnapshotRepository) Recent(ctx context.Context, limit int) ([]domain.ScanSnapshot, error) {
	_, span := r.tracer.Start(ctx, "snapshot-repo.recent")
	defer span.End()

	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, fetched_at, pools_seen, pools_kept, focus_count, long_term_count, short_term_count, layer2_count, top_picks::text
		 FROM scan_snapshots
		 ORDER BY fetched_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []domain.ScanSnapshot
	for rows.Next() {
		var s domain.ScanSnapshot
		if err := rows.Scan(
			&s.ID, &s.FetchedAt, &s.PoolsSeen, &s.PoolsKept,
			&s.FocusCount, &s.LongTermCount, &s.ShortTermCount, &s.Layer2Count,
			&s.TopPicksJSON,
		); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
