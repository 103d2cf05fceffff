package repository

import (
	"context"
	"time"

	"yield-radar/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createPositionsTable = `
CREATE TABLE IF NOT EXISTS positions (
    id               TEXT        PRIMARY KEY,
    session_id       TEXT        NOT NULL,
    project          TEXT        NOT NULL,
    chain            TEXT        NOT NULL,
    wallet_kind      TEXT        NOT NULL,
    amount_invested  NUMERIC     NOT NULL,
    current_value    NUMERIC     NOT NULL,
    apy              NUMERIC     NOT NULL,
    entered_at       TIMESTAMPTZ NOT NULL,
    closed_at        TIMESTAMPTZ,
    status           TEXT        NOT NULL DEFAULT 'active'
);

CREATE INDEX IF NOT EXISTS idx_positions_session_status
    ON positions (session_id, status);
`

// PgxPool is the subset of pgxpool.Pool the repositories use.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PositionRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewPositionRepository(pool PgxPool, tracer trace.Tracer) *PositionRepository {
	return &PositionRepository{pool: pool, tracer: tracer}
}

func (r *PositionRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "position-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createPositionsTable)
	return err
}

func (r *PositionRepository) Insert(ctx context.Context, p *domain.Position) error {
	_, span := r.tracer.Start(ctx, "position-repo.insert")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO positions
		     (id, session_id, project, chain, wallet_kind, amount_invested, current_value, apy, entered_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.SessionID, p.Project, p.Chain, string(p.WalletKind),
		p.AmountInvested, p.CurrentValue, p.APY, p.EnteredAt, string(p.Status),
	)
	return err
}

func (r *PositionRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.Position, error) {
	_, span := r.tracer.Start(ctx, "position-repo.list-by-session")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, project, chain, wallet_kind, amount_invested, current_value, apy, entered_at, closed_at, status
		 FROM positions
		 WHERE session_id = $1
		 ORDER BY entered_at DESC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPositions(rows)
}

func (r *PositionRepository) ListActive(ctx context.Context) ([]*domain.Position, error) {
	_, span := r.tracer.Start(ctx, "position-repo.list-active")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, project, chain, wallet_kind, amount_invested, current_value, apy, entered_at, closed_at, status
		 FROM positions
		 WHERE status = 'active'
		 ORDER BY entered_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPositions(rows)
}

func (r *PositionRepository) Get(ctx context.Context, id string) (*domain.Position, error) {
	_, span := r.tracer.Start(ctx, "position-repo.get")
	defer span.End()

	row := r.pool.QueryRow(ctx,
		`SELECT id, session_id, project, chain, wallet_kind, amount_invested, current_value, apy, entered_at, closed_at, status
		 FROM positions
		 WHERE id = $1`,
		id,
	)

	p, err := scanPosition(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateValues writes back accrued current values in one batch.
func (r *PositionRepository) UpdateValues(ctx context.Context, positions []*domain.Position) error {
	if len(positions) == 0 {
		return nil
	}

	_, span := r.tracer.Start(ctx, "position-repo.update-values")
	defer span.End()

	batch := &pgx.Batch{}
	for _, p := range positions {
		batch.Queue(`UPDATE positions SET current_value = $1 WHERE id = $2`, p.CurrentValue, p.ID)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range positions {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *PositionRepository) Close(ctx context.Context, id string, closedAt time.Time) error {
	_, span := r.tracer.Start(ctx, "position-repo.close")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`UPDATE positions SET status = 'closed', closed_at = $1 WHERE id = $2 AND status = 'active'`,
		closedAt, id,
	)
	return err
}

func scanPositions(rows pgx.Rows) ([]*domain.Position, error) {
	var positions []*domain.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func scanPosition(row pgx.Row) (*domain.Position, error) {
	var p domain.Position
	var walletKind, status string
	if err := row.Scan(
		&p.ID, &p.SessionID, &p.Project, &p.Chain, &walletKind,
		&p.AmountInvested, &p.CurrentValue, &p.APY, &p.EnteredAt, &p.ClosedAt, &status,
	); err != nil {
		return nil, err
	}
	p.WalletKind = domain.WalletKind(walletKind)
	p.Status = domain.PositionStatus(status)
	return &p, nil
}
