package service

import (
	"context"
	"sync"
	"time"

	"yield-radar/internal/domain"
)

// MemoryPositionStore keeps positions in process memory. It backs the wallet
// simulation when DATABASE_URL is not configured, so the dashboard stays fully
// usable without Postgres at the cost of losing positions on restart.
type MemoryPositionStore struct {
	mu        sync.RWMutex
	positions map[string]*domain.Position
	order     []string
}

func NewMemoryPositionStore() *MemoryPositionStore {
	return &MemoryPositionStore{positions: make(map[string]*domain.Position)}
}

func (m *MemoryPositionStore) Insert(_ context.Context, p *domain.Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *p
	m.positions[p.ID] = &clone
	m.order = append(m.order, p.ID)
	return nil
}

func (m *MemoryPositionStore) ListBySession(_ context.Context, sessionID string) ([]*domain.Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Position
	for _, id := range m.order {
		if p := m.positions[id]; p.SessionID == sessionID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *MemoryPositionStore) ListActive(_ context.Context) ([]*domain.Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Position
	for _, id := range m.order {
		if p := m.positions[id]; p.Status == domain.PositionActive {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *MemoryPositionStore) Get(_ context.Context, id string) (*domain.Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.positions[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (m *MemoryPositionStore) UpdateValues(_ context.Context, positions []*domain.Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range positions {
		if stored, ok := m.positions[p.ID]; ok {
			stored.CurrentValue = p.CurrentValue
		}
	}
	return nil
}

func (m *MemoryPositionStore) Close(_ context.Context, id string, closedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.positions[id]; ok && p.Status == domain.PositionActive {
		t := closedAt
		p.Status = domain.PositionClosed
		p.ClosedAt = &t
	}
	return nil
}
