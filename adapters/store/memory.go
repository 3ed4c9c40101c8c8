package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"lottolab/domain/core"
	"lottolab/domain/draw"
	"lottolab/ports"
)

// MemoryRepository keeps draws in a map. It is used by tests and by the
// CLI when no database is configured.
type MemoryRepository struct {
	mu    sync.RWMutex
	draws map[int]draw.Draw
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{draws: make(map[int]draw.Draw)}
}

var _ ports.DrawRepository = (*MemoryRepository)(nil)

// SaveDraws stores draws not seen before and returns how many were new
func (m *MemoryRepository) SaveDraws(ctx context.Context, draws []draw.Draw) (int, error) {
	for _, d := range draws {
		if err := d.Validate(); err != nil {
			return 0, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	inserted := 0
	for _, d := range draws {
		if _, ok := m.draws[d.No]; ok {
			continue
		}
		m.draws[d.No] = d
		inserted++
	}
	return inserted, nil
}

// ListDraws returns all draws ordered by draw number
func (m *MemoryRepository) ListDraws(ctx context.Context) (draw.History, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(draw.History, 0, len(m.draws))
	for _, d := range m.draws {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].No < out[j].No })
	return out, nil
}

// GetDraw returns the draw with the given number
func (m *MemoryRepository) GetDraw(ctx context.Context, no int) (draw.Draw, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.draws[no]
	if !ok {
		return draw.Draw{}, fmt.Errorf("draw %d: %w", no, core.ErrDrawNotFound)
	}
	return d, nil
}

// LatestNo returns the highest stored draw number
func (m *MemoryRepository) LatestNo(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	latest := 0
	for no := range m.draws {
		if no > latest {
			latest = no
		}
	}
	return latest, nil
}

// Count returns the number of stored draws
func (m *MemoryRepository) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.draws), nil
}
