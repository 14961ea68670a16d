package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMemoryLimit is the number of runs a MemoryStore keeps.
const DefaultMemoryLimit = 500

// MemoryStore keeps the most recent runs in process memory.
// Once full, recording a run evicts the oldest one.
type MemoryStore struct {
	mu    sync.RWMutex
	runs  []Run // oldest first
	limit int
}

// NewMemoryStore returns a store holding at most limit runs.
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}
	return &MemoryStore{limit: limit}
}

func (m *MemoryStore) Record(_ context.Context, run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.runs) >= m.limit {
		m.runs = append(m.runs[:0], m.runs[len(m.runs)-m.limit+1:]...)
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *MemoryStore) Recent(_ context.Context, limit int) ([]Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.runs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Run, 0, n)
	for i := len(m.runs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return Run{}, ErrNotFound
}

func (m *MemoryStore) Prune(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.runs[:0]
	for _, r := range m.runs {
		if !r.CreatedAt.Before(before) {
			kept = append(kept, r)
		}
	}
	removed := int64(len(m.runs) - len(kept))
	m.runs = kept
	return removed, nil
}

func (m *MemoryStore) Close() error { return nil }
