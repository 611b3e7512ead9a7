package relations

import (
	"context"
	"sync"

	"github.com/eventsg/backend/internal/domain"
)

type pair[L comparable, R comparable] struct {
	left  L
	right R
}

// MemoryRepository is an in-process Repository. It backs unit tests of the
// services built on Ledger and follows the same contract as the Postgres one.
type MemoryRepository[L comparable, R comparable] struct {
	mu    sync.Mutex
	pairs map[pair[L, R]]struct{}
	order []pair[L, R]
}

func NewMemoryRepository[L comparable, R comparable]() *MemoryRepository[L, R] {
	return &MemoryRepository[L, R]{pairs: map[pair[L, R]]struct{}{}}
}

func (m *MemoryRepository[L, R]) Add(_ context.Context, left L, right R) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := pair[L, R]{left, right}
	if _, ok := m.pairs[p]; ok {
		return 0, domain.ErrConflict
	}
	m.pairs[p] = struct{}{}
	m.order = append(m.order, p)
	return 1, nil
}

func (m *MemoryRepository[L, R]) Remove(_ context.Context, left L, right R) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := pair[L, R]{left, right}
	if _, ok := m.pairs[p]; !ok {
		return 0, nil
	}
	delete(m.pairs, p)
	for i, existing := range m.order {
		if existing == p {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (m *MemoryRepository[L, R]) List(_ context.Context, left L) ([]R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []R{}
	for _, p := range m.order {
		if p.left == left {
			out = append(out, p.right)
		}
	}
	return out, nil
}

func (m *MemoryRepository[L, R]) Count(_ context.Context, right R) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for p := range m.pairs {
		if p.right == right {
			n++
		}
	}
	return n, nil
}
