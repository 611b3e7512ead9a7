package users

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/eventsg/backend/internal/domain"
)

// MemoryRepository is an in-process Repository with the same contract as
// the Postgres one, including the unique email. Results come back in
// insertion order.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]User
	order []uuid.UUID
	err   error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: map[uuid.UUID]User{}}
}

// FailWith makes every later call return err. Pass nil to recover.
func (m *MemoryRepository) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryRepository) emailTaken(email string, except uuid.UUID) bool {
	for id, u := range m.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (m *MemoryRepository) Insert(_ context.Context, u User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if _, ok := m.users[u.ID]; ok || m.emailTaken(u.Email, uuid.Nil) {
		return 0, domain.ErrConflict
	}
	m.users[u.ID] = u
	m.order = append(m.order, u.ID)
	return 1, nil
}

func (m *MemoryRepository) Update(_ context.Context, id uuid.UUID, u User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	existing, ok := m.users[id]
	if !ok {
		return 0, nil
	}
	if m.emailTaken(u.Email, id) {
		return 0, domain.ErrConflict
	}
	existing.Email = u.Email
	existing.DisplayName = u.DisplayName
	m.users[id] = existing
	return 1, nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if _, ok := m.users[id]; !ok {
		return 0, nil
	}
	delete(m.users, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (m *MemoryRepository) Get(_ context.Context, id uuid.UUID) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return User{}, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return User{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *MemoryRepository) List(_ context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]User, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.users[id])
	}
	return out, nil
}
