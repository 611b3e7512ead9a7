package venues

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/eventsg/backend/internal/domain"
)

// MemoryRepository is an in-process Repository with the same contract as
// the Postgres one. Results come back in insertion order.
type MemoryRepository struct {
	mu     sync.Mutex
	venues map[uuid.UUID]Venue
	order  []uuid.UUID
	events map[uuid.UUID]uuid.UUID
	err    error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{venues: map[uuid.UUID]Venue{}, events: map[uuid.UUID]uuid.UUID{}}
}

// FailWith makes every later call return err. Pass nil to recover.
func (m *MemoryRepository) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// HostEvent records that eventID takes place at venueID.
func (m *MemoryRepository) HostEvent(eventID, venueID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[eventID] = venueID
}

func (m *MemoryRepository) Insert(_ context.Context, v Venue) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if _, ok := m.venues[v.ID]; ok {
		return 0, domain.ErrConflict
	}
	m.venues[v.ID] = v
	m.order = append(m.order, v.ID)
	return 1, nil
}

func (m *MemoryRepository) Update(_ context.Context, id uuid.UUID, v Venue) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	existing, ok := m.venues[id]
	if !ok {
		return 0, nil
	}
	v.ID = id
	v.Image = existing.Image
	m.venues[id] = v
	return 1, nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if _, ok := m.venues[id]; !ok {
		return 0, nil
	}
	delete(m.venues, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (m *MemoryRepository) Get(_ context.Context, id uuid.UUID) (Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(id)
}

func (m *MemoryRepository) get(id uuid.UUID) (Venue, error) {
	if m.err != nil {
		return Venue{}, m.err
	}
	v, ok := m.venues[id]
	if !ok {
		return Venue{}, domain.ErrNotFound
	}
	return v, nil
}

func (m *MemoryRepository) filter(keep func(Venue) bool) ([]Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []Venue{}
	for _, id := range m.order {
		if v := m.venues[id]; keep(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *MemoryRepository) List(context.Context) ([]Venue, error) {
	return m.filter(func(Venue) bool { return true })
}

func (m *MemoryRepository) ListByOwner(_ context.Context, owner uuid.UUID) ([]Venue, error) {
	return m.filter(func(v Venue) bool { return v.OwnerID == owner })
}

func (m *MemoryRepository) ListByLocation(_ context.Context, location string) ([]Venue, error) {
	return m.filter(func(v Venue) bool {
		return strings.Contains(v.Address, location) || v.PostalCode == location
	})
}

func (m *MemoryRepository) ListByName(_ context.Context, name string) ([]Venue, error) {
	return m.filter(func(v Venue) bool { return strings.Contains(v.Name, name) })
}

func (m *MemoryRepository) ListByArea(_ context.Context, target, tolerance float64) ([]Venue, error) {
	return m.filter(func(v Venue) bool { return Within(v.Area, target, tolerance) })
}

func (m *MemoryRepository) ListByBudget(_ context.Context, target, tolerance float64) ([]Venue, error) {
	return m.filter(func(v Venue) bool { return Within(v.RentalFee, target, tolerance) })
}

func (m *MemoryRepository) GetByEventID(_ context.Context, eventID uuid.UUID) (Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return Venue{}, m.err
	}
	venueID, ok := m.events[eventID]
	if !ok {
		return Venue{}, domain.ErrNotFound
	}
	return m.get(venueID)
}
