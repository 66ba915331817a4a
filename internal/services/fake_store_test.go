package services_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"frieren/internal/domain"
)

// memStore is an in-memory OrderStore and AdminStore for service tests.
type memStore struct {
	mu      sync.Mutex
	orders  map[string]domain.Order
	admins  map[string]*domain.Admin
	calls   int
	failErr error
}

func newMemStore() *memStore {
	return &memStore{orders: map[string]domain.Order{}, admins: map[string]*domain.Admin{}}
}

func (m *memStore) touch() error {
	m.calls++
	return m.failErr
}

func (m *memStore) Create(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.touch(); err != nil {
		return domain.Persistence("create", err)
	}
	now := time.Now().UTC()
	o.Status = domain.StatusPending
	o.CreatedAt, o.UpdatedAt = now, now
	m.orders[o.ID] = *o
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.touch(); err != nil {
		return domain.Order{}, err
	}
	o, ok := m.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id string, st domain.Status) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.touch(); err != nil {
		return domain.Order{}, err
	}
	o, ok := m.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	o.Status = st
	m.orders[id] = o
	return o, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.touch(); err != nil {
		return err
	}
	if _, ok := m.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *memStore) Query(_ context.Context, q domain.OrderQuery) (domain.OrderList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.touch(); err != nil {
		return domain.OrderList{}, err
	}
	out := []domain.Order{}
	for _, o := range m.orders {
		if q.Filter.Status == "" || o.Status == q.Filter.Status {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return domain.OrderList{Orders: out, Pagination: domain.Pagination{Page: q.Page, Limit: q.Limit, Total: len(out)}}, nil
}

func (m *memStore) ByUsername(_ context.Context, username string) (*domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.touch(); err != nil {
		return nil, err
	}
	a, ok := m.admins[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) TouchLogin(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.ID == id {
			a.LastLogin = &at
			return nil
		}
	}
	return errors.New("no such admin")
}

// adminStore adapts memStore's admin half; Create collides with the order
// Create so it lives on a separate type.
type adminStore struct{ *memStore }

func (s adminStore) Create(_ context.Context, a *domain.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[a.Username]; ok {
		return domain.ErrDuplicate
	}
	cp := *a
	s.admins[a.Username] = &cp
	return nil
}
