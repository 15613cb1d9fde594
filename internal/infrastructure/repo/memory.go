package repo

import (
	"context"
	"sync"
	"time"

	"pizza-shop/internal/domain"
)

type MemoryOrderRepo struct {
	mu     sync.RWMutex
	m      map[int64]*domain.Order
	lastID int64
}

func NewMemoryOrderRepo() *MemoryOrderRepo {
	return &MemoryOrderRepo{m: make(map[int64]*domain.Order)}
}

func (r *MemoryOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastID++
	o.ID = r.lastID
	o.CreatedAt = time.Now().UTC()
	if o.Status == "" {
		o.Status = domain.OrderReceived
	}
	cp := *o
	r.m[o.ID] = &cp
	return nil
}

func (r *MemoryOrderRepo) Get(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.m[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *MemoryOrderRepo) Ping(context.Context) error { return nil }

func (r *MemoryOrderRepo) Close() error { return nil }
