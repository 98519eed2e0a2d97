package customers

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Repository is the customer store consumed by the service and the risk
// engine.
type Repository interface {
	Get(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, id int64, patch Patch, at time.Time) (*Customer, error)
}

// MemoryRepository keeps customers in a process-local map.
type MemoryRepository struct {
	mu        sync.RWMutex
	customers map[int64]Customer
}

// NewMemoryRepository returns a store preloaded with seed.
func NewMemoryRepository(seed []Customer) *MemoryRepository {
	customers := make(map[int64]Customer, len(seed))
	for _, c := range seed {
		customers[c.ID] = c
	}
	return &MemoryRepository{customers: customers}
}

// Get returns a snapshot of the record; callers may mutate it freely.
func (r *MemoryRepository) Get(_ context.Context, id int64) (*Customer, error) {
	r.mu.RLock()
	c, ok := r.customers[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

// List returns every customer ordered by ID.
func (r *MemoryRepository) List(_ context.Context) ([]Customer, error) {
	r.mu.RLock()
	out := make([]Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, c)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update applies patch atomically and returns the stored result.
func (r *MemoryRepository) Update(_ context.Context, id int64, patch Patch, at time.Time) (*Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	c = patch.Apply(c, at)
	r.customers[id] = c
	return &c, nil
}
