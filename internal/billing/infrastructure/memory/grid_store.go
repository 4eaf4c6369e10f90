package memory

import (
	"context"
	"sync"

	billing "energy-billing/internal/billing/domain"
)

// GridStore is an in-memory grid store for tests and local runs.
type GridStore struct {
	mu    sync.RWMutex
	grids map[billing.MeterRef]*billing.ConsumptionGrid
}

// NewGridStore constructs an empty store.
func NewGridStore() *GridStore {
	return &GridStore{grids: make(map[billing.MeterRef]*billing.ConsumptionGrid)}
}

// Grid returns the grid of ref, creating it on first use.
func (s *GridStore) Grid(ctx context.Context, ref billing.MeterRef) (*billing.ConsumptionGrid, error) {
	_ = ctx
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	grid, ok := s.grids[ref]
	s.mu.RUnlock()
	if ok {
		return grid, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if grid, ok := s.grids[ref]; ok {
		return grid, nil
	}
	grid = billing.NewConsumptionGrid()
	s.grids[ref] = grid
	return grid, nil
}

// Lookup returns the grid of ref or nil.
func (s *GridStore) Lookup(ctx context.Context, ref billing.MeterRef) (*billing.ConsumptionGrid, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grids[ref], nil
}

// Delete drops the grid of ref. Deleting an absent grid is a no-op.
func (s *GridStore) Delete(ctx context.Context, ref billing.MeterRef) error {
	_ = ctx
	s.mu.Lock()
	delete(s.grids, ref)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored grids.
func (s *GridStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.grids)
}
