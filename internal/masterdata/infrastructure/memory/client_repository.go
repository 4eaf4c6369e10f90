package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	masterdata "energy-billing/internal/masterdata/domain"
)

// ClientRepository is an in-memory repository for clients.
type ClientRepository struct {
	mu    sync.RWMutex
	order []string
	data  map[string]*masterdata.Client
}

// NewClientRepository constructs a repository.
func NewClientRepository() *ClientRepository {
	return &ClientRepository{data: make(map[string]*masterdata.Client)}
}

// Get loads a client, nil when absent.
func (r *ClientRepository) Get(ctx context.Context, id string) (*masterdata.Client, error) {
	_ = ctx
	if id == "" {
		return nil, masterdata.ErrEmptyClientID
	}

	r.mu.RLock()
	client := r.data[id]
	r.mu.RUnlock()
	if client == nil {
		return nil, nil
	}
	return client.Clone(), nil
}

// List returns every client in registration order.
func (r *ClientRepository) List(ctx context.Context) ([]*masterdata.Client, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*masterdata.Client, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.data[id].Clone())
	}
	return out, nil
}

// Create stores a new client, failing if the id is taken.
func (r *ClientRepository) Create(ctx context.Context, client *masterdata.Client) error {
	_ = ctx
	if client == nil {
		return masterdata.ErrNilClient
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[client.ID()]; exists {
		return fmt.Errorf("%w: %s", masterdata.ErrDuplicateClient, client.ID())
	}
	r.data[client.ID()] = client.Clone()
	r.order = append(r.order, client.ID())
	return nil
}

// Save overwrites an existing client.
func (r *ClientRepository) Save(ctx context.Context, client *masterdata.Client) error {
	_ = ctx
	if client == nil {
		return masterdata.ErrNilClient
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[client.ID()]; !exists {
		return fmt.Errorf("%w: %s", masterdata.ErrClientNotFound, client.ID())
	}
	r.data[client.ID()] = client.Clone()
	return nil
}

// Update runs mutate on a copy of the stored client under the write lock and
// stores the copy when mutate succeeds.
func (r *ClientRepository) Update(ctx context.Context, id string, mutate func(*masterdata.Client) error) (*masterdata.Client, error) {
	_ = ctx
	if id == "" {
		return nil, masterdata.ErrEmptyClientID
	}
	if mutate == nil {
		return nil, errors.New("client repository: nil mutate func")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	stored, exists := r.data[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", masterdata.ErrClientNotFound, id)
	}
	next := stored.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	r.data[id] = next
	return next.Clone(), nil
}
