package store

import (
	"context"
	"slices"
	"sync"
)

type collection struct {
	order []string
	items map[string]any
}

// ReadStore is an in-memory read model store. GetAll returns items in
// first-insertion order; overwriting an id keeps its position.
type ReadStore struct {
	mu   sync.RWMutex
	data map[string]*collection
}

func NewReadStore() *ReadStore {
	return &ReadStore{
		data: make(map[string]*collection),
	}
}

// Set stores a read model
func (rs *ReadStore) Set(ctx context.Context, name, id string, data any) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	c := rs.data[name]
	if c == nil {
		c = &collection{items: make(map[string]any)}
		rs.data[name] = c
	}
	if _, exists := c.items[id]; !exists {
		c.order = append(c.order, id)
	}
	c.items[id] = data
	return nil
}

// Get retrieves a read model by id
func (rs *ReadStore) Get(ctx context.Context, name, id string) (any, bool, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	c := rs.data[name]
	if c == nil {
		return nil, false, nil
	}
	data, ok := c.items[id]
	return data, ok, nil
}

// GetAll retrieves all items in a collection
func (rs *ReadStore) GetAll(ctx context.Context, name string) ([]any, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	c := rs.data[name]
	if c == nil {
		return []any{}, nil
	}

	items := make([]any, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, c.items[id])
	}
	return items, nil
}

// Delete removes a read model
func (rs *ReadStore) Delete(ctx context.Context, name, id string) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	c := rs.data[name]
	if c == nil {
		return nil
	}
	if _, ok := c.items[id]; !ok {
		return nil
	}
	delete(c.items, id)
	c.order = slices.DeleteFunc(c.order, func(existing string) bool { return existing == id })
	return nil
}

// Update modifies a read model using an update function
func (rs *ReadStore) Update(ctx context.Context, name, id string, updateFn func(current any) any) (bool, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	c := rs.data[name]
	if c == nil {
		return false, nil
	}
	current, ok := c.items[id]
	if !ok {
		return false, nil
	}
	c.items[id] = updateFn(current)
	return true, nil
}
