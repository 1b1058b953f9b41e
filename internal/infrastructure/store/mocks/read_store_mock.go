package mocks

import (
	"context"
	"sync"

	"github.com/example/fashion-catalog/internal/catalog"
)

// MockReadStore is a mock implementation of ReadStoreInterface for testing.
// GetAll returns items in insertion order.
type MockReadStore struct {
	mu    sync.RWMutex
	data  map[string]map[string]any // collection -> id -> data
	order map[string][]string

	// Injected failures
	SetErr    error
	GetErr    error
	GetAllErr error

	// For tracking calls in tests
	SetCalls    []SetCall
	GetCalls    []GetCall
	DeleteCalls []DeleteCall
	UpdateCalls []UpdateCall
}

// SetCall records parameters passed to Set
type SetCall struct {
	Collection string
	ID         string
	Data       any
}

// GetCall records parameters passed to Get
type GetCall struct {
	Collection string
	ID         string
}

// DeleteCall records parameters passed to Delete
type DeleteCall struct {
	Collection string
	ID         string
}

// UpdateCall records parameters passed to Update
type UpdateCall struct {
	Collection string
	ID         string
}

// NewMockReadStore creates a new MockReadStore
func NewMockReadStore() *MockReadStore {
	return &MockReadStore{
		data:        make(map[string]map[string]any),
		order:       make(map[string][]string),
		SetCalls:    make([]SetCall, 0),
		GetCalls:    make([]GetCall, 0),
		DeleteCalls: make([]DeleteCall, 0),
		UpdateCalls: make([]UpdateCall, 0),
	}
}

// Set stores a read model
func (m *MockReadStore) Set(ctx context.Context, collection, id string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls = append(m.SetCalls, SetCall{
		Collection: collection,
		ID:         id,
		Data:       data,
	})

	if m.SetErr != nil {
		return m.SetErr
	}
	m.put(collection, id, data)
	return nil
}

// Get retrieves a read model by id
func (m *MockReadStore) Get(ctx context.Context, collection, id string) (any, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, GetCall{
		Collection: collection,
		ID:         id,
	})

	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	data, ok := m.data[collection][id]
	return data, ok, nil
}

// GetAll retrieves all items in a collection
func (m *MockReadStore) GetAll(ctx context.Context, collection string) ([]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetAllErr != nil {
		return nil, m.GetAllErr
	}

	items := make([]any, 0, len(m.order[collection]))
	for _, id := range m.order[collection] {
		items = append(items, m.data[collection][id])
	}
	return items, nil
}

// Delete removes a read model
func (m *MockReadStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, DeleteCall{
		Collection: collection,
		ID:         id,
	})

	if _, ok := m.data[collection][id]; !ok {
		return nil
	}
	delete(m.data[collection], id)
	ids := m.order[collection][:0]
	for _, existing := range m.order[collection] {
		if existing != id {
			ids = append(ids, existing)
		}
	}
	m.order[collection] = ids
	return nil
}

// Update modifies a read model using an update function
func (m *MockReadStore) Update(ctx context.Context, collection, id string, updateFn func(current any) any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls = append(m.UpdateCalls, UpdateCall{
		Collection: collection,
		ID:         id,
	})

	current, ok := m.data[collection][id]
	if !ok {
		return false, nil
	}
	m.data[collection][id] = updateFn(current)
	return true, nil
}

// Reset clears all data and recorded calls
func (m *MockReadStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]map[string]any)
	m.order = make(map[string][]string)
	m.SetErr, m.GetErr, m.GetAllErr = nil, nil, nil
	m.SetCalls = make([]SetCall, 0)
	m.GetCalls = make([]GetCall, 0)
	m.DeleteCalls = make([]DeleteCall, 0)
	m.UpdateCalls = make([]UpdateCall, 0)
}

// SetData sets data directly for testing
func (m *MockReadStore) SetData(collection, id string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(collection, id, data)
}

// GetData gets data directly for testing (without recording the call)
func (m *MockReadStore) GetData(collection, id string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[collection][id]
	return data, ok
}

func (m *MockReadStore) put(collection, id string, data any) {
	if m.data[collection] == nil {
		m.data[collection] = make(map[string]any)
	}
	if _, exists := m.data[collection][id]; !exists {
		m.order[collection] = append(m.order[collection], id)
	}
	m.data[collection][id] = data
}

// MockSearchingReadStore adds a native SearchProducts to MockReadStore
type MockSearchingReadStore struct {
	*MockReadStore
	SearchCalls []catalog.FilterOptions
	SearchFunc  func(ctx context.Context, opts catalog.FilterOptions) (catalog.Page, error)
}

// NewMockSearchingReadStore creates a MockSearchingReadStore
func NewMockSearchingReadStore(fn func(ctx context.Context, opts catalog.FilterOptions) (catalog.Page, error)) *MockSearchingReadStore {
	return &MockSearchingReadStore{MockReadStore: NewMockReadStore(), SearchFunc: fn}
}

// SearchProducts records the call and delegates to SearchFunc
func (m *MockSearchingReadStore) SearchProducts(ctx context.Context, opts catalog.FilterOptions) (catalog.Page, error) {
	m.mu.Lock()
	m.SearchCalls = append(m.SearchCalls, opts)
	m.mu.Unlock()
	return m.SearchFunc(ctx, opts)
}
