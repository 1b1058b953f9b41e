package store

import (
	"context"

	"github.com/example/fashion-catalog/internal/catalog"
)

// Read model collections
const (
	CollectionProducts   = "products"
	CollectionCategories = "categories"
	CollectionBrands     = "brands"
	CollectionSettings   = "settings"
)

// SettingsID is the key of the store settings singleton
const SettingsID = "store-settings"

// ReadStoreInterface defines the interface for read model storage
type ReadStoreInterface interface {
	// Set stores a read model, replacing any previous value
	Set(ctx context.Context, collection, id string, data any) error

	// Get retrieves a read model by id
	Get(ctx context.Context, collection, id string) (any, bool, error)

	// GetAll retrieves all items in a collection in insertion order
	GetAll(ctx context.Context, collection string) ([]any, error)

	// Delete removes a read model
	Delete(ctx context.Context, collection, id string) error

	// Update modifies a read model using an update function
	Update(ctx context.Context, collection, id string, updateFn func(current any) any) (bool, error)
}

// ProductSearcher is implemented by read stores that can run the product
// listing pipeline natively
type ProductSearcher interface {
	SearchProducts(ctx context.Context, opts catalog.FilterOptions) (catalog.Page, error)
}
