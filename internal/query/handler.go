package query

import (
	"context"
	"log"
	"time"

	"github.com/example/fashion-catalog/internal/catalog"
	"github.com/example/fashion-catalog/internal/domain/brand"
	"github.com/example/fashion-catalog/internal/domain/category"
	"github.com/example/fashion-catalog/internal/domain/product"
	"github.com/example/fashion-catalog/internal/domain/settings"
	"github.com/example/fashion-catalog/internal/infrastructure/store"
	"github.com/example/fashion-catalog/internal/readmodel"
)

type Handler struct {
	readStore store.ReadStoreInterface
}

func NewHandler(readStore store.ReadStoreInterface) *Handler {
	return &Handler{readStore: readStore}
}

// Products

// ListProducts returns one page of matching products. Stores that can
// search natively do the work themselves; otherwise the whole collection
// runs through catalog.Apply.
func (h *Handler) ListProducts(ctx context.Context, opts catalog.FilterOptions) (catalog.Page, error) {
	if searcher, ok := h.readStore.(store.ProductSearcher); ok {
		page, err := searcher.SearchProducts(ctx, opts)
		if err != nil {
			log.Printf("[Query] Error searching products: %v", err)
		}
		return page, err
	}

	items, err := h.readStore.GetAll(ctx, store.CollectionProducts)
	if err != nil {
		log.Printf("[Query] Error listing products: %v", err)
		return catalog.Page{}, err
	}
	products := make([]*readmodel.Product, 0, len(items))
	for _, item := range items {
		products = append(products, item.(*readmodel.Product))
	}
	return catalog.Apply(products, opts), nil
}

func (h *Handler) GetProduct(ctx context.Context, id string) (*readmodel.Product, error) {
	data, ok, err := h.readStore.Get(ctx, store.CollectionProducts, id)
	if err != nil {
		log.Printf("[Query] Error getting product %s: %v", id, err)
		return nil, err
	}
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return data.(*readmodel.Product), nil
}

// Categories
func (h *Handler) ListCategories(ctx context.Context) ([]*readmodel.Category, error) {
	items, err := h.readStore.GetAll(ctx, store.CollectionCategories)
	if err != nil {
		log.Printf("[Query] Error listing categories: %v", err)
		return nil, err
	}
	categories := make([]*readmodel.Category, 0, len(items))
	for _, item := range items {
		categories = append(categories, item.(*readmodel.Category))
	}
	return categories, nil
}

// GetCategory looks a category up by id first, then by slug
func (h *Handler) GetCategory(ctx context.Context, idOrSlug string) (*readmodel.Category, error) {
	data, ok, err := h.readStore.Get(ctx, store.CollectionCategories, idOrSlug)
	if err != nil {
		log.Printf("[Query] Error getting category %s: %v", idOrSlug, err)
		return nil, err
	}
	if ok {
		return data.(*readmodel.Category), nil
	}

	categories, err := h.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if c.Slug == idOrSlug {
			return c, nil
		}
	}
	return nil, category.ErrCategoryNotFound
}

// Brands
func (h *Handler) ListBrands(ctx context.Context) ([]*readmodel.Brand, error) {
	items, err := h.readStore.GetAll(ctx, store.CollectionBrands)
	if err != nil {
		log.Printf("[Query] Error listing brands: %v", err)
		return nil, err
	}
	brands := make([]*readmodel.Brand, 0, len(items))
	for _, item := range items {
		brands = append(brands, item.(*readmodel.Brand))
	}
	return brands, nil
}

// GetBrand looks a brand up by id first, then by slug
func (h *Handler) GetBrand(ctx context.Context, idOrSlug string) (*readmodel.Brand, error) {
	data, ok, err := h.readStore.Get(ctx, store.CollectionBrands, idOrSlug)
	if err != nil {
		log.Printf("[Query] Error getting brand %s: %v", idOrSlug, err)
		return nil, err
	}
	if ok {
		return data.(*readmodel.Brand), nil
	}

	brands, err := h.ListBrands(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range brands {
		if b.Slug == idOrSlug {
			return b, nil
		}
	}
	return nil, brand.ErrBrandNotFound
}

// GetSettings returns the saved storefront settings, or the defaults when
// nothing has been saved yet
func (h *Handler) GetSettings(ctx context.Context) (*readmodel.StoreSettings, error) {
	data, ok, err := h.readStore.Get(ctx, store.CollectionSettings, store.SettingsID)
	if err != nil {
		log.Printf("[Query] Error getting settings: %v", err)
		return nil, err
	}
	if !ok {
		return settings.ToReadModel(settings.Defaults(), time.Time{}), nil
	}
	return data.(*readmodel.StoreSettings), nil
}
