package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/fashion-catalog/internal/catalog"
	"github.com/example/fashion-catalog/internal/domain/brand"
	"github.com/example/fashion-catalog/internal/domain/category"
	"github.com/example/fashion-catalog/internal/domain/product"
	"github.com/example/fashion-catalog/internal/infrastructure/store"
	"github.com/example/fashion-catalog/internal/infrastructure/store/mocks"
	"github.com/example/fashion-catalog/internal/readmodel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueryHandler() (*Handler, *mocks.MockReadStore) {
	readStore := mocks.NewMockReadStore()
	handler := NewHandler(readStore)
	return handler, readStore
}

func seedProduct(readStore *mocks.MockReadStore, id, price string, featured bool, created time.Time) {
	readStore.SetData(store.CollectionProducts, id, &readmodel.Product{
		ID:        id,
		Name:      "Product " + id,
		Price:     decimal.RequireFromString(price),
		Featured:  featured,
		CreatedAt: created,
	})
}

// ============================================
// Product Query Tests
// ============================================

func TestHandler_GetProduct_Found(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	seedProduct(readStore, "prod-123", "10", false, time.Now())

	p, err := handler.GetProduct(context.Background(), "prod-123")

	require.NoError(t, err)
	assert.Equal(t, "prod-123", p.ID)
	assert.Equal(t, "Product prod-123", p.Name)
}

func TestHandler_GetProduct_NotFound(t *testing.T) {
	handler, _ := newTestQueryHandler()

	p, err := handler.GetProduct(context.Background(), "non-existent")

	assert.ErrorIs(t, err, product.ErrProductNotFound)
	assert.Nil(t, p)
}

func TestHandler_GetProduct_StoreError(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	readStore.GetErr = errors.New("broken pipe")

	_, err := handler.GetProduct(context.Background(), "prod-1")

	assert.EqualError(t, err, "broken pipe")
}

func TestHandler_ListProducts_FallsBackToPipeline(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seedProduct(readStore, "a", "10", false, base)
	seedProduct(readStore, "b", "50", true, base.Add(time.Hour))

	page, err := handler.ListProducts(context.Background(), catalog.FilterOptions{Featured: true})

	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "b", page.Data[0].ID)
}

func TestHandler_ListProducts_DefaultsToNewestFirst(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seedProduct(readStore, "old", "10", false, base)
	seedProduct(readStore, "new", "10", false, base.Add(time.Hour))

	page, err := handler.ListProducts(context.Background(), catalog.FilterOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	assert.Equal(t, "new", page.Data[0].ID)
}

func TestHandler_ListProducts_Empty(t *testing.T) {
	handler, _ := newTestQueryHandler()

	page, err := handler.ListProducts(context.Background(), catalog.FilterOptions{})

	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, 0, page.TotalPages)
}

func TestHandler_ListProducts_StoreError(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	readStore.GetAllErr = errors.New("connection refused")

	_, err := handler.ListProducts(context.Background(), catalog.FilterOptions{})

	assert.EqualError(t, err, "connection refused")
}

func TestHandler_ListProducts_UsesNativeSearch(t *testing.T) {
	want := catalog.Page{Data: []*readmodel.Product{{ID: "sql"}}, Total: 1, Page: 1, PageSize: 5, TotalPages: 1}
	readStore := mocks.NewMockSearchingReadStore(func(ctx context.Context, opts catalog.FilterOptions) (catalog.Page, error) {
		return want, nil
	})
	handler := NewHandler(readStore)
	opts := catalog.FilterOptions{Brand: "Nike", PageSize: 5}

	page, err := handler.ListProducts(context.Background(), opts)

	require.NoError(t, err)
	assert.Equal(t, want, page)
	require.Len(t, readStore.SearchCalls, 1)
	assert.Equal(t, opts, readStore.SearchCalls[0])
}

// ============================================
// Category / Brand Query Tests
// ============================================

func TestHandler_GetCategory_ByIDOrSlug(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	readStore.SetData(store.CollectionCategories, "cat-1", &readmodel.Category{ID: "cat-1", Slug: "acessorios"})
	readStore.SetData(store.CollectionCategories, "cat-2", &readmodel.Category{ID: "cat-2", Slug: "calcados"})
	ctx := context.Background()

	byID, err := handler.GetCategory(ctx, "cat-2")
	require.NoError(t, err)
	assert.Equal(t, "calcados", byID.Slug)

	bySlug, err := handler.GetCategory(ctx, "acessorios")
	require.NoError(t, err)
	assert.Equal(t, "cat-1", bySlug.ID)

	_, err = handler.GetCategory(ctx, "missing")
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}

func TestHandler_GetBrand_ByIDOrSlug(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	readStore.SetData(store.CollectionBrands, "b-1", &readmodel.Brand{ID: "b-1", Name: "Zara", Slug: "zara"})
	readStore.SetData(store.CollectionBrands, "b-2", &readmodel.Brand{ID: "b-2", Name: "H&M", Slug: "h-m"})
	ctx := context.Background()

	byID, err := handler.GetBrand(ctx, "b-2")
	require.NoError(t, err)
	assert.Equal(t, "H&M", byID.Name)

	bySlug, err := handler.GetBrand(ctx, "zara")
	require.NoError(t, err)
	assert.Equal(t, "b-1", bySlug.ID)

	_, err = handler.GetBrand(ctx, "missing")
	assert.ErrorIs(t, err, brand.ErrBrandNotFound)
}

func TestHandler_ListCategories_InsertionOrder(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	readStore.SetData(store.CollectionCategories, "z", &readmodel.Category{ID: "z"})
	readStore.SetData(store.CollectionCategories, "a", &readmodel.Category{ID: "a"})

	categories, err := handler.ListCategories(context.Background())

	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "z", categories[0].ID)
	assert.Equal(t, "a", categories[1].ID)
}

func TestHandler_ListBrands(t *testing.T) {
	handler, readStore := newTestQueryHandler()

	brands, err := handler.ListBrands(context.Background())
	require.NoError(t, err)
	assert.Empty(t, brands)

	readStore.SetData(store.CollectionBrands, "b-1", &readmodel.Brand{ID: "b-1", Name: "Zara"})
	brands, err = handler.ListBrands(context.Background())
	require.NoError(t, err)
	require.Len(t, brands, 1)
	assert.Equal(t, "Zara", brands[0].Name)
}

// ============================================
// Settings Query Tests
// ============================================

func TestHandler_GetSettings_Defaults(t *testing.T) {
	handler, _ := newTestQueryHandler()

	s, err := handler.GetSettings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Loja A Grande Família", s.StoreName)
	assert.Equal(t, "5593991084582", s.WhatsappNumber)
}

func TestHandler_GetSettings_Saved(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	readStore.SetData(store.CollectionSettings, store.SettingsID, &readmodel.StoreSettings{StoreName: "Outlet"})

	s, err := handler.GetSettings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Outlet", s.StoreName)
}
