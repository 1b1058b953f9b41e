package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/fashion-catalog/internal/domain/brand"
	"github.com/example/fashion-catalog/internal/domain/category"
	"github.com/example/fashion-catalog/internal/domain/product"
	"github.com/example/fashion-catalog/internal/domain/settings"
	"github.com/example/fashion-catalog/internal/infrastructure/store"
	"github.com/example/fashion-catalog/internal/readmodel"
)

type Handler struct {
	productSvc  *product.Service
	categorySvc *category.Service
	brandSvc    *brand.Service
	settingsSvc *settings.Service
	readStore   store.ReadStoreInterface
}

func NewHandler(
	productSvc *product.Service,
	categorySvc *category.Service,
	brandSvc *brand.Service,
	settingsSvc *settings.Service,
	readStore store.ReadStoreInterface,
) *Handler {
	return &Handler{
		productSvc:  productSvc,
		categorySvc: categorySvc,
		brandSvc:    brandSvc,
		settingsSvc: settingsSvc,
		readStore:   readStore,
	}
}

// CreateProduct creates a new product. The read store catches up through
// the configured publisher.
func (h *Handler) CreateProduct(ctx context.Context, cmd CreateProduct) (*product.Product, error) {
	return h.productSvc.Create(ctx, cmd.Details)
}

// UpdateProduct replaces every editable field of a product
func (h *Handler) UpdateProduct(ctx context.Context, cmd UpdateProduct) (*product.Product, error) {
	return h.productSvc.Update(ctx, cmd.ProductID, cmd.Details)
}

func (h *Handler) DeleteProduct(ctx context.Context, cmd DeleteProduct) error {
	return h.productSvc.Delete(ctx, cmd.ProductID)
}

// CreateCategory creates a category after checking its slug is free
func (h *Handler) CreateCategory(ctx context.Context, cmd CreateCategory) (*category.Category, error) {
	d := cmd.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := h.checkCategorySlug(ctx, d.Slug, ""); err != nil {
		return nil, err
	}
	return h.categorySvc.Create(ctx, d)
}

func (h *Handler) UpdateCategory(ctx context.Context, cmd UpdateCategory) (*category.Category, error) {
	d := cmd.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := h.checkCategorySlug(ctx, d.Slug, cmd.CategoryID); err != nil {
		return nil, err
	}
	return h.categorySvc.Update(ctx, cmd.CategoryID, d)
}

func (h *Handler) DeleteCategory(ctx context.Context, cmd DeleteCategory) error {
	return h.categorySvc.Delete(ctx, cmd.CategoryID)
}

// CreateBrand creates a brand after checking its name and slug are free
func (h *Handler) CreateBrand(ctx context.Context, cmd CreateBrand) (*brand.Brand, error) {
	d := cmd.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := h.checkBrand(ctx, d, ""); err != nil {
		return nil, err
	}
	return h.brandSvc.Create(ctx, d)
}

func (h *Handler) UpdateBrand(ctx context.Context, cmd UpdateBrand) (*brand.Brand, error) {
	d := cmd.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := h.checkBrand(ctx, d, cmd.BrandID); err != nil {
		return nil, err
	}
	return h.brandSvc.Update(ctx, cmd.BrandID, d)
}

func (h *Handler) DeleteBrand(ctx context.Context, cmd DeleteBrand) error {
	return h.brandSvc.Delete(ctx, cmd.BrandID)
}

// UpdateSettings merges the patch into the stored settings and returns the
// resulting read model
func (h *Handler) UpdateSettings(ctx context.Context, cmd UpdateSettings) (*readmodel.StoreSettings, error) {
	st, err := h.settingsSvc.Update(ctx, cmd.Settings)
	if err != nil {
		return nil, err
	}
	return settings.ToReadModel(st.Settings, st.UpdatedAt), nil
}

// checkCategorySlug rejects a slug already used by a category other than
// exceptID
func (h *Handler) checkCategorySlug(ctx context.Context, slug, exceptID string) error {
	items, err := h.readStore.GetAll(ctx, store.CollectionCategories)
	if err != nil {
		return fmt.Errorf("checking category slug: %w", err)
	}
	for _, item := range items {
		c := item.(*readmodel.Category)
		if c.ID != exceptID && c.Slug == slug {
			return category.ErrSlugTaken
		}
	}
	return nil
}

// checkBrand rejects a brand whose name (case-insensitive) or slug belongs
// to another brand
func (h *Handler) checkBrand(ctx context.Context, d brand.Details, exceptID string) error {
	items, err := h.readStore.GetAll(ctx, store.CollectionBrands)
	if err != nil {
		return fmt.Errorf("checking brand uniqueness: %w", err)
	}
	for _, item := range items {
		b := item.(*readmodel.Brand)
		if b.ID == exceptID {
			continue
		}
		if strings.EqualFold(b.Name, d.Name) {
			return brand.ErrNameTaken
		}
		if b.Slug == d.Slug {
			return brand.ErrSlugTaken
		}
	}
	return nil
}
