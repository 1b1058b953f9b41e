package command

import (
	"github.com/example/fashion-catalog/internal/domain/brand"
	"github.com/example/fashion-catalog/internal/domain/category"
	"github.com/example/fashion-catalog/internal/domain/product"
	"github.com/example/fashion-catalog/internal/domain/settings"
)

// Product Commands
type CreateProduct struct {
	product.Details
}

type UpdateProduct struct {
	ProductID string
	product.Details
}

type DeleteProduct struct {
	ProductID string
}

// Category Commands
type CreateCategory struct {
	category.Details
}

type UpdateCategory struct {
	CategoryID string
	category.Details
}

type DeleteCategory struct {
	CategoryID string
}

// Brand Commands
type CreateBrand struct {
	brand.Details
}

type UpdateBrand struct {
	BrandID string
	brand.Details
}

type DeleteBrand struct {
	BrandID string
}

// UpdateSettings carries a partial settings patch; blank fields keep their
// current value
type UpdateSettings struct {
	settings.Settings
}
