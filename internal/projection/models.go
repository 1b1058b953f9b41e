package projection

import (
	"time"

	"github.com/example/fashion-catalog/internal/domain/brand"
	"github.com/example/fashion-catalog/internal/domain/category"
	"github.com/example/fashion-catalog/internal/domain/product"
	"github.com/example/fashion-catalog/internal/readmodel"
)

// ProductModel builds the storefront view of a product
func ProductModel(id string, d product.Details, createdAt, updatedAt time.Time) *readmodel.Product {
	colors := make([]readmodel.Color, 0, len(d.Colors))
	for _, c := range d.Colors {
		colors = append(colors, readmodel.Color{Name: c.Name, Hex: c.Hex})
	}

	return &readmodel.Product{
		ID:            id,
		Name:          d.Name,
		Description:   d.Description,
		Price:         d.Price,
		OriginalPrice: d.OriginalPrice,
		Category:      d.Category,
		Subcategory:   d.Subcategory,
		Brand:         d.Brand,
		Sizes:         nonNil(d.Sizes),
		Colors:        colors,
		Images:        nonNil(d.Images),
		Stock:         d.Stock,
		Featured:      d.Featured,
		Tags:          d.Tags,
		Rating:        d.Rating,
		ReviewCount:   d.ReviewCount,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}

func CategoryModel(id string, d category.Details, createdAt, updatedAt time.Time) *readmodel.Category {
	return &readmodel.Category{
		ID:            id,
		Name:          d.Name,
		Slug:          d.Slug,
		Subcategories: nonNil(d.Subcategories),
		Image:         d.Image,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}

func BrandModel(id string, d brand.Details, createdAt, updatedAt time.Time) *readmodel.Brand {
	return &readmodel.Brand{
		ID:          id,
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
		Logo:        d.Logo,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
