package readmodel

import (
	"time"

	"github.com/shopspring/decimal"
)

// Color is a display name plus hex code offered for a product
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Product is the read model for catalog products
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Category      string           `json:"category"`
	Subcategory   string           `json:"subcategory,omitempty"`
	Brand         string           `json:"brand"`
	Sizes         []string         `json:"sizes"`
	Colors        []Color          `json:"colors"`
	Images        []string         `json:"images"`
	Stock         int              `json:"stock"`
	Featured      bool             `json:"featured"`
	Tags          []string         `json:"tags,omitempty"`
	Rating        *float64         `json:"rating,omitempty"`
	ReviewCount   *int             `json:"reviewCount,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// PlaceholderImage is shown for products without images
const PlaceholderImage = "/placeholder.svg"

// CoverImage returns the first image or the placeholder
func (p *Product) CoverImage() string {
	if len(p.Images) == 0 {
		return PlaceholderImage
	}
	return p.Images[0]
}

// Reviews returns the review count, treating a missing count as zero
func (p *Product) Reviews() int {
	if p.ReviewCount == nil {
		return 0
	}
	return *p.ReviewCount
}

// Category is the read model for product categories
type Category struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Subcategories []string  `json:"subcategories"`
	Image         string    `json:"image,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Brand is the read model for brands
type Brand struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Logo        string    `json:"logo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// StoreSettings is the read model for the storefront settings singleton
type StoreSettings struct {
	StoreName       string    `json:"storeName"`
	Logo            string    `json:"logo,omitempty"`
	WhatsappNumber  string    `json:"whatsappNumber"`
	WhatsappMessage string    `json:"whatsappMessage"`
	Instagram       string    `json:"instagram"`
	Facebook        string    `json:"facebook"`
	Email           string    `json:"email"`
	Address         string    `json:"address"`
	Phone           string    `json:"phone,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
