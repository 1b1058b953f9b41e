package brand

import "time"

const (
	EventBrandCreated = "BrandCreated"
	EventBrandUpdated = "BrandUpdated"
	EventBrandDeleted = "BrandDeleted"
)

type BrandCreated struct {
	BrandID string `json:"brand_id"`
	Details
	CreatedAt time.Time `json:"created_at"`
}

type BrandUpdated struct {
	BrandID string `json:"brand_id"`
	Details
	UpdatedAt time.Time `json:"updated_at"`
}

type BrandDeleted struct {
	BrandID   string    `json:"brand_id"`
	DeletedAt time.Time `json:"deleted_at"`
}
