package product

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/example/fashion-catalog/internal/domain/aggregate"
	"github.com/example/fashion-catalog/internal/infrastructure/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateType = "Product"

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrInvalidName          = errors.New("name is required")
	ErrInvalidPrice         = errors.New("price must be between 0 and 9999999999.99 with at most 2 decimal places")
	ErrInvalidOriginalPrice = errors.New("original price must be between 0 and 9999999999.99 with at most 2 decimal places")
	ErrInvalidStock         = errors.New("stock must not be negative")
	ErrCategoryRequired     = errors.New("category is required")
	ErrBrandRequired        = errors.New("brand is required")
	ErrInvalidColor         = errors.New("color needs a name and a #rgb or #rrggbb hex code")
	ErrInvalidRating        = errors.New("rating must be between 0 and 5")
	ErrInvalidReviewCount   = errors.New("review count must not be negative")
)

// maxPrice is the first amount a NUMERIC(12,2) column cannot hold
var maxPrice = decimal.New(1, 10)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Color is a named swatch offered for a product
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Details is the editable part of a product
type Details struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
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
	ReviewCount   *int             `json:"review_count,omitempty"`
}

// Normalize trims text fields and drops blank list entries
func (d Details) Normalize() Details {
	d.Name = strings.TrimSpace(d.Name)
	d.Category = strings.TrimSpace(d.Category)
	d.Subcategory = strings.TrimSpace(d.Subcategory)
	d.Brand = strings.TrimSpace(d.Brand)
	d.Sizes = compact(d.Sizes)
	d.Images = compact(d.Images)
	d.Tags = compact(d.Tags)
	if d.Colors == nil {
		d.Colors = []Color{}
	}
	return d
}

// Validate checks the catalog invariants: prices are storable cent amounts,
// stock is never negative, name, category and brand are present
func (d Details) Validate() error {
	if d.Name == "" {
		return ErrInvalidName
	}
	if !validPrice(d.Price) {
		return ErrInvalidPrice
	}
	if d.OriginalPrice != nil && !validPrice(*d.OriginalPrice) {
		return ErrInvalidOriginalPrice
	}
	if d.Stock < 0 {
		return ErrInvalidStock
	}
	if d.Category == "" {
		return ErrCategoryRequired
	}
	if d.Brand == "" {
		return ErrBrandRequired
	}
	for _, c := range d.Colors {
		if strings.TrimSpace(c.Name) == "" || !hexColor.MatchString(c.Hex) {
			return ErrInvalidColor
		}
	}
	if d.Rating != nil && (*d.Rating < 0 || *d.Rating > 5) {
		return ErrInvalidRating
	}
	if d.ReviewCount != nil && *d.ReviewCount < 0 {
		return ErrInvalidReviewCount
	}
	return nil
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return slices.Clip(out)
}

type Product struct {
	ID string `json:"id"`
	Details
	IsDeleted bool      `json:"is_deleted,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ApplyEvent applies a single event to the product state (implements aggregate.Aggregate)
func (p *Product) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventProductCreated:
		var data ProductCreated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.ID = data.ProductID
		p.Details = data.Details
		p.CreatedAt = data.CreatedAt
		p.UpdatedAt = data.CreatedAt
	case EventProductUpdated:
		var data ProductUpdated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.Details = data.Details
		p.UpdatedAt = data.UpdatedAt
	case EventProductDeleted:
		var data ProductDeleted
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.IsDeleted = true
		p.UpdatedAt = data.DeletedAt
	}
	p.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

func (s *Service) Create(ctx context.Context, details Details) (*Product, error) {
	details = details.Normalize()
	if err := details.Validate(); err != nil {
		return nil, err
	}

	productID := uuid.New().String()
	now := time.Now().UTC()

	event := ProductCreated{
		ProductID: productID,
		Details:   details,
		CreatedAt: now,
	}

	stored, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductCreated, event)
	if err != nil {
		return nil, err
	}

	return &Product{
		ID:        productID,
		Details:   details,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   stored.Version,
	}, nil
}

// Update replaces the details of an existing product
func (s *Service) Update(ctx context.Context, productID string, details Details) (*Product, error) {
	details = details.Normalize()
	if err := details.Validate(); err != nil {
		return nil, err
	}

	p, err := s.Load(ctx, productID)
	if err != nil {
		return nil, err
	}

	event := ProductUpdated{
		ProductID: productID,
		Details:   details,
		UpdatedAt: time.Now().UTC(),
	}

	stored, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductUpdated, event)
	if err != nil {
		return nil, err
	}

	p.Details = details
	p.UpdatedAt = event.UpdatedAt
	p.Version = stored.Version
	return p, nil
}

func (s *Service) Delete(ctx context.Context, productID string) error {
	if _, err := s.Load(ctx, productID); err != nil {
		return err
	}

	event := ProductDeleted{
		ProductID: productID,
		DeletedAt: time.Now().UTC(),
	}

	_, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductDeleted, event)
	return err
}

// Load rebuilds a live product; missing and deleted products are not found
func (s *Service) Load(ctx context.Context, productID string) (*Product, error) {
	p, found, err := aggregate.Load(ctx, s.eventStore, productID, func() *Product {
		return &Product{}
	})
	if err != nil {
		return nil, err
	}
	if !found || p.IsDeleted {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// validPrice accepts non-negative amounts with whole cents below maxPrice
func validPrice(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThan(maxPrice) && p.Equal(p.Round(2))
}
