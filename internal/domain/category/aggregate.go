package category

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/example/fashion-catalog/internal/domain/aggregate"
	"github.com/example/fashion-catalog/internal/infrastructure/store"
	"github.com/example/fashion-catalog/internal/slug"
	"github.com/google/uuid"
)

const AggregateType = "Category"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidName      = errors.New("name is required")
	ErrInvalidSlug      = errors.New("invalid slug format")
	ErrSlugTaken        = errors.New("slug already in use")
)

// Details is the editable part of a category
type Details struct {
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Subcategories []string `json:"subcategories"`
	Image         string   `json:"image,omitempty"`
}

// Normalize trims fields, derives a missing slug from the name and removes
// blank or repeated subcategories
func (d Details) Normalize() Details {
	d.Name = strings.TrimSpace(d.Name)
	d.Slug = strings.TrimSpace(d.Slug)
	if d.Slug == "" {
		d.Slug = slug.Make(d.Name)
	}
	d.Image = strings.TrimSpace(d.Image)

	subs := make([]string, 0, len(d.Subcategories))
	for _, s := range d.Subcategories {
		s = strings.TrimSpace(s)
		if s != "" && !slices.Contains(subs, s) {
			subs = append(subs, s)
		}
	}
	d.Subcategories = subs
	return d
}

func (d Details) Validate() error {
	if d.Name == "" {
		return ErrInvalidName
	}
	if !slug.Valid(d.Slug) {
		return ErrInvalidSlug
	}
	return nil
}

// Category represents a product category
type Category struct {
	ID string `json:"id"`
	Details
	IsDeleted bool      `json:"is_deleted,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ApplyEvent implements aggregate.Aggregate
func (c *Category) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventCategoryCreated:
		var data CategoryCreated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.ID = data.CategoryID
		c.Details = data.Details
		c.CreatedAt = data.CreatedAt
		c.UpdatedAt = data.CreatedAt
	case EventCategoryUpdated:
		var data CategoryUpdated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.Details = data.Details
		c.UpdatedAt = data.UpdatedAt
	case EventCategoryDeleted:
		var data CategoryDeleted
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.IsDeleted = true
		c.UpdatedAt = data.DeletedAt
	}
	c.Version = event.Version
	return nil
}

// Service handles category domain operations
type Service struct {
	eventStore store.EventStoreInterface
}

// NewService creates a new category service
func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// Create creates a new category. Slug uniqueness is checked by the caller
// against the read side.
func (s *Service) Create(ctx context.Context, details Details) (*Category, error) {
	details = details.Normalize()
	if err := details.Validate(); err != nil {
		return nil, err
	}

	categoryID := uuid.New().String()
	now := time.Now().UTC()

	event := CategoryCreated{
		CategoryID: categoryID,
		Details:    details,
		CreatedAt:  now,
	}

	stored, err := s.eventStore.Append(ctx, categoryID, AggregateType, EventCategoryCreated, event)
	if err != nil {
		return nil, err
	}

	return &Category{
		ID:        categoryID,
		Details:   details,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   stored.Version,
	}, nil
}

// Update replaces the details of an existing category
func (s *Service) Update(ctx context.Context, categoryID string, details Details) (*Category, error) {
	details = details.Normalize()
	if err := details.Validate(); err != nil {
		return nil, err
	}

	c, err := s.Load(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	event := CategoryUpdated{
		CategoryID: categoryID,
		Details:    details,
		UpdatedAt:  time.Now().UTC(),
	}

	stored, err := s.eventStore.Append(ctx, categoryID, AggregateType, EventCategoryUpdated, event)
	if err != nil {
		return nil, err
	}

	c.Details = details
	c.UpdatedAt = event.UpdatedAt
	c.Version = stored.Version
	return c, nil
}

// Delete deletes a category
func (s *Service) Delete(ctx context.Context, categoryID string) error {
	if _, err := s.Load(ctx, categoryID); err != nil {
		return err
	}

	event := CategoryDeleted{
		CategoryID: categoryID,
		DeletedAt:  time.Now().UTC(),
	}

	_, err := s.eventStore.Append(ctx, categoryID, AggregateType, EventCategoryDeleted, event)
	return err
}

// Load rebuilds a live category from its events
func (s *Service) Load(ctx context.Context, categoryID string) (*Category, error) {
	c, found, err := aggregate.Load(ctx, s.eventStore, categoryID, func() *Category {
		return &Category{}
	})
	if err != nil {
		return nil, err
	}
	if !found || c.IsDeleted {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}
