package brand

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/example/fashion-catalog/internal/domain/aggregate"
	"github.com/example/fashion-catalog/internal/infrastructure/store"
	"github.com/example/fashion-catalog/internal/slug"
	"github.com/google/uuid"
)

const AggregateType = "Brand"

var (
	ErrBrandNotFound = errors.New("brand not found")
	ErrInvalidName   = errors.New("name is required")
	ErrInvalidSlug   = errors.New("invalid slug format")
	ErrNameTaken     = errors.New("brand name already in use")
	ErrSlugTaken     = errors.New("slug already in use")
)

type Details struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
}

func (d Details) Normalize() Details {
	d.Name = strings.TrimSpace(d.Name)
	d.Slug = strings.TrimSpace(d.Slug)
	if d.Slug == "" {
		d.Slug = slug.Make(d.Name)
	}
	d.Description = strings.TrimSpace(d.Description)
	d.Logo = strings.TrimSpace(d.Logo)
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

type Brand struct {
	ID string `json:"id"`
	Details
	IsDeleted bool      `json:"is_deleted,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

func (b *Brand) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventBrandCreated:
		var data BrandCreated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		b.ID = data.BrandID
		b.Details = data.Details
		b.CreatedAt = data.CreatedAt
		b.UpdatedAt = data.CreatedAt
	case EventBrandUpdated:
		var data BrandUpdated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		b.Details = data.Details
		b.UpdatedAt = data.UpdatedAt
	case EventBrandDeleted:
		var data BrandDeleted
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		b.IsDeleted = true
		b.UpdatedAt = data.DeletedAt
	}
	b.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

func (s *Service) Create(ctx context.Context, details Details) (*Brand, error) {
	details = details.Normalize()
	if err := details.Validate(); err != nil {
		return nil, err
	}

	brandID := uuid.New().String()
	now := time.Now().UTC()

	stored, err := s.eventStore.Append(ctx, brandID, AggregateType, EventBrandCreated, BrandCreated{
		BrandID:   brandID,
		Details:   details,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	return &Brand{
		ID:        brandID,
		Details:   details,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   stored.Version,
	}, nil
}

func (s *Service) Update(ctx context.Context, brandID string, details Details) (*Brand, error) {
	details = details.Normalize()
	if err := details.Validate(); err != nil {
		return nil, err
	}

	b, err := s.Load(ctx, brandID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stored, err := s.eventStore.Append(ctx, brandID, AggregateType, EventBrandUpdated, BrandUpdated{
		BrandID:   brandID,
		Details:   details,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	b.Details = details
	b.UpdatedAt = now
	b.Version = stored.Version
	return b, nil
}

func (s *Service) Delete(ctx context.Context, brandID string) error {
	if _, err := s.Load(ctx, brandID); err != nil {
		return err
	}

	_, err := s.eventStore.Append(ctx, brandID, AggregateType, EventBrandDeleted, BrandDeleted{
		BrandID:   brandID,
		DeletedAt: time.Now().UTC(),
	})
	return err
}

func (s *Service) Load(ctx context.Context, brandID string) (*Brand, error) {
	b, found, err := aggregate.Load(ctx, s.eventStore, brandID, func() *Brand {
		return &Brand{}
	})
	if err != nil {
		return nil, err
	}
	if !found || b.IsDeleted {
		return nil, ErrBrandNotFound
	}
	return b, nil
}
