package projection

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/fashion-catalog/internal/domain/brand"
	"github.com/example/fashion-catalog/internal/domain/category"
	"github.com/example/fashion-catalog/internal/domain/product"
	"github.com/example/fashion-catalog/internal/domain/settings"
	"github.com/example/fashion-catalog/internal/infrastructure/store"
	"github.com/example/fashion-catalog/internal/readmodel"
)

// Projector folds catalog events into the read store
type Projector struct {
	readStore store.ReadStoreInterface
}

func NewProjector(readStore store.ReadStoreInterface) *Projector {
	return &Projector{readStore: readStore}
}

// HandleEvent decodes one serialized event and applies it. It matches
// kafka.MessageHandler.
func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}
	return p.Apply(ctx, event)
}

// Publish implements store.Publisher so the projector can run in-process
// right behind the event store
func (p *Projector) Publish(ctx context.Context, key string, event any) error {
	if e, ok := event.(store.Event); ok {
		return p.Apply(ctx, e)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.HandleEvent(ctx, []byte(key), data)
}

// Apply projects a decoded event
func (p *Projector) Apply(ctx context.Context, event store.Event) error {
	log.Printf("[Projector] Received event: %s (aggregate: %s)", event.EventType, event.AggregateType)

	switch event.AggregateType {
	case product.AggregateType:
		return p.handleProductEvent(ctx, event)
	case category.AggregateType:
		return p.handleCategoryEvent(ctx, event)
	case brand.AggregateType:
		return p.handleBrandEvent(ctx, event)
	case settings.AggregateType:
		return p.handleSettingsEvent(ctx, event)
	}

	return nil
}

// Replay rebuilds the read store from every stored event
func (p *Projector) Replay(ctx context.Context, eventStore store.EventStoreInterface) (int, error) {
	events, err := eventStore.GetAllEvents(ctx)
	if err != nil {
		return 0, err
	}

	log.Printf("[Projector] Replaying %d events from event store...", len(events))
	for _, event := range events {
		if err := p.Apply(ctx, event); err != nil {
			log.Printf("[Projector] Error replaying event %s: %v", event.ID, err)
		}
	}
	return len(events), nil
}

func (p *Projector) handleProductEvent(ctx context.Context, event store.Event) error {
	switch event.EventType {
	case product.EventProductCreated:
		var e product.ProductCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.readStore.Set(ctx, store.CollectionProducts, e.ProductID, ProductModel(e.ProductID, e.Details, e.CreatedAt, e.CreatedAt))

	case product.EventProductUpdated:
		var e product.ProductUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		found, err := p.readStore.Update(ctx, store.CollectionProducts, e.ProductID, func(current any) any {
			return ProductModel(e.ProductID, e.Details, current.(*readmodel.Product).CreatedAt, e.UpdatedAt)
		})
		if err != nil || found {
			return err
		}
		return p.readStore.Set(ctx, store.CollectionProducts, e.ProductID, ProductModel(e.ProductID, e.Details, e.UpdatedAt, e.UpdatedAt))

	case product.EventProductDeleted:
		var e product.ProductDeleted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.readStore.Delete(ctx, store.CollectionProducts, e.ProductID)
	}

	return nil
}

func (p *Projector) handleCategoryEvent(ctx context.Context, event store.Event) error {
	switch event.EventType {
	case category.EventCategoryCreated:
		var e category.CategoryCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.readStore.Set(ctx, store.CollectionCategories, e.CategoryID, CategoryModel(e.CategoryID, e.Details, e.CreatedAt, e.CreatedAt))

	case category.EventCategoryUpdated:
		var e category.CategoryUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		found, err := p.readStore.Update(ctx, store.CollectionCategories, e.CategoryID, func(current any) any {
			return CategoryModel(e.CategoryID, e.Details, current.(*readmodel.Category).CreatedAt, e.UpdatedAt)
		})
		if err != nil || found {
			return err
		}
		return p.readStore.Set(ctx, store.CollectionCategories, e.CategoryID, CategoryModel(e.CategoryID, e.Details, e.UpdatedAt, e.UpdatedAt))

	case category.EventCategoryDeleted:
		var e category.CategoryDeleted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.readStore.Delete(ctx, store.CollectionCategories, e.CategoryID)
	}

	return nil
}

func (p *Projector) handleBrandEvent(ctx context.Context, event store.Event) error {
	switch event.EventType {
	case brand.EventBrandCreated:
		var e brand.BrandCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.readStore.Set(ctx, store.CollectionBrands, e.BrandID, BrandModel(e.BrandID, e.Details, e.CreatedAt, e.CreatedAt))

	case brand.EventBrandUpdated:
		var e brand.BrandUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		found, err := p.readStore.Update(ctx, store.CollectionBrands, e.BrandID, func(current any) any {
			return BrandModel(e.BrandID, e.Details, current.(*readmodel.Brand).CreatedAt, e.UpdatedAt)
		})
		if err != nil || found {
			return err
		}
		return p.readStore.Set(ctx, store.CollectionBrands, e.BrandID, BrandModel(e.BrandID, e.Details, e.UpdatedAt, e.UpdatedAt))

	case brand.EventBrandDeleted:
		var e brand.BrandDeleted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.readStore.Delete(ctx, store.CollectionBrands, e.BrandID)
	}

	return nil
}

func (p *Projector) handleSettingsEvent(ctx context.Context, event store.Event) error {
	if event.EventType != settings.EventSettingsUpdated {
		return nil
	}

	var e settings.SettingsUpdated
	if err := json.Unmarshal(event.Data, &e); err != nil {
		return err
	}
	return p.readStore.Set(ctx, store.CollectionSettings, store.SettingsID, settings.ToReadModel(e.Settings, e.UpdatedAt))
}
