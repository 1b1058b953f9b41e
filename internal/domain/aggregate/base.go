package aggregate

import (
	"context"
	"fmt"

	"github.com/example/fashion-catalog/internal/infrastructure/store"
)

// Aggregate defines the interface for event-sourced aggregates
type Aggregate interface {
	ApplyEvent(store.Event) error
}

// Load rebuilds an aggregate by replaying its events.
// The boolean reports whether any event exists for id.
func Load[T Aggregate](
	ctx context.Context,
	eventStore store.EventStoreInterface,
	id string,
	newAggregate func() T,
) (T, bool, error) {
	var zero T

	events, err := eventStore.GetEvents(ctx, id)
	if err != nil {
		return zero, false, fmt.Errorf("failed to load events: %w", err)
	}

	agg := newAggregate()
	for _, event := range events {
		if err := agg.ApplyEvent(event); err != nil {
			return zero, false, fmt.Errorf("failed to apply event %s: %w", event.EventType, err)
		}
	}

	return agg, len(events) > 0, nil
}
