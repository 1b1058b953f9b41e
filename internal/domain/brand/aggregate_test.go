package brand

import (
	"context"
	"testing"

	"github.com/example/fashion-catalog/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBrandService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	return NewService(eventStore), eventStore
}

func TestService_Create(t *testing.T) {
	service, eventStore := newTestBrandService()

	b, err := service.Create(context.Background(), Details{Name: "H&M", Description: " Moda acessível "})

	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "h-m", b.Slug)
	assert.Equal(t, "Moda acessível", b.Description)
	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventBrandCreated, eventStore.AppendCalls[0].EventType)
	assert.Equal(t, AggregateType, eventStore.AppendCalls[0].AggregateType)
}

func TestService_Create_Invalid(t *testing.T) {
	service, eventStore := newTestBrandService()

	_, err := service.Create(context.Background(), Details{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = service.Create(context.Background(), Details{Name: "Zara", Slug: "Zara!"})
	assert.ErrorIs(t, err, ErrInvalidSlug)

	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_UpdateAndDelete(t *testing.T) {
	service, eventStore := newTestBrandService()
	ctx := context.Background()

	b, err := service.Create(ctx, Details{Name: "Reserva"})
	require.NoError(t, err)

	updated, err := service.Update(ctx, b.ID, Details{Name: "Reserva", Logo: "/brands/reserva.png"})
	require.NoError(t, err)
	assert.Equal(t, "/brands/reserva.png", updated.Logo)
	assert.Equal(t, 2, updated.Version)

	require.NoError(t, service.Delete(ctx, b.ID))
	assert.Len(t, eventStore.AppendCalls, 3)

	_, err = service.Update(ctx, b.ID, Details{Name: "Reserva"})
	assert.ErrorIs(t, err, ErrBrandNotFound)
	assert.ErrorIs(t, service.Delete(ctx, b.ID), ErrBrandNotFound)
}

func TestService_Load_Replays(t *testing.T) {
	service, eventStore := newTestBrandService()
	require.NoError(t, eventStore.AddEvent("b-1", AggregateType, EventBrandCreated, BrandCreated{
		BrandID: "b-1",
		Details: Details{Name: "Animale", Slug: "animale"},
	}))

	b, err := service.Load(context.Background(), "b-1")

	require.NoError(t, err)
	assert.Equal(t, "Animale", b.Name)
	assert.Equal(t, 1, b.Version)
}
