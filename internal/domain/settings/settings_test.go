package settings

import (
	"context"
	"testing"

	"github.com/example/fashion-catalog/internal/infrastructure/store"
	"github.com/example/fashion-catalog/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_KeepsBlankFields(t *testing.T) {
	merged := Defaults().Merge(Settings{StoreName: "Grande Família Outlet", Instagram: "  "})

	assert.Equal(t, "Grande Família Outlet", merged.StoreName)
	assert.Equal(t, Defaults().Instagram, merged.Instagram)
	assert.Equal(t, Defaults().WhatsappNumber, merged.WhatsappNumber)
}

func TestNormalizeNumber(t *testing.T) {
	assert.Equal(t, "5593991084582", NormalizeNumber("+55 (93) 99108-4582"))
	assert.Equal(t, "", NormalizeNumber(""))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Defaults().Validate())
	assert.NoError(t, Settings{}.Validate())
	assert.ErrorIs(t, Settings{WhatsappNumber: "abc123"}.Validate(), ErrInvalidWhatsappNumber)
	assert.ErrorIs(t, Settings{WhatsappNumber: "123"}.Validate(), ErrInvalidWhatsappNumber)
}

func TestService_Load_DefaultsWhenUnsaved(t *testing.T) {
	service := NewService(mocks.NewMockEventStore())

	st, err := service.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Defaults(), st.Settings)
	assert.Equal(t, 0, st.Version)
}

func TestService_Update_AppendsMergedSnapshot(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	service := NewService(eventStore)
	ctx := context.Background()

	st, err := service.Update(ctx, Settings{WhatsappNumber: "+55 93 98888-7777"})
	require.NoError(t, err)
	assert.Equal(t, "5593988887777", st.WhatsappNumber)
	assert.Equal(t, Defaults().StoreName, st.StoreName)
	assert.Equal(t, 1, st.Version)

	st, err = service.Update(ctx, Settings{Phone: "(93) 3522-0000"})
	require.NoError(t, err)
	assert.Equal(t, "5593988887777", st.WhatsappNumber)
	assert.Equal(t, "(93) 3522-0000", st.Phone)
	assert.Equal(t, 2, st.Version)

	require.Len(t, eventStore.AppendCalls, 2)
	assert.Equal(t, store.SettingsID, eventStore.AppendCalls[0].AggregateID)
	assert.Equal(t, EventSettingsUpdated, eventStore.AppendCalls[0].EventType)

	loaded, err := service.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, st.Settings, loaded.Settings)
}

func TestService_Update_RejectsBadNumber(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	service := NewService(eventStore)

	_, err := service.Update(context.Background(), Settings{WhatsappNumber: "call me"})

	assert.ErrorIs(t, err, ErrInvalidWhatsappNumber)
	assert.Empty(t, eventStore.AppendCalls)
}
