// Package settings holds the storefront settings singleton. Every change is
// recorded as one SettingsUpdated event carrying the complete result.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/example/fashion-catalog/internal/domain/aggregate"
	"github.com/example/fashion-catalog/internal/infrastructure/store"
	"github.com/example/fashion-catalog/internal/readmodel"
)

const (
	AggregateType        = "Settings"
	EventSettingsUpdated = "SettingsUpdated"
)

var ErrInvalidWhatsappNumber = errors.New("whatsapp number must contain 10 to 15 digits")

var digits = regexp.MustCompile(`^[0-9]{10,15}$`)

type Settings struct {
	StoreName       string `json:"store_name"`
	Logo            string `json:"logo,omitempty"`
	WhatsappNumber  string `json:"whatsapp_number"`
	WhatsappMessage string `json:"whatsapp_message"`
	Instagram       string `json:"instagram"`
	Facebook        string `json:"facebook"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	Phone           string `json:"phone,omitempty"`
}

// Defaults are served until an administrator saves settings
func Defaults() Settings {
	return Settings{
		StoreName:       "Loja A Grande Família",
		Logo:            "/logo-grande-familia.png",
		WhatsappNumber:  "5593991084582",
		WhatsappMessage: "Olá! Gostaria de saber mais sobre os produtos.",
		Instagram:       "https://instagram.com/lojagrandefamilia",
		Facebook:        "https://facebook.com/lojagrandefamilia",
		Email:           "contato@lojagrandefamilia.com",
		Address:         "Av. Tancredo Neves, 2035, Santarém, PA",
	}
}

// Merge overlays the non-blank fields of patch onto s
func (s Settings) Merge(patch Settings) Settings {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&s.StoreName, patch.StoreName)
	set(&s.Logo, patch.Logo)
	set(&s.WhatsappNumber, NormalizeNumber(patch.WhatsappNumber))
	set(&s.WhatsappMessage, patch.WhatsappMessage)
	set(&s.Instagram, patch.Instagram)
	set(&s.Facebook, patch.Facebook)
	set(&s.Email, patch.Email)
	set(&s.Address, patch.Address)
	set(&s.Phone, patch.Phone)
	return s
}

func (s Settings) Validate() error {
	if s.WhatsappNumber != "" && !digits.MatchString(s.WhatsappNumber) {
		return ErrInvalidWhatsappNumber
	}
	return nil
}

// NormalizeNumber strips the punctuation people type into phone numbers
// ("+55 (93) 99108-4582" -> "5593991084582")
func NormalizeNumber(n string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '+', '-', '(', ')', '.':
			return -1
		}
		return r
	}, n)
}

// ToReadModel converts settings into the storefront read model
func ToReadModel(s Settings, updatedAt time.Time) *readmodel.StoreSettings {
	return &readmodel.StoreSettings{
		StoreName:       s.StoreName,
		Logo:            s.Logo,
		WhatsappNumber:  s.WhatsappNumber,
		WhatsappMessage: s.WhatsappMessage,
		Instagram:       s.Instagram,
		Facebook:        s.Facebook,
		Email:           s.Email,
		Address:         s.Address,
		Phone:           s.Phone,
		UpdatedAt:       updatedAt,
	}
}

type SettingsUpdated struct {
	Settings
	UpdatedAt time.Time `json:"updated_at"`
}

// State is the replayed settings aggregate
type State struct {
	Settings
	UpdatedAt time.Time
	Version   int
}

func (st *State) ApplyEvent(event store.Event) error {
	if event.EventType == EventSettingsUpdated {
		var data SettingsUpdated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		st.Settings = data.Settings
		st.UpdatedAt = data.UpdatedAt
	}
	st.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// Update merges patch into the current settings (defaults when never saved)
func (s *Service) Update(ctx context.Context, patch Settings) (*State, error) {
	st, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	merged := st.Settings.Merge(patch)
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	event := SettingsUpdated{Settings: merged, UpdatedAt: time.Now().UTC()}
	stored, err := s.eventStore.Append(ctx, store.SettingsID, AggregateType, EventSettingsUpdated, event)
	if err != nil {
		return nil, err
	}

	return &State{Settings: merged, UpdatedAt: event.UpdatedAt, Version: stored.Version}, nil
}

// Load returns the current settings, falling back to Defaults
func (s *Service) Load(ctx context.Context) (*State, error) {
	st, found, err := aggregate.Load(ctx, s.eventStore, store.SettingsID, func() *State {
		return &State{}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return &State{Settings: Defaults()}, nil
	}
	return st, nil
}
