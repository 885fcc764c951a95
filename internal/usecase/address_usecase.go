package usecase

import (
	"context"

	"pinpoint/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateAddressInput represents the input for registering a new address.
// The digital ID is issued server-side and never supplied by the caller.
type CreateAddressInput struct {
	Description          string  `json:"description"`
	Latitude             *float64 `json:"latitude,omitempty"`
	Longitude            *float64 `json:"longitude,omitempty"`
	BuildingPhotoURL     string  `json:"building_photo_url,omitempty"`
	GatePhotoURL         string  `json:"gate_photo_url,omitempty"`
	DoorPhotoURL         string  `json:"door_photo_url,omitempty"`
	DeliveryPeriod       string  `json:"delivery_period,omitempty"`
	DeliverySlot         string  `json:"delivery_slot,omitempty"`
	SpecialNote          string  `json:"special_note,omitempty"`
	ShowFallbackContacts bool    `json:"show_fallback_contacts"`
}

// UpdateAddressInput represents the input for updating an existing address.
// Nil fields are left unchanged. Coordinates are updated via PinCoordinates.
type UpdateAddressInput struct {
	Description      *string `json:"description,omitempty"`
	BuildingPhotoURL *string `json:"building_photo_url,omitempty"`
	GatePhotoURL     *string `json:"gate_photo_url,omitempty"`
	DoorPhotoURL     *string `json:"door_photo_url,omitempty"`
	SpecialNote      *string `json:"special_note,omitempty"`
}

// UpdatePreferencesInput represents the input for updating delivery preferences.
type UpdatePreferencesInput struct {
	DeliveryPeriod       *string `json:"delivery_period,omitempty"`
	DeliverySlot         *string `json:"delivery_slot,omitempty"`
	ShowFallbackContacts *bool   `json:"show_fallback_contacts,omitempty"`
}

// PinCoordinatesInput represents the input for pinning an address on the map.
type PinCoordinatesInput struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AddressUsecase defines the interface for address management use cases
type AddressUsecase interface {
	// CreateAddress registers a new address and issues its digital ID.
	CreateAddress(ctx context.Context, ownerID uuid.UUID, input *CreateAddressInput) (*entity.Address, error)

	// GetAddress retrieves one of the owner's addresses.
	GetAddress(ctx context.Context, ownerID, addressID uuid.UUID) (*entity.Address, error)

	// ListAddresses retrieves all addresses belonging to the owner.
	ListAddresses(ctx context.Context, ownerID uuid.UUID) ([]*entity.Address, error)

	// UpdateAddress updates descriptive fields of an address.
	UpdateAddress(ctx context.Context, ownerID, addressID uuid.UUID, input *UpdateAddressInput) (*entity.Address, error)

	// UpdatePreferences updates delivery preferences of an address.
	UpdatePreferences(ctx context.Context, ownerID, addressID uuid.UUID, input *UpdatePreferencesInput) (*entity.Address, error)

	// PinCoordinates sets the address's GPS pin and recomputes the distance
	// classification of every fallback contact attached to it.
	PinCoordinates(ctx context.Context, ownerID, addressID uuid.UUID, input *PinCoordinatesInput) (*entity.Address, error)

	// DeleteAddress removes an address together with its fallback contacts.
	DeleteAddress(ctx context.Context, ownerID, addressID uuid.UUID) error

	// GetAddressQR renders the address's digital ID as a QR code image.
	GetAddressQR(ctx context.Context, ownerID, addressID uuid.UUID) ([]byte, error)
}
