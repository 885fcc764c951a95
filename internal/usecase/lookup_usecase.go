package usecase

import (
	"context"

	"pinpoint/internal/domain/entity"

	"github.com/google/uuid"
)

// LookupOutput is the courier-facing view of an address. Internal keys are
// never exposed; the digital ID is the only identifier couriers see.
type LookupOutput struct {
	DigitalID        string                    `json:"digital_id"`
	Description      string                    `json:"description"`
	Latitude         *float64                  `json:"latitude,omitempty"`
	Longitude        *float64                  `json:"longitude,omitempty"`
	BuildingPhotoURL string                    `json:"building_photo_url,omitempty"`
	GatePhotoURL     string                    `json:"gate_photo_url,omitempty"`
	DoorPhotoURL     string                    `json:"door_photo_url,omitempty"`
	DeliveryPeriod   string                    `json:"delivery_period,omitempty"`
	DeliverySlot     string                    `json:"delivery_slot,omitempty"`
	SpecialNote      string                    `json:"special_note,omitempty"`
	FallbackContacts []*entity.FallbackContact `json:"fallback_contacts,omitempty"`
}

// LookupUsecase defines the courier-side address lookup.
type LookupUsecase interface {
	// LookupByDigitalID resolves an address for a courier. The courier's
	// company subscription must allow lookups; fallback contacts are included
	// only when the address owner opted in.
	LookupByDigitalID(ctx context.Context, courierID uuid.UUID, digitalID string) (*LookupOutput, error)
}
