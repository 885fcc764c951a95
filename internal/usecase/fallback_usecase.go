package usecase

import (
	"context"

	"pinpoint/internal/domain/entity"

	"github.com/google/uuid"
)

// AddFallbackContactInput represents the input for attaching a fallback
// contact to an address. Distance and fee classification are computed
// server-side; any client-supplied values are ignored.
type AddFallbackContactInput struct {
	Name                 string   `json:"name"`
	Phone                string   `json:"phone"`
	Relationship         string   `json:"relationship,omitempty"`
	TextAddress          string   `json:"text_address,omitempty"`
	Latitude             *float64 `json:"latitude,omitempty"`
	Longitude            *float64 `json:"longitude,omitempty"`
	ExtraFeeAcknowledged bool     `json:"extra_fee_acknowledged"`
	ScheduledDate        string   `json:"scheduled_date,omitempty"`
	ScheduledTimeSlot    string   `json:"scheduled_time_slot,omitempty"`
	BuildingPhotoURL     string   `json:"building_photo_url,omitempty"`
	GatePhotoURL         string   `json:"gate_photo_url,omitempty"`
	SpecialNote          string   `json:"special_note,omitempty"`
}

// UpdateFallbackContactInput represents the input for updating a fallback
// contact. Nil fields are left unchanged.
type UpdateFallbackContactInput struct {
	Name                 *string  `json:"name,omitempty"`
	Phone                *string  `json:"phone,omitempty"`
	Relationship         *string  `json:"relationship,omitempty"`
	TextAddress          *string  `json:"text_address,omitempty"`
	Latitude             *float64 `json:"latitude,omitempty"`
	Longitude            *float64 `json:"longitude,omitempty"`
	ExtraFeeAcknowledged *bool    `json:"extra_fee_acknowledged,omitempty"`
	ScheduledDate        *string  `json:"scheduled_date,omitempty"`
	ScheduledTimeSlot    *string  `json:"scheduled_time_slot,omitempty"`
	BuildingPhotoURL     *string  `json:"building_photo_url,omitempty"`
	GatePhotoURL         *string  `json:"gate_photo_url,omitempty"`
	SpecialNote          *string  `json:"special_note,omitempty"`
}

// FallbackUsecase defines the interface for fallback-contact management.
// Every mutating operation applies the extended-distance gate.
type FallbackUsecase interface {
	// AddContact attaches a new fallback contact to one of the owner's addresses.
	AddContact(ctx context.Context, ownerID, addressID uuid.UUID, input *AddFallbackContactInput) (*entity.FallbackContact, error)

	// ListContacts retrieves all fallback contacts of one of the owner's addresses.
	ListContacts(ctx context.Context, ownerID, addressID uuid.UUID) ([]*entity.FallbackContact, error)

	// UpdateContact updates a fallback contact, recomputing its classification.
	UpdateContact(ctx context.Context, ownerID, contactID uuid.UUID, input *UpdateFallbackContactInput) (*entity.FallbackContact, error)

	// DeleteContact removes a fallback contact.
	DeleteContact(ctx context.Context, ownerID, contactID uuid.UUID) error
}
