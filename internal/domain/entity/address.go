// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Address is the core entity for a registered delivery location.
// Couriers never see the internal ID; they address it by its DigitalID.
type Address struct {
	ID                   uuid.UUID // The Global Unique Identifier (GUID) for the address.
	DigitalID            string    // The public short code used for courier lookup. Globally unique, immutable once issued.
	OwnerID              uuid.UUID // The ID of the resident that owns this address.
	Description          string    // Free-text description of the location ("Villa 12, behind the bakery").
	Latitude             *float64  // The geographic latitude. Nil until the owner pins the location on the map.
	Longitude            *float64  // The geographic longitude. Nil until the owner pins the location on the map.
	BuildingPhotoURL     string    // Optional photo of the building.
	GatePhotoURL         string    // Optional photo of the gate.
	DoorPhotoURL         string    // Optional photo of the door.
	DeliveryPeriod       string    // Preferred delivery period, e.g. "morning", "evening".
	DeliverySlot         string    // Preferred slot within the period, e.g. "10:00-12:00".
	SpecialNote          string    // Free-text delivery instructions for the driver.
	ShowFallbackContacts bool      // Whether fallback contacts are revealed to couriers on lookup.
	CreatedAt            time.Time // Timestamp of when this address was created.
	UpdatedAt            time.Time // Timestamp of the last modification.
}

// HasCoordinates reports whether the address has been pinned on the map.
func (a *Address) HasCoordinates() bool {
	return a.Latitude != nil && a.Longitude != nil
}
