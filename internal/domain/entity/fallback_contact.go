// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// FallbackContact is an alternate delivery recipient tied to exactly one Address.
// DistanceKm and RequiresExtraFee are always computed server-side from the
// contact's coordinates and the parent address's coordinates; client-supplied
// values for either field are ignored.
type FallbackContact struct {
	ID                   uuid.UUID // The Global Unique Identifier (GUID) for the contact.
	AddressID            uuid.UUID // The parent Address. Deleting the address cascades to its contacts.
	Name                 string    // The contact's name.
	Phone                string    // The contact's phone number.
	Relationship         string    // Optional relationship label ("neighbour", "relative").
	TextAddress          string    // Optional free-text address of the contact.
	Latitude             *float64  // Optional latitude of the contact's location.
	Longitude            *float64  // Optional longitude of the contact's location.
	DistanceKm           *float64  // Great-circle distance from the parent address, nil when either side is unpinned.
	RequiresExtraFee     bool      // True iff DistanceKm is known and meets the extended-distance threshold.
	ExtraFeeAcknowledged bool      // The owner's explicit acceptance of the extended-distance fee.
	ScheduledDate        string    // Delivery date required for extended-distance contacts.
	ScheduledTimeSlot    string    // Delivery time slot required for extended-distance contacts.
	BuildingPhotoURL     string    // Optional photo of the contact's building.
	GatePhotoURL         string    // Optional photo of the contact's gate.
	SpecialNote          string    // Optional free-text note for the driver.
	CreatedAt            time.Time // Timestamp of when this contact was created.
	UpdatedAt            time.Time // Timestamp of the last modification.
}

// HasCoordinates reports whether the contact's own location is pinned.
func (c *FallbackContact) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}
