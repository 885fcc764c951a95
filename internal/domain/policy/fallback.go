// Package policy implements the extended-distance rules for fallback contacts.
//
// A fallback contact whose great-circle distance from its parent address meets
// or exceeds the threshold requires an explicit fee acknowledgement and a
// scheduled delivery date and time slot before it may be persisted.
package policy

import (
	"strings"

	"pinpoint/internal/domain/entity"
	"pinpoint/internal/domain/geo"
)

// ExtendedDistanceKm is the inclusive threshold beyond which a fallback
// contact is classified as extended-distance.
const ExtendedDistanceKm = 3.0

// FieldError is a field-level validation failure, surfaced to the API layer
// as a list so the UI can mark each offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RequiresExtraFee classifies a contact by distance. An unset distance is
// never treated as "within range": it simply does not require the fee.
func RequiresExtraFee(distanceKm *float64) bool {
	return distanceKm != nil && *distanceKm >= ExtendedDistanceKm
}

// Evaluate recomputes DistanceKm and RequiresExtraFee on the contact from the
// parent address's coordinates and the contact's own. When either side is
// unpinned the distance is cleared, not zeroed.
func Evaluate(address *entity.Address, contact *entity.FallbackContact) {
	if address.HasCoordinates() && contact.HasCoordinates() {
		d := geo.Distance(
			geo.Point(*address.Latitude, *address.Longitude),
			geo.Point(*contact.Latitude, *contact.Longitude),
		)
		contact.DistanceKm = &d
	} else {
		contact.DistanceKm = nil
	}

	contact.RequiresExtraFee = RequiresExtraFee(contact.DistanceKm)
}

// ValidateGate checks the extended-distance gate on a contact about to be
// persisted. It returns one FieldError per missing field, or nil when the
// gate does not apply or is satisfied. Scheduling fields supplied on a
// standard-distance contact are stored as given without enforcement.
func ValidateGate(contact *entity.FallbackContact) []FieldError {
	if !contact.RequiresExtraFee {
		return nil
	}

	var fieldErrors []FieldError
	if strings.TrimSpace(contact.ScheduledDate) == "" {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   "scheduled_date",
			Message: "a delivery date is required for contacts beyond the extended-distance threshold",
		})
	}
	if strings.TrimSpace(contact.ScheduledTimeSlot) == "" {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   "scheduled_time_slot",
			Message: "a delivery time slot is required for contacts beyond the extended-distance threshold",
		})
	}
	if !contact.ExtraFeeAcknowledged {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   "extra_fee_acknowledged",
			Message: "the extended-distance fee must be acknowledged",
		})
	}

	return fieldErrors
}
