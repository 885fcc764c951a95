// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryFeedback is a courier's report on a delivery attempt at an address.
type DeliveryFeedback struct {
	ID        uuid.UUID // The Global Unique Identifier (GUID) for the feedback record.
	AddressID uuid.UUID // The address the delivery was attempted at.
	CourierID uuid.UUID // The driver who recorded the feedback.
	Outcome   string    // Outcome of the attempt: "delivered", "failed" or "returned".
	Rating    int       // Address findability rating, 1..5. Zero means unrated.
	Comment   string    // Optional free-text comment.
	CreatedAt time.Time // Timestamp of when the feedback was recorded.
}
