// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// DeviceToken stores a push-notification token registered by a user's device.
type DeviceToken struct {
	ID        uuid.UUID // The unique ID for this device registration.
	UserID    uuid.UUID // The account the device belongs to.
	Token     string    // The FCM registration token.
	Platform  string    // "ios", "android" or "web".
	IsActive  bool      // Inactive tokens are skipped and eventually pruned.
	CreatedAt time.Time // Timestamp of when the device was registered.
	UpdatedAt time.Time // Timestamp of the last modification.
}
