// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"pinpoint/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for device persistence.
var (
	// ErrDeviceNotFound is returned when a device token is not found.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrDuplicateDevice is returned when trying to register a device token that already exists.
	ErrDuplicateDevice = errors.New("device already exists")
)

// DeviceRepository defines the interface for push-notification device registrations.
type DeviceRepository interface {
	// CreateDevice persists a new device token for a user.
	CreateDevice(ctx context.Context, device *entity.DeviceToken) error

	// FindDeviceByID retrieves a device by its unique ID.
	FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.DeviceToken, error)

	// FindActiveDevicesByUser retrieves all active devices for a specific user.
	FindActiveDevicesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.DeviceToken, error)

	// FindActiveDevicesByUsers retrieves all active devices for a list of user IDs.
	// Used for batch fetching devices for notification sending.
	FindActiveDevicesByUsers(ctx context.Context, userIDs []uuid.UUID) ([]*entity.DeviceToken, error)

	// UpdateDeviceToken replaces the push token for a specific device.
	UpdateDeviceToken(ctx context.Context, deviceID uuid.UUID, token string) error

	// DeactivateDevice marks a device as inactive without removing its history.
	DeactivateDevice(ctx context.Context, id uuid.UUID) error
}
