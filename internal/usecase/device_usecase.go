package usecase

import (
	"context"

	"pinpoint/internal/domain/entity"

	"github.com/google/uuid"
)

// RegisterDeviceInput represents the input for registering a push device.
type RegisterDeviceInput struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// DeviceUsecase defines the interface for push-notification device management.
type DeviceUsecase interface {
	// RegisterDevice records a device token for the user.
	RegisterDevice(ctx context.Context, userID uuid.UUID, input *RegisterDeviceInput) (*entity.DeviceToken, error)

	// ListDevices retrieves the user's active devices.
	ListDevices(ctx context.Context, userID uuid.UUID) ([]*entity.DeviceToken, error)

	// UpdateDeviceToken replaces the push token of one of the user's devices.
	UpdateDeviceToken(ctx context.Context, userID, deviceID uuid.UUID, token string) error

	// DeactivateDevice stops notifications to one of the user's devices.
	DeactivateDevice(ctx context.Context, userID, deviceID uuid.UUID) error
}
