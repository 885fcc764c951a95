package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "pinpoint/internal/delivery/context"
	"pinpoint/internal/domain/entity"
	domainerrors "pinpoint/internal/domain/errors"
	"pinpoint/internal/domain/repository"
	"pinpoint/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Platforms accepted for device registrations.
const (
	DevicePlatformIOS     = "ios"
	DevicePlatformAndroid = "android"
	DevicePlatformWeb     = "web"
)

// deviceService implements the DeviceUsecase interface.
type deviceService struct {
	deviceRepo repository.DeviceRepository
	logger     *slog.Logger
}

// DeviceServiceParams holds dependencies for DeviceService, injected by Fx.
type DeviceServiceParams struct {
	fx.In

	DeviceRepo repository.DeviceRepository
	Logger     *slog.Logger
}

// NewDeviceService is the constructor for deviceService.
func NewDeviceService(params DeviceServiceParams) usecase.DeviceUsecase {
	return &deviceService{
		deviceRepo: params.DeviceRepo,
		logger:     params.Logger,
	}
}

func (srv *deviceService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterDevice records a device token for the user. Registering the same
// token twice is reported as a conflict rather than a duplicate row.
func (srv *deviceService) RegisterDevice(ctx context.Context, userID uuid.UUID, input *usecase.RegisterDeviceInput) (*entity.DeviceToken, error) {
	if strings.TrimSpace(input.Token) == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("device token is required")
	}
	if !isValidDevicePlatform(input.Platform) {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown device platform")
	}

	device := &entity.DeviceToken{
		ID:       uuid.New(),
		UserID:   userID,
		Token:    input.Token,
		Platform: input.Platform,
		IsActive: true,
	}

	if err := srv.deviceRepo.CreateDevice(ctx, device); err != nil {
		if errors.Is(err, repository.ErrDuplicateDevice) {
			return nil, domainerrors.ErrConflict.WrapMessage("device token already registered")
		}

		return nil, errors.Wrap(err, "failed to create device")
	}

	srv.log(ctx).Info("Device registered",
		slog.Any("deviceID", device.ID),
		slog.String("platform", device.Platform),
	)

	return device, nil
}

// ListDevices retrieves the user's active devices.
func (srv *deviceService) ListDevices(ctx context.Context, userID uuid.UUID) ([]*entity.DeviceToken, error) {
	devices, err := srv.deviceRepo.FindActiveDevicesByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list devices")
	}

	return devices, nil
}

// UpdateDeviceToken replaces the push token of one of the user's devices.
func (srv *deviceService) UpdateDeviceToken(ctx context.Context, userID, deviceID uuid.UUID, token string) error {
	if strings.TrimSpace(token) == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("device token is required")
	}

	if err := srv.requireOwnership(ctx, userID, deviceID); err != nil {
		return err
	}

	if err := srv.deviceRepo.UpdateDeviceToken(ctx, deviceID, token); err != nil {
		if errors.Is(err, repository.ErrDuplicateDevice) {
			return domainerrors.ErrConflict.WrapMessage("device token already registered")
		}

		return errors.Wrap(err, "failed to update device token")
	}

	return nil
}

// DeactivateDevice stops notifications to one of the user's devices.
func (srv *deviceService) DeactivateDevice(ctx context.Context, userID, deviceID uuid.UUID) error {
	if err := srv.requireOwnership(ctx, userID, deviceID); err != nil {
		return err
	}

	if err := srv.deviceRepo.DeactivateDevice(ctx, deviceID); err != nil {
		return errors.Wrap(err, "failed to deactivate device")
	}

	srv.log(ctx).Info("Device deactivated", slog.Any("deviceID", deviceID))

	return nil
}

func (srv *deviceService) requireOwnership(ctx context.Context, userID, deviceID uuid.UUID) error {
	device, err := srv.deviceRepo.FindDeviceByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("device not found")
		}

		return errors.Wrap(err, "failed to find device")
	}
	if device.UserID != userID {
		return domainerrors.ErrForbidden.WrapMessage("device access denied")
	}

	return nil
}

func isValidDevicePlatform(platform string) bool {
	switch platform {
	case DevicePlatformIOS, DevicePlatformAndroid, DevicePlatformWeb:
		return true
	default:
		return false
	}
}
