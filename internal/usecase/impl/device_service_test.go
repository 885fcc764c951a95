package impl

import (
	"context"
	"testing"

	"pinpoint/internal/domain/entity"
	domainerrors "pinpoint/internal/domain/errors"
	"pinpoint/internal/domain/repository"
	"pinpoint/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDeviceHarness() (*mockDeviceRepository, usecase.DeviceUsecase) {
	deviceRepo := &mockDeviceRepository{}
	svc := NewDeviceService(DeviceServiceParams{
		DeviceRepo: deviceRepo,
		Logger:     discardLogger(),
	})

	return deviceRepo, svc
}

func TestDeviceService_RegisterDevice(t *testing.T) {
	deviceRepo, svc := newDeviceHarness()

	ctx := context.Background()
	userID := uuid.New()

	deviceRepo.On("CreateDevice", ctx, mock.MatchedBy(func(device *entity.DeviceToken) bool {
		return device.UserID == userID && device.Token == "fcm-token-1" && device.IsActive
	})).Return(nil)

	device, err := svc.RegisterDevice(ctx, userID, &usecase.RegisterDeviceInput{
		Token:    "fcm-token-1",
		Platform: "android",
	})

	require.NoError(t, err)
	assert.Equal(t, "android", device.Platform)
	deviceRepo.AssertExpectations(t)
}

func TestDeviceService_RegisterDevice_DuplicateToken(t *testing.T) {
	deviceRepo, svc := newDeviceHarness()

	ctx := context.Background()
	deviceRepo.On("CreateDevice", ctx, mock.Anything).Return(repository.ErrDuplicateDevice)

	_, err := svc.RegisterDevice(ctx, uuid.New(), &usecase.RegisterDeviceInput{
		Token:    "fcm-token-1",
		Platform: "ios",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrConflict))
}

func TestDeviceService_RegisterDevice_UnknownPlatform(t *testing.T) {
	_, svc := newDeviceHarness()

	_, err := svc.RegisterDevice(context.Background(), uuid.New(), &usecase.RegisterDeviceInput{
		Token:    "fcm-token-1",
		Platform: "blackberry",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestDeviceService_UpdateDeviceToken_OwnershipEnforced(t *testing.T) {
	deviceRepo, svc := newDeviceHarness()

	ctx := context.Background()
	deviceID := uuid.New()
	deviceRepo.On("FindDeviceByID", ctx, deviceID).Return(&entity.DeviceToken{
		ID:     deviceID,
		UserID: uuid.New(),
	}, nil)

	err := svc.UpdateDeviceToken(ctx, uuid.New(), deviceID, "new-token")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
	deviceRepo.AssertNotCalled(t, "UpdateDeviceToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeviceService_DeactivateDevice(t *testing.T) {
	deviceRepo, svc := newDeviceHarness()

	ctx := context.Background()
	userID := uuid.New()
	deviceID := uuid.New()
	deviceRepo.On("FindDeviceByID", ctx, deviceID).Return(&entity.DeviceToken{
		ID:     deviceID,
		UserID: userID,
	}, nil)
	deviceRepo.On("DeactivateDevice", ctx, deviceID).Return(nil)

	err := svc.DeactivateDevice(ctx, userID, deviceID)

	require.NoError(t, err)
	deviceRepo.AssertExpectations(t)
}

func TestDeviceService_ListDevices(t *testing.T) {
	deviceRepo, svc := newDeviceHarness()

	ctx := context.Background()
	userID := uuid.New()
	deviceRepo.On("FindActiveDevicesByUser", ctx, userID).Return([]*entity.DeviceToken{
		{ID: uuid.New(), UserID: userID, Token: "tok", Platform: "web", IsActive: true},
	}, nil)

	devices, err := svc.ListDevices(ctx, userID)

	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.True(t, devices[0].IsActive)
}
