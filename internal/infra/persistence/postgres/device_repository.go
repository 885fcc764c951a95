package postgres

import (
	"context"

	"pinpoint/internal/domain/entity"
	domainerrors "pinpoint/internal/domain/errors"
	"pinpoint/internal/domain/repository"
	"pinpoint/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// deviceRepository implements the domain.DeviceRepository interface using GORM.
type deviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository is the constructor for deviceRepository.
func NewDeviceRepository(db *gorm.DB) repository.DeviceRepository {
	return &deviceRepository{db: db}
}

// CreateDevice persists a new device token for a user.
func (repo *deviceRepository) CreateDevice(ctx context.Context, device *entity.DeviceToken) error {
	deviceM := fromDeviceTokenDomain(device)

	if err := repo.db.WithContext(ctx).Create(deviceM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateDevice
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("device owner does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create device token")
	}

	device.ID = deviceM.ID
	device.CreatedAt = deviceM.CreatedAt
	device.UpdatedAt = deviceM.UpdatedAt

	return nil
}

// FindDeviceByID retrieves a device by its unique ID.
func (repo *deviceRepository) FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.DeviceToken, error) {
	var deviceM model.DeviceTokenModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&deviceM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDeviceNotFound
		}

		return nil, errors.Wrap(err, "failed to find device by id")
	}

	return toDeviceTokenDomain(&deviceM), nil
}

// FindActiveDevicesByUser retrieves all active devices for a specific user.
func (repo *deviceRepository) FindActiveDevicesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.DeviceToken, error) {
	var deviceModels []*model.DeviceTokenModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&deviceModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find active devices by user")
	}

	return toDeviceTokenDomainList(deviceModels), nil
}

// FindActiveDevicesByUsers retrieves all active devices for a list of user IDs.
func (repo *deviceRepository) FindActiveDevicesByUsers(ctx context.Context, userIDs []uuid.UUID) ([]*entity.DeviceToken, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var deviceModels []*model.DeviceTokenModel
	err := repo.db.WithContext(ctx).
		Where("user_id IN ? AND is_active = ?", userIDs, true).
		Find(&deviceModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find active devices by users")
	}

	return toDeviceTokenDomainList(deviceModels), nil
}

// UpdateDeviceToken replaces the push token for a specific device.
func (repo *deviceRepository) UpdateDeviceToken(ctx context.Context, deviceID uuid.UUID, token string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.DeviceTokenModel{}).
		Where("id = ?", deviceID).
		Update("token", token)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrDuplicateDevice
		}

		return errors.Wrap(result.Error, "failed to update device token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrDeviceNotFound
	}

	return nil
}

// DeactivateDevice marks a device as inactive without removing its history.
func (repo *deviceRepository) DeactivateDevice(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.DeviceTokenModel{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to deactivate device")
	}
	if result.RowsAffected == 0 {
		return repository.ErrDeviceNotFound
	}

	return nil
}

func toDeviceTokenDomainList(deviceModels []*model.DeviceTokenModel) []*entity.DeviceToken {
	devices := make([]*entity.DeviceToken, 0, len(deviceModels))
	for _, deviceM := range deviceModels {
		devices = append(devices, toDeviceTokenDomain(deviceM))
	}

	return devices
}

// toDeviceTokenDomain converts a GORM DeviceTokenModel to a domain entity.
func toDeviceTokenDomain(data *model.DeviceTokenModel) *entity.DeviceToken {
	if data == nil {
		return nil
	}

	return &entity.DeviceToken{
		ID:        data.ID,
		UserID:    data.UserID,
		Token:     data.Token,
		Platform:  data.Platform,
		IsActive:  data.IsActive,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromDeviceTokenDomain converts a domain entity to a GORM DeviceTokenModel.
func fromDeviceTokenDomain(data *entity.DeviceToken) *model.DeviceTokenModel {
	if data == nil {
		return nil
	}

	return &model.DeviceTokenModel{
		ID:       data.ID,
		UserID:   data.UserID,
		Token:    data.Token,
		Platform: data.Platform,
		IsActive: data.IsActive,
	}
}
