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

// addressRepository implements the domain.AddressRepository interface using GORM.
type addressRepository struct {
	db *gorm.DB
}

// NewAddressRepository is the constructor for addressRepository.
func NewAddressRepository(db *gorm.DB) repository.AddressRepository {
	return &addressRepository{db: db}
}

// CreateAddress persists a new address with its issued digital ID. A collision
// on the digital_id unique constraint surfaces as ErrDuplicateDigitalID so the
// caller can re-issue and retry.
func (repo *addressRepository) CreateAddress(ctx context.Context, address *entity.Address) error {
	addressM := fromAddressDomain(address)

	if err := repo.db.WithContext(ctx).Create(addressM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateDigitalID
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("address owner does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create address")
	}

	address.ID = addressM.ID
	address.CreatedAt = addressM.CreatedAt
	address.UpdatedAt = addressM.UpdatedAt

	return nil
}

// FindAddressByID retrieves an address by its unique ID.
func (repo *addressRepository) FindAddressByID(ctx context.Context, id uuid.UUID) (*entity.Address, error) {
	var addressM model.AddressModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&addressM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAddressNotFound
		}

		return nil, errors.Wrap(err, "failed to find address by id")
	}

	return toAddressDomain(&addressM), nil
}

// FindAddressByDigitalID retrieves an address by its public digital ID.
func (repo *addressRepository) FindAddressByDigitalID(ctx context.Context, digitalID string) (*entity.Address, error) {
	var addressM model.AddressModel
	err := repo.db.WithContext(ctx).
		Where("digital_id = ?", digitalID).
		First(&addressM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAddressNotFound
		}

		return nil, errors.Wrap(err, "failed to find address by digital id")
	}

	return toAddressDomain(&addressM), nil
}

// FindAddressesByOwner retrieves all addresses belonging to a resident, newest first.
func (repo *addressRepository) FindAddressesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Address, error) {
	var addressModels []*model.AddressModel
	err := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&addressModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find addresses by owner")
	}

	addresses := make([]*entity.Address, 0, len(addressModels))
	for _, addressM := range addressModels {
		addresses = append(addresses, toAddressDomain(addressM))
	}

	return addresses, nil
}

// UpdateAddress updates an existing address record.
func (repo *addressRepository) UpdateAddress(ctx context.Context, address *entity.Address) error {
	addressM := fromAddressDomain(address)

	if err := repo.db.WithContext(ctx).Save(addressM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateDigitalID
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update address")
	}

	address.UpdatedAt = addressM.UpdatedAt

	return nil
}

// DeleteAddress removes an address by its ID. The database cascade removes its
// fallback contacts with it.
func (repo *addressRepository) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.AddressModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete address")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAddressNotFound
	}

	return nil
}

// CountAddressesByOwner returns the total count of addresses for a resident.
func (repo *addressRepository) CountAddressesByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.AddressModel{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count addresses by owner")
	}

	return count, nil
}

// toAddressDomain converts a GORM AddressModel to a domain entity.
func toAddressDomain(data *model.AddressModel) *entity.Address {
	if data == nil {
		return nil
	}

	return &entity.Address{
		ID:                   data.ID,
		DigitalID:            data.DigitalID,
		OwnerID:              data.OwnerID,
		Description:          data.Description,
		Latitude:             data.Latitude,
		Longitude:            data.Longitude,
		BuildingPhotoURL:     data.BuildingPhotoURL,
		GatePhotoURL:         data.GatePhotoURL,
		DoorPhotoURL:         data.DoorPhotoURL,
		DeliveryPeriod:       data.DeliveryPeriod,
		DeliverySlot:         data.DeliverySlot,
		SpecialNote:          data.SpecialNote,
		ShowFallbackContacts: data.ShowFallbackContacts,
		CreatedAt:            data.CreatedAt,
		UpdatedAt:            data.UpdatedAt,
	}
}

// fromAddressDomain converts a domain entity to a GORM AddressModel.
func fromAddressDomain(data *entity.Address) *model.AddressModel {
	if data == nil {
		return nil
	}

	return &model.AddressModel{
		ID:                   data.ID,
		DigitalID:            data.DigitalID,
		OwnerID:              data.OwnerID,
		Description:          data.Description,
		Latitude:             data.Latitude,
		Longitude:            data.Longitude,
		BuildingPhotoURL:     data.BuildingPhotoURL,
		GatePhotoURL:         data.GatePhotoURL,
		DoorPhotoURL:         data.DoorPhotoURL,
		DeliveryPeriod:       data.DeliveryPeriod,
		DeliverySlot:         data.DeliverySlot,
		SpecialNote:          data.SpecialNote,
		ShowFallbackContacts: data.ShowFallbackContacts,
		CreatedAt:            data.CreatedAt,
	}
}
