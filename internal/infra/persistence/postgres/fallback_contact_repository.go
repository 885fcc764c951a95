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

// fallbackContactRepository implements the domain.FallbackContactRepository interface using GORM.
type fallbackContactRepository struct {
	db *gorm.DB
}

// NewFallbackContactRepository is the constructor for fallbackContactRepository.
func NewFallbackContactRepository(db *gorm.DB) repository.FallbackContactRepository {
	return &fallbackContactRepository{db: db}
}

// CreateContact persists a new fallback contact for an address.
func (repo *fallbackContactRepository) CreateContact(ctx context.Context, contact *entity.FallbackContact) error {
	contactM := fromFallbackContactDomain(contact)

	if err := repo.db.WithContext(ctx).Create(contactM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrAddressNotFound.WrapMessage("parent address does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create fallback contact")
	}

	contact.ID = contactM.ID
	contact.CreatedAt = contactM.CreatedAt
	contact.UpdatedAt = contactM.UpdatedAt

	return nil
}

// FindContactByID retrieves a fallback contact by its unique ID.
func (repo *fallbackContactRepository) FindContactByID(ctx context.Context, id uuid.UUID) (*entity.FallbackContact, error) {
	var contactM model.FallbackContactModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&contactM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrFallbackContactNotFound
		}

		return nil, errors.Wrap(err, "failed to find fallback contact by id")
	}

	return toFallbackContactDomain(&contactM), nil
}

// FindContactsByAddress retrieves all fallback contacts for an address, oldest first.
func (repo *fallbackContactRepository) FindContactsByAddress(ctx context.Context, addressID uuid.UUID) ([]*entity.FallbackContact, error) {
	var contactModels []*model.FallbackContactModel
	err := repo.db.WithContext(ctx).
		Where("address_id = ?", addressID).
		Order("created_at ASC").
		Find(&contactModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find fallback contacts by address")
	}

	contacts := make([]*entity.FallbackContact, 0, len(contactModels))
	for _, contactM := range contactModels {
		contacts = append(contacts, toFallbackContactDomain(contactM))
	}

	return contacts, nil
}

// UpdateContact updates an existing fallback contact record.
func (repo *fallbackContactRepository) UpdateContact(ctx context.Context, contact *entity.FallbackContact) error {
	contactM := fromFallbackContactDomain(contact)

	if err := repo.db.WithContext(ctx).Save(contactM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update fallback contact")
	}

	contact.UpdatedAt = contactM.UpdatedAt

	return nil
}

// UpdateContacts updates multiple fallback contacts in one call. The caller is
// expected to run this inside a transaction when atomicity across rows matters.
func (repo *fallbackContactRepository) UpdateContacts(ctx context.Context, contacts []*entity.FallbackContact) error {
	for _, contact := range contacts {
		if err := repo.UpdateContact(ctx, contact); err != nil {
			return err
		}
	}

	return nil
}

// DeleteContact removes a fallback contact by its ID.
func (repo *fallbackContactRepository) DeleteContact(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.FallbackContactModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete fallback contact")
	}
	if result.RowsAffected == 0 {
		return repository.ErrFallbackContactNotFound
	}

	return nil
}

// CountContactsByAddress returns the total count of fallback contacts for an address.
func (repo *fallbackContactRepository) CountContactsByAddress(ctx context.Context, addressID uuid.UUID) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.FallbackContactModel{}).
		Where("address_id = ?", addressID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count fallback contacts by address")
	}

	return count, nil
}

// toFallbackContactDomain converts a GORM FallbackContactModel to a domain entity.
func toFallbackContactDomain(data *model.FallbackContactModel) *entity.FallbackContact {
	if data == nil {
		return nil
	}

	return &entity.FallbackContact{
		ID:                   data.ID,
		AddressID:            data.AddressID,
		Name:                 data.Name,
		Phone:                data.Phone,
		Relationship:         data.Relationship,
		TextAddress:          data.TextAddress,
		Latitude:             data.Latitude,
		Longitude:            data.Longitude,
		DistanceKm:           data.DistanceKm,
		RequiresExtraFee:     data.RequiresExtraFee,
		ExtraFeeAcknowledged: data.ExtraFeeAcknowledged,
		ScheduledDate:        data.ScheduledDate,
		ScheduledTimeSlot:    data.ScheduledTimeSlot,
		BuildingPhotoURL:     data.BuildingPhotoURL,
		GatePhotoURL:         data.GatePhotoURL,
		SpecialNote:          data.SpecialNote,
		CreatedAt:            data.CreatedAt,
		UpdatedAt:            data.UpdatedAt,
	}
}

// fromFallbackContactDomain converts a domain entity to a GORM FallbackContactModel.
func fromFallbackContactDomain(data *entity.FallbackContact) *model.FallbackContactModel {
	if data == nil {
		return nil
	}

	return &model.FallbackContactModel{
		ID:                   data.ID,
		AddressID:            data.AddressID,
		Name:                 data.Name,
		Phone:                data.Phone,
		Relationship:         data.Relationship,
		TextAddress:          data.TextAddress,
		Latitude:             data.Latitude,
		Longitude:            data.Longitude,
		DistanceKm:           data.DistanceKm,
		RequiresExtraFee:     data.RequiresExtraFee,
		ExtraFeeAcknowledged: data.ExtraFeeAcknowledged,
		ScheduledDate:        data.ScheduledDate,
		ScheduledTimeSlot:    data.ScheduledTimeSlot,
		BuildingPhotoURL:     data.BuildingPhotoURL,
		GatePhotoURL:         data.GatePhotoURL,
		SpecialNote:          data.SpecialNote,
		CreatedAt:            data.CreatedAt,
	}
}
