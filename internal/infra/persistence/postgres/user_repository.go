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

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID, preloading their role profiles.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("ResidentProfile").
		Preload("CourierProfile").
		Where("id = ?", id).
		First(&userM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their email address, preloading their role profiles.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("ResidentProfile").
		Preload("CourierProfile").
		Where("email = ?", email).
		First(&userM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user entity, including its associated profiles, to the database.
// GORM's Create with associations inserts users plus resident_profiles and/or
// courier_profiles in one statement batch.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("missing required user information")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("invalid foreign key reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Reflect generated IDs and timestamps back onto the entity.
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt
	if user.ResidentProfile != nil && userM.ResidentProfile != nil {
		user.ResidentProfile.UserID = userM.ResidentProfile.UserID
		user.ResidentProfile.UpdatedAt = userM.ResidentProfile.UpdatedAt
	}
	if user.CourierProfile != nil && userM.CourierProfile != nil {
		user.CourierProfile.UserID = userM.CourierProfile.UserID
		user.CourierProfile.UpdatedAt = userM.CourierProfile.UpdatedAt
	}

	return nil
}

// Update modifies an existing user entity, including its associated profiles, in the database.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	// FullSaveAssociations also persists a newly attached role profile.
	err := repo.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(userM).Error
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserUpdateFailed.WrapMessage("missing required user information")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserUpdateFailed.WrapMessage("invalid foreign key reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	user.UpdatedAt = userM.UpdatedAt
	if user.ResidentProfile != nil && userM.ResidentProfile != nil {
		user.ResidentProfile.UpdatedAt = userM.ResidentProfile.UpdatedAt
	}
	if user.CourierProfile != nil && userM.CourierProfile != nil {
		user.CourierProfile.UpdatedAt = userM.CourierProfile.UpdatedAt
	}

	return nil
}

// CreateResidentProfile persists a resident profile for an existing user.
func (repo *userRepository) CreateResidentProfile(ctx context.Context, profile *entity.ResidentProfile) error {
	profileM := fromResidentProfileDomain(profile)

	if err := repo.db.WithContext(ctx).Create(profileM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("resident profile already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("user does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create resident profile")
	}

	profile.UpdatedAt = profileM.UpdatedAt

	return nil
}

// CreateCourierProfile persists a courier profile for an existing user.
func (repo *userRepository) CreateCourierProfile(ctx context.Context, profile *entity.CourierProfile) error {
	profileM := fromCourierProfileDomain(profile)

	if err := repo.db.WithContext(ctx).Create(profileM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("courier profile already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("user does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create courier profile")
	}

	profile.UpdatedAt = profileM.UpdatedAt

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:              data.ID,
		Email:           data.Email,
		Name:            data.Name,
		Phone:           data.Phone,
		ResidentProfile: toResidentProfileDomain(data.ResidentProfile),
		CourierProfile:  toCourierProfileDomain(data.CourierProfile),
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:              data.ID,
		Email:           data.Email,
		Name:            data.Name,
		Phone:           data.Phone,
		ResidentProfile: fromResidentProfileDomain(data.ResidentProfile),
		CourierProfile:  fromCourierProfileDomain(data.CourierProfile),
	}
}

func toResidentProfileDomain(data *model.ResidentProfileModel) *entity.ResidentProfile {
	if data == nil {
		return nil
	}

	return &entity.ResidentProfile{
		UserID:            data.UserID,
		PreferredLanguage: data.PreferredLanguage,
		UpdatedAt:         data.UpdatedAt,
	}
}

func fromResidentProfileDomain(data *entity.ResidentProfile) *model.ResidentProfileModel {
	if data == nil {
		return nil
	}

	return &model.ResidentProfileModel{
		UserID:            data.UserID,
		PreferredLanguage: data.PreferredLanguage,
	}
}

func toCourierProfileDomain(data *model.CourierProfileModel) *entity.CourierProfile {
	if data == nil {
		return nil
	}

	return &entity.CourierProfile{
		UserID:      data.UserID,
		CompanyID:   data.CompanyID,
		CompanyName: data.CompanyName,
		DriverCode:  data.DriverCode,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromCourierProfileDomain(data *entity.CourierProfile) *model.CourierProfileModel {
	if data == nil {
		return nil
	}

	return &model.CourierProfileModel{
		UserID:      data.UserID,
		CompanyID:   data.CompanyID,
		CompanyName: data.CompanyName,
		DriverCode:  data.DriverCode,
	}
}
