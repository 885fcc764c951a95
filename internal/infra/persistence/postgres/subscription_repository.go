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

// subscriptionRepository implements the domain.SubscriptionRepository interface using GORM.
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository is the constructor for subscriptionRepository.
func NewSubscriptionRepository(db *gorm.DB) repository.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// CreateSubscription persists a new company subscription.
func (repo *subscriptionRepository) CreateSubscription(ctx context.Context, subscription *entity.CourierSubscription) error {
	subscriptionM := fromSubscriptionDomain(subscription)

	if err := repo.db.WithContext(ctx).Create(subscriptionM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateSubscription
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create subscription")
	}

	subscription.ID = subscriptionM.ID
	subscription.UpdatedAt = subscriptionM.UpdatedAt

	return nil
}

// FindSubscriptionByID retrieves a subscription by its unique ID.
func (repo *subscriptionRepository) FindSubscriptionByID(ctx context.Context, id uuid.UUID) (*entity.CourierSubscription, error) {
	var subscriptionM model.CourierSubscriptionModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&subscriptionM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSubscriptionNotFound
		}

		return nil, errors.Wrap(err, "failed to find subscription by id")
	}

	return toSubscriptionDomain(&subscriptionM), nil
}

// FindSubscriptionByCompany retrieves the current subscription for a delivery company.
func (repo *subscriptionRepository) FindSubscriptionByCompany(ctx context.Context, companyID uuid.UUID) (*entity.CourierSubscription, error) {
	var subscriptionM model.CourierSubscriptionModel
	err := repo.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&subscriptionM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSubscriptionNotFound
		}

		return nil, errors.Wrap(err, "failed to find subscription by company")
	}

	return toSubscriptionDomain(&subscriptionM), nil
}

// UpdateSubscription updates an existing subscription record.
func (repo *subscriptionRepository) UpdateSubscription(ctx context.Context, subscription *entity.CourierSubscription) error {
	subscriptionM := fromSubscriptionDomain(subscription)

	if err := repo.db.WithContext(ctx).Save(subscriptionM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update subscription")
	}

	subscription.UpdatedAt = subscriptionM.UpdatedAt

	return nil
}

// UpdateSubscriptionStatus updates only the status of a subscription.
func (repo *subscriptionRepository) UpdateSubscriptionStatus(ctx context.Context, id uuid.UUID, status entity.SubscriptionStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CourierSubscriptionModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update subscription status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrSubscriptionNotFound
	}

	return nil
}

// toSubscriptionDomain converts a GORM CourierSubscriptionModel to a domain entity.
func toSubscriptionDomain(data *model.CourierSubscriptionModel) *entity.CourierSubscription {
	if data == nil {
		return nil
	}

	return &entity.CourierSubscription{
		ID:              data.ID,
		CompanyID:       data.CompanyID,
		Plan:            data.Plan,
		Status:          entity.SubscriptionStatus(data.Status),
		CurrentPeriodAt: data.CurrentPeriodAt,
		RenewsAt:        data.RenewsAt,
		SubscribedAt:    data.SubscribedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// fromSubscriptionDomain converts a domain entity to a GORM CourierSubscriptionModel.
func fromSubscriptionDomain(data *entity.CourierSubscription) *model.CourierSubscriptionModel {
	if data == nil {
		return nil
	}

	return &model.CourierSubscriptionModel{
		ID:              data.ID,
		CompanyID:       data.CompanyID,
		Plan:            data.Plan,
		Status:          string(data.Status),
		CurrentPeriodAt: data.CurrentPeriodAt,
		RenewsAt:        data.RenewsAt,
		SubscribedAt:    data.SubscribedAt,
	}
}
