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

// feedbackRepository implements the domain.FeedbackRepository interface using GORM.
type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository is the constructor for feedbackRepository.
func NewFeedbackRepository(db *gorm.DB) repository.FeedbackRepository {
	return &feedbackRepository{db: db}
}

// CreateFeedback persists a new delivery feedback entry.
func (repo *feedbackRepository) CreateFeedback(ctx context.Context, feedback *entity.DeliveryFeedback) error {
	feedbackM := fromFeedbackDomain(feedback)

	if err := repo.db.WithContext(ctx).Create(feedbackM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrAddressNotFound.WrapMessage("feedback target does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create delivery feedback")
	}

	feedback.ID = feedbackM.ID
	feedback.CreatedAt = feedbackM.CreatedAt

	return nil
}

// FindFeedbackByID retrieves a feedback entry by its unique ID.
func (repo *feedbackRepository) FindFeedbackByID(ctx context.Context, id uuid.UUID) (*entity.DeliveryFeedback, error) {
	var feedbackM model.DeliveryFeedbackModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&feedbackM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrFeedbackNotFound
		}

		return nil, errors.Wrap(err, "failed to find delivery feedback by id")
	}

	return toFeedbackDomain(&feedbackM), nil
}

// FindFeedbackByAddress retrieves feedback entries for an address, newest first.
func (repo *feedbackRepository) FindFeedbackByAddress(ctx context.Context, addressID uuid.UUID, limit, offset int) ([]*entity.DeliveryFeedback, error) {
	return repo.findFeedbackPage(ctx, "address_id = ?", addressID, limit, offset)
}

// FindFeedbackByCourier retrieves feedback entries left by a courier, newest first.
func (repo *feedbackRepository) FindFeedbackByCourier(ctx context.Context, courierID uuid.UUID, limit, offset int) ([]*entity.DeliveryFeedback, error) {
	return repo.findFeedbackPage(ctx, "courier_id = ?", courierID, limit, offset)
}

func (repo *feedbackRepository) findFeedbackPage(ctx context.Context, condition string, id uuid.UUID, limit, offset int) ([]*entity.DeliveryFeedback, error) {
	var feedbackModels []*model.DeliveryFeedbackModel
	err := repo.db.WithContext(ctx).
		Where(condition, id).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&feedbackModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find delivery feedback page")
	}

	feedbacks := make([]*entity.DeliveryFeedback, 0, len(feedbackModels))
	for _, feedbackM := range feedbackModels {
		feedbacks = append(feedbacks, toFeedbackDomain(feedbackM))
	}

	return feedbacks, nil
}

// toFeedbackDomain converts a GORM DeliveryFeedbackModel to a domain entity.
func toFeedbackDomain(data *model.DeliveryFeedbackModel) *entity.DeliveryFeedback {
	if data == nil {
		return nil
	}

	return &entity.DeliveryFeedback{
		ID:        data.ID,
		AddressID: data.AddressID,
		CourierID: data.CourierID,
		Outcome:   data.Outcome,
		Rating:    data.Rating,
		Comment:   data.Comment,
		CreatedAt: data.CreatedAt,
	}
}

// fromFeedbackDomain converts a domain entity to a GORM DeliveryFeedbackModel.
func fromFeedbackDomain(data *entity.DeliveryFeedback) *model.DeliveryFeedbackModel {
	if data == nil {
		return nil
	}

	return &model.DeliveryFeedbackModel{
		ID:        data.ID,
		AddressID: data.AddressID,
		CourierID: data.CourierID,
		Outcome:   data.Outcome,
		Rating:    data.Rating,
		Comment:   data.Comment,
	}
}
