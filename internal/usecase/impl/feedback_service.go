package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "pinpoint/internal/delivery/context"
	"pinpoint/internal/domain/entity"
	domainerrors "pinpoint/internal/domain/errors"
	"pinpoint/internal/domain/repository"
	"pinpoint/internal/domain/service"
	"pinpoint/internal/usecase"
	"pinpoint/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Feedback outcomes accepted from couriers.
const (
	FeedbackOutcomeDelivered = "delivered"
	FeedbackOutcomeFailed    = "failed"
	FeedbackOutcomeReturned  = "returned"
)

// feedbackService implements the FeedbackUsecase interface.
type feedbackService struct {
	addressRepo    repository.AddressRepository
	feedbackRepo   repository.FeedbackRepository
	userRepo       repository.UserRepository
	eventPublisher service.EventPublisher
	logger         *slog.Logger
}

// FeedbackServiceParams holds dependencies for FeedbackService, injected by Fx.
type FeedbackServiceParams struct {
	fx.In

	AddressRepo    repository.AddressRepository
	FeedbackRepo   repository.FeedbackRepository
	UserRepo       repository.UserRepository
	EventPublisher service.EventPublisher
	Logger         *slog.Logger
}

// NewFeedbackService is the constructor for feedbackService.
func NewFeedbackService(params FeedbackServiceParams) usecase.FeedbackUsecase {
	return &feedbackService{
		addressRepo:    params.AddressRepo,
		feedbackRepo:   params.FeedbackRepo,
		userRepo:       params.UserRepo,
		eventPublisher: params.EventPublisher,
		logger:         params.Logger,
	}
}

func (srv *feedbackService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RecordFeedback stores a courier's feedback for an address and publishes a
// notification event for the address owner. Publishing is best-effort: a
// failed publish does not roll the feedback back.
func (srv *feedbackService) RecordFeedback(ctx context.Context, courierID uuid.UUID, input *usecase.RecordFeedbackInput) (*entity.DeliveryFeedback, error) {
	if !isValidFeedbackOutcome(input.Outcome) {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown feedback outcome")
	}
	if input.Rating < 0 || input.Rating > 5 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("rating must be between 0 and 5")
	}

	courier, err := srv.userRepo.FindByID(ctx, courierID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load courier")
	}
	if courier.CourierProfile == nil {
		return nil, domainerrors.ErrForbidden.WrapMessage("account has no courier profile")
	}

	normalized := util.NormalizeDigitalID(input.DigitalID)
	address, err := srv.addressRepo.FindAddressByDigitalID(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, domainerrors.ErrAddressNotFound.WrapMessage("no address for digital ID")
		}

		return nil, errors.Wrap(err, "failed to find address by digital ID")
	}

	feedback := &entity.DeliveryFeedback{
		ID:        uuid.New(),
		AddressID: address.ID,
		CourierID: courierID,
		Outcome:   input.Outcome,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now(),
	}

	if err := srv.feedbackRepo.CreateFeedback(ctx, feedback); err != nil {
		return nil, errors.Wrap(err, "failed to create delivery feedback")
	}

	event := &service.FeedbackEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		FeedbackID: feedback.ID.String(),
		AddressID:  address.ID.String(),
		OwnerID:    address.OwnerID.String(),
		CourierID:  courierID.String(),
		Outcome:    feedback.Outcome,
		Rating:     feedback.Rating,
		Comment:    feedback.Comment,
	}
	if err := srv.eventPublisher.PublishFeedbackEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish feedback event",
			slog.Any("feedbackID", feedback.ID),
			slog.Any("error", err),
		)
	}

	srv.log(ctx).Info("Delivery feedback recorded",
		slog.Any("feedbackID", feedback.ID),
		slog.String("outcome", feedback.Outcome),
	)

	return feedback, nil
}

// ListFeedbackForAddress retrieves feedback left on one of the owner's addresses.
func (srv *feedbackService) ListFeedbackForAddress(ctx context.Context, ownerID, addressID uuid.UUID, limit, offset int) ([]*entity.DeliveryFeedback, error) {
	address, err := srv.addressRepo.FindAddressByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, domainerrors.ErrAddressNotFound.WrapMessage("address lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find address by id")
	}
	if address.OwnerID != ownerID {
		return nil, domainerrors.ErrAddressOwnershipViolation.WrapMessage("address access denied")
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	feedback, err := srv.feedbackRepo.FindFeedbackByAddress(ctx, addressID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list delivery feedback")
	}

	return feedback, nil
}

func isValidFeedbackOutcome(outcome string) bool {
	switch outcome {
	case FeedbackOutcomeDelivered, FeedbackOutcomeFailed, FeedbackOutcomeReturned:
		return true
	default:
		return false
	}
}
