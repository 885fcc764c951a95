package impl

import (
	"context"
	"testing"

	"pinpoint/internal/domain/entity"
	domainerrors "pinpoint/internal/domain/errors"
	"pinpoint/internal/domain/repository"
	"pinpoint/internal/domain/service"
	"pinpoint/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newFeedbackHarness() (*mockAddressRepository, *mockFeedbackRepository, *mockUserRepository, *mockEventPublisher, usecase.FeedbackUsecase) {
	addressRepo := &mockAddressRepository{}
	feedbackRepo := &mockFeedbackRepository{}
	userRepo := &mockUserRepository{}
	publisher := &mockEventPublisher{}
	svc := NewFeedbackService(FeedbackServiceParams{
		AddressRepo:    addressRepo,
		FeedbackRepo:   feedbackRepo,
		UserRepo:       userRepo,
		EventPublisher: publisher,
		Logger:         discardLogger(),
	})

	return addressRepo, feedbackRepo, userRepo, publisher, svc
}

func TestFeedbackService_RecordFeedback_PublishesEvent(t *testing.T) {
	addressRepo, feedbackRepo, userRepo, publisher, svc := newFeedbackHarness()

	ctx := context.Background()
	companyID := uuid.New()
	courier := courierUser(companyID)
	address := &entity.Address{ID: uuid.New(), OwnerID: uuid.New(), DigitalID: "AB3D-EF4H-JK5M"}

	userRepo.On("FindByID", ctx, courier.ID).Return(courier, nil)
	addressRepo.On("FindAddressByDigitalID", ctx, "AB3D-EF4H-JK5M").Return(address, nil)
	feedbackRepo.On("CreateFeedback", ctx, mock.AnythingOfType("*entity.DeliveryFeedback")).Return(nil)
	publisher.On("PublishFeedbackEvent", ctx, mock.AnythingOfType("*service.FeedbackEvent")).Return(nil)

	feedback, err := svc.RecordFeedback(ctx, courier.ID, &usecase.RecordFeedbackInput{
		DigitalID: "ab3d-ef4h-jk5m",
		Outcome:   FeedbackOutcomeDelivered,
		Rating:    5,
		Comment:   "Gate was easy to find",
	})

	require.NoError(t, err)
	assert.Equal(t, address.ID, feedback.AddressID)
	assert.Equal(t, courier.ID, feedback.CourierID)

	publisher.AssertCalled(t, "PublishFeedbackEvent", ctx, mock.MatchedBy(func(event *service.FeedbackEvent) bool {
		return event.FeedbackID == feedback.ID.String() &&
			event.OwnerID == address.OwnerID.String() &&
			event.Outcome == FeedbackOutcomeDelivered
	}))
}

func TestFeedbackService_RecordFeedback_PublishFailureIsNotFatal(t *testing.T) {
	addressRepo, feedbackRepo, userRepo, publisher, svc := newFeedbackHarness()

	ctx := context.Background()
	companyID := uuid.New()
	courier := courierUser(companyID)
	address := &entity.Address{ID: uuid.New(), OwnerID: uuid.New(), DigitalID: "AB3D-EF4H-JK5M"}

	userRepo.On("FindByID", ctx, courier.ID).Return(courier, nil)
	addressRepo.On("FindAddressByDigitalID", ctx, "AB3D-EF4H-JK5M").Return(address, nil)
	feedbackRepo.On("CreateFeedback", ctx, mock.AnythingOfType("*entity.DeliveryFeedback")).Return(nil)
	publisher.On("PublishFeedbackEvent", ctx, mock.AnythingOfType("*service.FeedbackEvent")).
		Return(errors.New("broker unavailable"))

	feedback, err := svc.RecordFeedback(ctx, courier.ID, &usecase.RecordFeedbackInput{
		DigitalID: "AB3D-EF4H-JK5M",
		Outcome:   FeedbackOutcomeFailed,
		Rating:    2,
	})

	require.NoError(t, err, "feedback must be kept even when the event cannot be published")
	assert.NotNil(t, feedback)
}

func TestFeedbackService_RecordFeedback_UnknownOutcome(t *testing.T) {
	_, feedbackRepo, _, _, svc := newFeedbackHarness()

	_, err := svc.RecordFeedback(context.Background(), uuid.New(), &usecase.RecordFeedbackInput{
		DigitalID: "AB3D-EF4H-JK5M",
		Outcome:   "misplaced",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	feedbackRepo.AssertNotCalled(t, "CreateFeedback", mock.Anything, mock.Anything)
}

func TestFeedbackService_RecordFeedback_RatingOutOfRange(t *testing.T) {
	_, _, _, _, svc := newFeedbackHarness()

	_, err := svc.RecordFeedback(context.Background(), uuid.New(), &usecase.RecordFeedbackInput{
		DigitalID: "AB3D-EF4H-JK5M",
		Outcome:   FeedbackOutcomeDelivered,
		Rating:    6,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestFeedbackService_RecordFeedback_DeniedWithoutCourierProfile(t *testing.T) {
	_, _, userRepo, _, svc := newFeedbackHarness()

	ctx := context.Background()
	resident := &entity.User{ID: uuid.New(), ResidentProfile: &entity.ResidentProfile{}}

	userRepo.On("FindByID", ctx, resident.ID).Return(resident, nil)

	_, err := svc.RecordFeedback(ctx, resident.ID, &usecase.RecordFeedbackInput{
		DigitalID: "AB3D-EF4H-JK5M",
		Outcome:   FeedbackOutcomeDelivered,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestFeedbackService_RecordFeedback_UnknownDigitalID(t *testing.T) {
	addressRepo, _, userRepo, _, svc := newFeedbackHarness()

	ctx := context.Background()
	companyID := uuid.New()
	courier := courierUser(companyID)

	userRepo.On("FindByID", ctx, courier.ID).Return(courier, nil)
	addressRepo.On("FindAddressByDigitalID", ctx, "ZZZZ-9999-AAAA").Return(nil, repository.ErrAddressNotFound)

	_, err := svc.RecordFeedback(ctx, courier.ID, &usecase.RecordFeedbackInput{
		DigitalID: "ZZZZ-9999-AAAA",
		Outcome:   FeedbackOutcomeReturned,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAddressNotFound))
}

func TestFeedbackService_ListFeedbackForAddress_OwnershipEnforced(t *testing.T) {
	addressRepo, feedbackRepo, _, _, svc := newFeedbackHarness()

	ctx := context.Background()
	address := &entity.Address{ID: uuid.New(), OwnerID: uuid.New()}

	addressRepo.On("FindAddressByID", ctx, address.ID).Return(address, nil)

	_, err := svc.ListFeedbackForAddress(ctx, uuid.New(), address.ID, 20, 0)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAddressOwnershipViolation))
	feedbackRepo.AssertNotCalled(t, "FindFeedbackByAddress", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFeedbackService_ListFeedbackForAddress_ClampsPagination(t *testing.T) {
	addressRepo, feedbackRepo, _, _, svc := newFeedbackHarness()

	ctx := context.Background()
	ownerID := uuid.New()
	address := &entity.Address{ID: uuid.New(), OwnerID: ownerID}
	records := []*entity.DeliveryFeedback{{ID: uuid.New(), AddressID: address.ID}}

	addressRepo.On("FindAddressByID", ctx, address.ID).Return(address, nil)
	feedbackRepo.On("FindFeedbackByAddress", ctx, address.ID, 20, 0).Return(records, nil)

	feedback, err := svc.ListFeedbackForAddress(ctx, ownerID, address.ID, 500, -3)

	require.NoError(t, err)
	assert.Len(t, feedback, 1)
}
