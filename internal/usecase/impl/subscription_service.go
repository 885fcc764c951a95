package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "pinpoint/internal/delivery/context"
	"pinpoint/internal/domain/entity"
	domainerrors "pinpoint/internal/domain/errors"
	"pinpoint/internal/domain/repository"
	"pinpoint/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// billingPeriod is the length of one subscription period. The external
// billing gateway drives real renewal dates; this is the bookkeeping default.
const billingPeriod = 30 * 24 * time.Hour

// subscriptionService implements the SubscriptionUsecase interface.
type subscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	logger           *slog.Logger
}

// SubscriptionServiceParams holds dependencies for SubscriptionService, injected by Fx.
type SubscriptionServiceParams struct {
	fx.In

	SubscriptionRepo repository.SubscriptionRepository
	Logger           *slog.Logger
}

// NewSubscriptionService is the constructor for subscriptionService.
func NewSubscriptionService(params SubscriptionServiceParams) usecase.SubscriptionUsecase {
	return &subscriptionService{
		subscriptionRepo: params.SubscriptionRepo,
		logger:           params.Logger,
	}
}

func (srv *subscriptionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Activate starts or re-activates a company subscription on a plan.
func (srv *subscriptionService) Activate(ctx context.Context, companyID uuid.UUID, input *usecase.ActivateSubscriptionInput) (*entity.CourierSubscription, error) {
	if input.Plan == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("plan is required")
	}

	now := time.Now()

	existing, err := srv.subscriptionRepo.FindSubscriptionByCompany(ctx, companyID)
	if err != nil && !errors.Is(err, repository.ErrSubscriptionNotFound) {
		return nil, errors.Wrap(err, "failed to load company subscription")
	}

	if existing != nil {
		existing.Plan = input.Plan
		existing.Status = entity.SubscriptionStatusActive
		existing.CurrentPeriodAt = now
		existing.RenewsAt = now.Add(billingPeriod)
		existing.UpdatedAt = now

		if err := srv.subscriptionRepo.UpdateSubscription(ctx, existing); err != nil {
			return nil, errors.Wrap(err, "failed to re-activate subscription")
		}

		srv.log(ctx).Info("Subscription re-activated", slog.Any("companyID", companyID), slog.String("plan", input.Plan))

		return existing, nil
	}

	subscription := &entity.CourierSubscription{
		ID:              uuid.New(),
		CompanyID:       companyID,
		Plan:            input.Plan,
		Status:          entity.SubscriptionStatusActive,
		CurrentPeriodAt: now,
		RenewsAt:        now.Add(billingPeriod),
		SubscribedAt:    now,
		UpdatedAt:       now,
	}

	if err := srv.subscriptionRepo.CreateSubscription(ctx, subscription); err != nil {
		return nil, errors.Wrap(err, "failed to create subscription")
	}

	srv.log(ctx).Info("Subscription activated", slog.Any("companyID", companyID), slog.String("plan", input.Plan))

	return subscription, nil
}

// Cancel marks a company subscription as cancelled. Lookups stop at once.
func (srv *subscriptionService) Cancel(ctx context.Context, companyID uuid.UUID) (*entity.CourierSubscription, error) {
	subscription, err := srv.loadSubscription(ctx, companyID)
	if err != nil {
		return nil, err
	}

	subscription.Status = entity.SubscriptionStatusCancelled
	subscription.UpdatedAt = time.Now()

	if err := srv.subscriptionRepo.UpdateSubscription(ctx, subscription); err != nil {
		return nil, errors.Wrap(err, "failed to cancel subscription")
	}

	srv.log(ctx).Info("Subscription cancelled", slog.Any("companyID", companyID))

	return subscription, nil
}

// Renew extends the current billing period of an active subscription. A
// past-due subscription returns to active on successful renewal.
func (srv *subscriptionService) Renew(ctx context.Context, companyID uuid.UUID) (*entity.CourierSubscription, error) {
	subscription, err := srv.loadSubscription(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if subscription.Status == entity.SubscriptionStatusCancelled {
		return nil, domainerrors.ErrSubscriptionInactive.WrapMessage("cancelled subscription cannot be renewed")
	}

	now := time.Now()
	subscription.Status = entity.SubscriptionStatusActive
	subscription.CurrentPeriodAt = now
	subscription.RenewsAt = now.Add(billingPeriod)
	subscription.UpdatedAt = now

	if err := srv.subscriptionRepo.UpdateSubscription(ctx, subscription); err != nil {
		return nil, errors.Wrap(err, "failed to renew subscription")
	}

	srv.log(ctx).Info("Subscription renewed", slog.Any("companyID", companyID))

	return subscription, nil
}

// GetStatus retrieves a company's current subscription.
func (srv *subscriptionService) GetStatus(ctx context.Context, companyID uuid.UUID) (*entity.CourierSubscription, error) {
	return srv.loadSubscription(ctx, companyID)
}

// AllowsLookup reports whether a company may perform address lookups now.
func (srv *subscriptionService) AllowsLookup(ctx context.Context, companyID uuid.UUID) (bool, error) {
	subscription, err := srv.subscriptionRepo.FindSubscriptionByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return false, nil
		}

		return false, errors.Wrap(err, "failed to load company subscription")
	}

	return subscription.AllowsLookup(time.Now()), nil
}

func (srv *subscriptionService) loadSubscription(ctx context.Context, companyID uuid.UUID) (*entity.CourierSubscription, error) {
	subscription, err := srv.subscriptionRepo.FindSubscriptionByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return nil, domainerrors.ErrSubscriptionNotFound.WrapMessage("company has no subscription")
		}

		return nil, errors.Wrap(err, "failed to load company subscription")
	}

	return subscription, nil
}
