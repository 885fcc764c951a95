package usecase

import (
	"context"

	"pinpoint/internal/domain/entity"

	"github.com/google/uuid"
)

// ActivateSubscriptionInput represents the input for activating a company subscription.
type ActivateSubscriptionInput struct {
	Plan string `json:"plan"`
}

// SubscriptionUsecase defines the interface for courier-company subscription
// bookkeeping. The external billing gateway is out of scope; only the
// subscription state machine lives here.
type SubscriptionUsecase interface {
	// Activate starts or re-activates a company subscription on a plan.
	Activate(ctx context.Context, companyID uuid.UUID, input *ActivateSubscriptionInput) (*entity.CourierSubscription, error)

	// Cancel marks a company subscription as cancelled. Lookups stop at once.
	Cancel(ctx context.Context, companyID uuid.UUID) (*entity.CourierSubscription, error)

	// Renew extends the current billing period of an active subscription.
	Renew(ctx context.Context, companyID uuid.UUID) (*entity.CourierSubscription, error)

	// GetStatus retrieves a company's current subscription.
	GetStatus(ctx context.Context, companyID uuid.UUID) (*entity.CourierSubscription, error)

	// AllowsLookup reports whether a company may perform address lookups now.
	AllowsLookup(ctx context.Context, companyID uuid.UUID) (bool, error)
}
