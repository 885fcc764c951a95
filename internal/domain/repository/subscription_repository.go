// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"pinpoint/internal/domain/entity"
	"pinpoint/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for subscription persistence.
var (
	// ErrSubscriptionNotFound is returned when a subscription is not found.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrDuplicateSubscription is returned when trying to create a subscription that already exists.
	ErrDuplicateSubscription = errors.New("subscription already exists")
)

// SubscriptionRepository defines the interface for courier-company subscription operations.
type SubscriptionRepository interface {
	// CreateSubscription persists a new company subscription.
	CreateSubscription(ctx context.Context, subscription *entity.CourierSubscription) error

	// FindSubscriptionByID retrieves a subscription by its unique ID.
	FindSubscriptionByID(ctx context.Context, id uuid.UUID) (*entity.CourierSubscription, error)

	// FindSubscriptionByCompany retrieves the current subscription for a delivery company.
	FindSubscriptionByCompany(ctx context.Context, companyID uuid.UUID) (*entity.CourierSubscription, error)

	// UpdateSubscription updates an existing subscription record.
	UpdateSubscription(ctx context.Context, subscription *entity.CourierSubscription) error

	// UpdateSubscriptionStatus updates only the status of a subscription.
	UpdateSubscriptionStatus(ctx context.Context, id uuid.UUID, status entity.SubscriptionStatus) error
}
