// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"pinpoint/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrFeedbackNotFound is returned when a delivery feedback record is not found.
var ErrFeedbackNotFound = errors.New("delivery feedback not found")

// FeedbackRepository defines the interface for delivery-feedback database operations.
type FeedbackRepository interface {
	// CreateFeedback persists a new delivery feedback entry.
	CreateFeedback(ctx context.Context, feedback *entity.DeliveryFeedback) error

	// FindFeedbackByID retrieves a feedback entry by its unique ID.
	FindFeedbackByID(ctx context.Context, id uuid.UUID) (*entity.DeliveryFeedback, error)

	// FindFeedbackByAddress retrieves feedback entries for an address, newest first.
	FindFeedbackByAddress(ctx context.Context, addressID uuid.UUID, limit, offset int) ([]*entity.DeliveryFeedback, error)

	// FindFeedbackByCourier retrieves feedback entries left by a courier, newest first.
	FindFeedbackByCourier(ctx context.Context, courierID uuid.UUID, limit, offset int) ([]*entity.DeliveryFeedback, error)
}
