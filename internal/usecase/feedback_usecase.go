package usecase

import (
	"context"

	"pinpoint/internal/domain/entity"

	"github.com/google/uuid"
)

// RecordFeedbackInput represents the input for recording delivery feedback.
type RecordFeedbackInput struct {
	DigitalID string `json:"digital_id"`
	Outcome   string `json:"outcome"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

// FeedbackUsecase defines the interface for delivery-feedback operations.
type FeedbackUsecase interface {
	// RecordFeedback stores a courier's feedback for an address and publishes
	// a notification event for the address owner.
	RecordFeedback(ctx context.Context, courierID uuid.UUID, input *RecordFeedbackInput) (*entity.DeliveryFeedback, error)

	// ListFeedbackForAddress retrieves feedback left on one of the owner's addresses.
	ListFeedbackForAddress(ctx context.Context, ownerID, addressID uuid.UUID, limit, offset int) ([]*entity.DeliveryFeedback, error)
}
