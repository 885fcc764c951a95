package service

import (
	"context"
)

// FeedbackEvent represents a delivery feedback submission to be processed by the notifier worker
type FeedbackEvent struct {
	RequestID  string `json:"request_id,omitempty"` // For distributed tracing
	FeedbackID string `json:"feedback_id"`
	AddressID  string `json:"address_id"`
	OwnerID    string `json:"owner_id"`
	CourierID  string `json:"courier_id"`
	Outcome    string `json:"outcome"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishFeedbackEvent publishes a feedback event for async processing
	PublishFeedbackEvent(ctx context.Context, event *FeedbackEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
