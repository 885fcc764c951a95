// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus tracks the billing state of a courier company's plan.
type SubscriptionStatus string

const (
	// SubscriptionStatusActive grants lookup access.
	SubscriptionStatusActive SubscriptionStatus = "active"
	// SubscriptionStatusPastDue marks a missed renewal; lookup access is suspended.
	SubscriptionStatusPastDue SubscriptionStatus = "past_due"
	// SubscriptionStatusCancelled marks a terminated plan.
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// IsValid checks if the SubscriptionStatus is a known value.
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusPastDue, SubscriptionStatusCancelled:
		return true
	default:
		return false
	}
}

// CourierSubscription represents a logistics company's billing subscription.
// The external e-invoicing gateway is out of scope; this entity only tracks
// the plan state the platform needs to gate lookup access.
type CourierSubscription struct {
	ID              uuid.UUID          `json:"id"`               // The Global Unique Identifier (GUID) for the subscription.
	CompanyID       uuid.UUID          `json:"company_id"`       // The logistics company holding the plan.
	Plan            string             `json:"plan"`             // Plan code, e.g. "monthly", "annual".
	Status          SubscriptionStatus `json:"status"`           // Current billing state.
	CurrentPeriodAt time.Time          `json:"current_period"`   // Start of the current billing period.
	RenewsAt        time.Time          `json:"renews_at"`        // When the plan next renews.
	SubscribedAt    time.Time          `json:"subscribed_at"`    // Timestamp of when the subscription was created.
	UpdatedAt       time.Time          `json:"updated_at"`       // Timestamp of the last modification.
}

// AllowsLookup reports whether the subscription currently grants address lookup.
func (s *CourierSubscription) AllowsLookup(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && now.Before(s.RenewsAt)
}
