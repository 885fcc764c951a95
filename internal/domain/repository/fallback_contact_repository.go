// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"pinpoint/internal/domain/entity"
	"pinpoint/internal/errors"

	"github.com/google/uuid"
)

// ErrFallbackContactNotFound is returned when a fallback contact is not found.
var ErrFallbackContactNotFound = errors.New("fallback contact not found")

// FallbackContactRepository defines the interface for fallback-contact database operations.
// Contacts always belong to exactly one address and are removed together with it.
type FallbackContactRepository interface {
	// CreateContact persists a new fallback contact for an address.
	CreateContact(ctx context.Context, contact *entity.FallbackContact) error

	// FindContactByID retrieves a fallback contact by its unique ID.
	FindContactByID(ctx context.Context, id uuid.UUID) (*entity.FallbackContact, error)

	// FindContactsByAddress retrieves all fallback contacts for an address.
	FindContactsByAddress(ctx context.Context, addressID uuid.UUID) ([]*entity.FallbackContact, error)

	// UpdateContact updates an existing fallback contact record.
	UpdateContact(ctx context.Context, contact *entity.FallbackContact) error

	// UpdateContacts updates multiple fallback contacts in one call.
	// Used when an address move forces a distance recomputation across all of its contacts.
	UpdateContacts(ctx context.Context, contacts []*entity.FallbackContact) error

	// DeleteContact removes a fallback contact by its ID.
	DeleteContact(ctx context.Context, id uuid.UUID) error

	// CountContactsByAddress returns the total count of fallback contacts for an address.
	// Used for checking contact limits.
	CountContactsByAddress(ctx context.Context, addressID uuid.UUID) (int64, error)
}
