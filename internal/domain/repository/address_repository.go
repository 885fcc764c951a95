// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"pinpoint/internal/domain/entity"
	"pinpoint/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for address persistence.
var (
	// ErrAddressNotFound is returned when an address is not found.
	ErrAddressNotFound = errors.New("address not found")
	// ErrDuplicateDigitalID is returned when an issued digital ID collides with an existing one.
	ErrDuplicateDigitalID = errors.New("digital ID already exists")
)

// AddressRepository defines the interface for address-related database operations.
type AddressRepository interface {
	// CreateAddress persists a new address with its issued digital ID.
	CreateAddress(ctx context.Context, address *entity.Address) error

	// FindAddressByID retrieves an address by its unique ID.
	FindAddressByID(ctx context.Context, id uuid.UUID) (*entity.Address, error)

	// FindAddressByDigitalID retrieves an address by its public digital ID.
	// This is the entry point for courier lookups.
	FindAddressByDigitalID(ctx context.Context, digitalID string) (*entity.Address, error)

	// FindAddressesByOwner retrieves all addresses belonging to a resident.
	FindAddressesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Address, error)

	// UpdateAddress updates an existing address record.
	UpdateAddress(ctx context.Context, address *entity.Address) error

	// DeleteAddress removes an address by its ID. Fallback contacts are removed with it.
	DeleteAddress(ctx context.Context, id uuid.UUID) error

	// CountAddressesByOwner returns the total count of addresses for a resident.
	// Used for checking address limits.
	CountAddressesByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}
