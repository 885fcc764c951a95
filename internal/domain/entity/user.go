// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique account.
// It contains only the most fundamental identity information shared across all roles.
type User struct {
	ID              uuid.UUID        // The Global Unique Identifier (GUID) for the user.
	Email           string           // The user's primary contact email, often used as a login identifier.
	Name            string           // The user's display name or real name.
	Phone           string           // The user's contact phone number.
	ResidentProfile *ResidentProfile // A pointer to the resident-specific profile. Nil if this account has no 'resident' role.
	CourierProfile  *CourierProfile  // A pointer to the courier-specific profile. Nil if this account has no 'courier' role.
	CreatedAt       time.Time        // Timestamp of when this user account was created.
	UpdatedAt       time.Time        // Timestamp of the last modification to this user's data.
}

// ResidentProfile holds data specific to the "resident" role, i.e. an
// individual who registers delivery addresses on the platform.
type ResidentProfile struct {
	UserID            uuid.UUID // Foreign Key that links this profile to a core User entity.
	PreferredLanguage string    // The resident's preferred UI language, e.g. "ar", "en".
	UpdatedAt         time.Time // Timestamp of the last modification to this profile.
}

// CourierProfile holds data specific to the "courier" role. Couriers belong to
// a logistics company and look up addresses with driver credentials.
type CourierProfile struct {
	UserID      uuid.UUID // Foreign Key that links this profile to a core User entity.
	CompanyID   uuid.UUID // The logistics company this driver works for.
	CompanyName string    // The company's registered name.
	DriverCode  string    // The company-issued driver identifier.
	UpdatedAt   time.Time // Timestamp of the last modification to this profile.
}
