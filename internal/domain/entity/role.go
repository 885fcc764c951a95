// Package entity contains the core business objects of the project.
package entity

// Role identifies a capability attached to a user account.
type Role string

const (
	// RoleResident marks an individual who owns digital addresses.
	RoleResident Role = "resident"
	// RoleCourier marks a logistics-company driver who looks up addresses.
	RoleCourier Role = "courier"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a known value.
func (r Role) IsValid() bool {
	switch r {
	case RoleResident, RoleCourier:
		return true
	default:
		return false
	}
}
