// Package model contains the GORM persistence models mirroring the PostgreSQL schema.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email     string    `gorm:"type:varchar(255);unique;not null"`
	Name      string    `gorm:"type:varchar(100)"`
	Phone     string    `gorm:"type:varchar(30)"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`

	ResidentProfile *ResidentProfileModel `gorm:"foreignKey:UserID"`
	CourierProfile  *CourierProfileModel  `gorm:"foreignKey:UserID"`
	Authentications []AuthenticationModel `gorm:"foreignKey:UserID"`
	RefreshTokens   []RefreshTokenModel   `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// ResidentProfileModel mirrors the 'resident_profiles' table. UserID references users.id (UUID).
type ResidentProfileModel struct {
	UserID            uuid.UUID `gorm:"primaryKey"`
	PreferredLanguage string    `gorm:"type:varchar(10)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (ResidentProfileModel) TableName() string {
	return "resident_profiles"
}

// CourierProfileModel mirrors the 'courier_profiles' table. UserID references users.id (UUID).
type CourierProfileModel struct {
	UserID      uuid.UUID `gorm:"primaryKey"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CompanyName string    `gorm:"type:varchar(100);not null"`
	DriverCode  string    `gorm:"type:varchar(50);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (CourierProfileModel) TableName() string {
	return "courier_profiles"
}
