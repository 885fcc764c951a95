package model

import (
	"time"

	"github.com/google/uuid"
)

// FallbackContactModel mirrors the 'fallback_contacts' table. Rows are removed
// by the database cascade when the parent address is deleted.
type FallbackContactModel struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	AddressID            uuid.UUID `gorm:"type:uuid;not null;index"`
	Name                 string    `gorm:"type:varchar(100);not null"`
	Phone                string    `gorm:"type:varchar(30);not null"`
	Relationship         string    `gorm:"type:varchar(50)"`
	TextAddress          string    `gorm:"type:text"`
	Latitude             *float64  `gorm:"type:double precision"`
	Longitude            *float64  `gorm:"type:double precision"`
	DistanceKm           *float64  `gorm:"type:double precision"`
	RequiresExtraFee     bool      `gorm:"not null;default:false"`
	ExtraFeeAcknowledged bool      `gorm:"not null;default:false"`
	ScheduledDate        string    `gorm:"type:varchar(10)"`
	ScheduledTimeSlot    string    `gorm:"type:varchar(20)"`
	BuildingPhotoURL     string    `gorm:"type:varchar(500)"`
	GatePhotoURL         string    `gorm:"type:varchar(500)"`
	SpecialNote          string    `gorm:"type:text"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName explicitly sets the table name for GORM.
func (FallbackContactModel) TableName() string {
	return "fallback_contacts"
}
