package model

import (
	"time"

	"github.com/google/uuid"
)

// AddressModel mirrors the 'addresses' table. The digital_id column carries the
// unique constraint that backs collision retries during ID issuance.
type AddressModel struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	DigitalID            string    `gorm:"type:varchar(14);uniqueIndex:idx_addresses_digital_id;not null"`
	OwnerID              uuid.UUID `gorm:"type:uuid;not null;index"`
	Description          string    `gorm:"type:text"`
	Latitude             *float64  `gorm:"type:double precision"`
	Longitude            *float64  `gorm:"type:double precision"`
	BuildingPhotoURL     string    `gorm:"type:varchar(500)"`
	GatePhotoURL         string    `gorm:"type:varchar(500)"`
	DoorPhotoURL         string    `gorm:"type:varchar(500)"`
	DeliveryPeriod       string    `gorm:"type:varchar(20)"`
	DeliverySlot         string    `gorm:"type:varchar(20)"`
	SpecialNote          string    `gorm:"type:text"`
	ShowFallbackContacts bool      `gorm:"not null;default:false"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	FallbackContacts []*FallbackContactModel `gorm:"foreignKey:AddressID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (AddressModel) TableName() string {
	return "addresses"
}
