package model

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryFeedbackModel mirrors the 'delivery_feedback' table.
type DeliveryFeedbackModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	AddressID uuid.UUID `gorm:"type:uuid;not null;index"`
	CourierID uuid.UUID `gorm:"type:uuid;not null;index"`
	Outcome   string    `gorm:"type:varchar(20);not null"`
	Rating    int       `gorm:"not null;default:0"`
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (DeliveryFeedbackModel) TableName() string {
	return "delivery_feedback"
}
