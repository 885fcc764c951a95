package model

import (
	"time"

	"github.com/google/uuid"
)

// DeviceTokenModel mirrors the 'device_tokens' table. A user may register the
// same token only once.
type DeviceTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_device_tokens_user_token"`
	Token     string    `gorm:"type:varchar(500);not null;uniqueIndex:idx_device_tokens_user_token"`
	Platform  string    `gorm:"type:varchar(10);not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (DeviceTokenModel) TableName() string {
	return "device_tokens"
}
