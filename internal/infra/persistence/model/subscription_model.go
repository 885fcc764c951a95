package model

import (
	"time"

	"github.com/google/uuid"
)

// CourierSubscriptionModel mirrors the 'courier_subscriptions' table. One row
// per logistics company, enforced by the unique company_id constraint.
type CourierSubscriptionModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	CompanyID       uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_subscriptions_company_id;not null"`
	Plan            string    `gorm:"type:varchar(50);not null"`
	Status          string    `gorm:"type:varchar(20);not null"`
	CurrentPeriodAt time.Time `gorm:"not null"`
	RenewsAt        time.Time `gorm:"not null"`
	SubscribedAt    time.Time `gorm:"not null"`
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (CourierSubscriptionModel) TableName() string {
	return "courier_subscriptions"
}
