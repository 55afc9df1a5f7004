package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationLowStock           = "low_stock"
	NotificationExpiration         = "expiration"
	NotificationOverduePayment     = "overdue_payment"
	NotificationSubscriptionExpiry = "subscription_expiry"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID     *uuid.UUID `gorm:"type:uuid;index"`

	Type        string `gorm:"type:varchar(30);index;not null"`
	Title       string `gorm:"not null"`
	Message     string
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	IsRead      bool       `gorm:"index;default:false"`

	CreatedAt time.Time `gorm:"index"`
	ReadAt    *time.Time
}

type AlertRule struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null"`

	Type           string `gorm:"type:varchar(30);index;not null"`
	ThresholdValue int    `gorm:"not null"`
	// No column default: gorm drops zero values for defaulted columns on
	// insert, which would silently flip an explicitly inactive rule to
	// active. Callers set the field.
	IsActive bool `gorm:"index"`

	gorm.Model
}
