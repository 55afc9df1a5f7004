package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentMethodCash        = "cash"
	PaymentMethodCredit      = "credit"
	PaymentMethodCard        = "card"
	PaymentMethodMobileMoney = "mobile_money"
)

const (
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
	SaleStatusRefunded  = "refunded"
)

type Sale struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null"`
	ClientID   *uuid.UUID `gorm:"type:uuid;index"` // set null when the client is removed
	UserID     uuid.UUID `gorm:"type:uuid;index;not null"`

	SaleDate       time.Time `gorm:"index;not null"`
	Subtotal       float64   `gorm:"type:decimal(10,2);not null"`
	TaxAmount      float64   `gorm:"type:decimal(10,2);default:0.0"`
	DiscountAmount float64   `gorm:"type:decimal(10,2);default:0.0"`
	TotalAmount    float64   `gorm:"type:decimal(10,2);not null"`
	PaymentMethod  string    `gorm:"type:varchar(20);not null"`
	Status         string    `gorm:"type:varchar(20);default:'completed'"`

	Items []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`

	gorm.Model
}

type SaleItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	SaleID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"`

	Quantity       int     `gorm:"not null"`
	UnitPrice      float64 `gorm:"type:decimal(10,2);not null"`
	TotalPrice     float64 `gorm:"type:decimal(10,2);not null"`
	DiscountAmount float64 `gorm:"type:decimal(10,2);default:0.0"`

	CreatedAt time.Time
}
