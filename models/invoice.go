package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InvoicePaymentPending = "pending"
	InvoicePaymentPartial = "partial"
	InvoicePaymentPaid    = "paid"
	InvoicePaymentOverdue = "overdue"
)

const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

type Invoice struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_business_invoice_number,priority:1"`
	ClientID   uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null"`

	InvoiceNumber string    `gorm:"size:100;not null;uniqueIndex:idx_business_invoice_number,priority:2"`
	InvoiceDate   time.Time `gorm:"index;not null"`
	DueDate       time.Time `gorm:"index;not null"`

	Subtotal       float64 `gorm:"type:decimal(10,2);not null"`
	TaxAmount      float64 `gorm:"type:decimal(10,2);default:0.0"`
	DiscountAmount float64 `gorm:"type:decimal(10,2);default:0.0"`
	TotalAmount    float64 `gorm:"type:decimal(10,2);not null"`

	// PaymentStatus is derived from SUM(payments) vs TotalAmount, never
	// taken from input.
	PaymentStatus string `gorm:"type:varchar(20);default:'pending'"`
	Status        string `gorm:"type:varchar(20);default:'draft'"`

	Items    []InvoiceItem    `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Payments []InvoicePayment `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	gorm.Model
}

type InvoiceItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"`

	Quantity       int     `gorm:"not null"`
	UnitPrice      float64 `gorm:"type:decimal(10,2);not null"`
	TotalPrice     float64 `gorm:"type:decimal(10,2);not null"`
	DiscountAmount float64 `gorm:"type:decimal(10,2);default:0.0"`

	CreatedAt time.Time
}

type InvoicePayment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	Amount        float64   `gorm:"type:decimal(10,2);not null"`
	PaymentMethod string    `gorm:"type:varchar(20);not null"`
	PaymentDate   time.Time `gorm:"index;not null"`
	Reference     string

	CreatedAt time.Time
}
