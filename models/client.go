package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ClientStatusActive    = "active"
	ClientStatusInactive  = "inactive"
	ClientStatusSuspended = "suspended"
)

type Client struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name    string `gorm:"not null"`
	Phone   string `gorm:"size:50;index"`
	Email   string
	Address string

	// CreditBalance never exceeds CreditLimit except through an explicit
	// adjustment transaction.
	CreditLimit   float64 `gorm:"type:decimal(10,2);default:0.0"`
	CreditBalance float64 `gorm:"type:decimal(10,2);default:0.0"`
	Status        string  `gorm:"type:varchar(20);default:'active'"`

	Transactions []CreditTransaction `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`

	gorm.Model
}
