package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Supplier struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name          string `gorm:"not null"`
	ContactPerson string
	Email         string
	Phone         string `gorm:"size:50"`
	Address       string

	Products []Product `gorm:"foreignKey:SupplierID"`

	gorm.Model
}
