package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name        string `gorm:"not null"`
	Description string
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`

	Children []Category `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL"`
	Products []Product  `gorm:"foreignKey:CategoryID"`

	gorm.Model
}
