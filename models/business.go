package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BusinessStatusActive    = "active"
	BusinessStatusInactive  = "inactive"
	BusinessStatusSuspended = "suspended"
)

type Business struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	Name             string    `gorm:"not null"`
	Email            string    `gorm:"uniqueIndex;not null"`
	Phone            string    `gorm:"size:50"`
	Address          string
	RegistrationDate time.Time `gorm:"not null"`
	Status           string    `gorm:"type:varchar(20);default:'active'"`

	Users         []User         `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE"`
	Categories    []Category     `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE"`
	Suppliers     []Supplier     `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE"`
	Products      []Product      `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE"`
	Clients       []Client       `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE"`
	Sales         []Sale         `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE"`
	Invoices      []Invoice      `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE"`
	Notifications []Notification `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE"`
	AlertRules    []AlertRule    `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE"`

	gorm.Model
}
