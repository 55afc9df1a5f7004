package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of user roles. Authorization tables in utils/rbac.go
// are keyed on these values; anything outside the set is denied everywhere.
type Role string

const (
	RoleSuperAdmin       Role = "super_admin"
	RoleBusinessAdmin    Role = "business_admin"
	RoleInventoryManager Role = "inventory_manager"
	RoleCashier          Role = "cashier"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleBusinessAdmin, RoleInventoryManager, RoleCashier:
		return true
	}
	return false
}

const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null"`

	Username     string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"not null"`
	PasswordHash string `gorm:"not null"`
	FirstName    string `gorm:"size:100"`
	LastName     string `gorm:"size:100"`
	Phone        string `gorm:"size:50"`
	Role         Role   `gorm:"type:varchar(20);not null"`
	Status       string `gorm:"type:varchar(20);default:'active'"`
	LastLogin    *time.Time

	gorm.Model
}
