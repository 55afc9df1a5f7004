package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PlanStatusActive   = "active"
	PlanStatusInactive = "inactive"
)

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusCancelled = "cancelled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// JSONB stores free-form feature maps on plans.
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return errors.New("type assertion to []byte failed")
		}
	}
	return json.Unmarshal(b, &j)
}

type Plan struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Name        string    `gorm:"not null"`
	Description string
	Price       float64 `gorm:"type:decimal(10,2);not null"`
	Duration    int     `gorm:"not null"` // in months
	MaxUsers    int     `gorm:"not null"`
	MaxProducts int     `gorm:"not null"`
	Features    JSONB   `gorm:"type:jsonb;default:'{}'"`
	Status      string  `gorm:"type:varchar(20);default:'active'"`

	Subscriptions []Subscription `gorm:"foreignKey:PlanID"`

	gorm.Model
}

type Subscription struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null"`
	PlanID     uuid.UUID `gorm:"type:uuid;index;not null"`

	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	Status    string    `gorm:"type:varchar(20);index;default:'pending'"`
	// No column default, same reason as AlertRule.IsActive: an explicit
	// autoRenewal=false must survive the insert.
	AutoRenewal bool

	Payments []Payment `gorm:"foreignKey:SubscriptionID;constraint:OnDelete:CASCADE"`

	gorm.Model
}

type Payment struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	SubscriptionID uuid.UUID `gorm:"type:uuid;index;not null"`

	Amount        float64   `gorm:"type:decimal(10,2);not null"`
	TransactionID string
	PaymentMethod string    `gorm:"size:100;not null"`
	PaymentDate   time.Time `gorm:"index;not null"`
	Status        string    `gorm:"type:varchar(20);default:'pending'"`

	CreatedAt time.Time
}
