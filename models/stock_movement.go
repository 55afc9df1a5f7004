package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MovementStockIn    = "stock_in"
	MovementStockOut   = "stock_out"
	MovementAdjustment = "adjustment"
	MovementDamaged    = "damaged"
	MovementExpired    = "expired"
)

// StockMovement is an append-only ledger entry. Rows are never updated or
// deleted after insertion; the product's QuantityInStock is adjusted in the
// same transaction that inserts the row.
type StockMovement struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`

	MovementType string `gorm:"type:varchar(20);index;not null"`
	// Quantity is a positive count for stock_in/stock_out/damaged/expired
	// and a signed delta for adjustment movements.
	Quantity    int        `gorm:"not null"`
	ReferenceID *uuid.UUID `gorm:"type:uuid"` // sale or invoice that caused the movement
	Notes       string

	CreatedAt time.Time `gorm:"index"`
}
