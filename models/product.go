package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProductStatusActive       = "active"
	ProductStatusInactive     = "inactive"
	ProductStatusDiscontinued = "discontinued"
)

type Product struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_business_barcode,priority:1"`

	// Category and supplier are restrict-delete: a parent with referencing
	// products cannot be removed.
	CategoryID *uuid.UUID `gorm:"type:uuid;index"`
	SupplierID *uuid.UUID `gorm:"type:uuid;index"`

	Name string `gorm:"size:255;not null"`
	// Barcode is nullable so the composite unique index only guards real
	// barcodes; barcode-less products must not collide with each other.
	Barcode               *string `gorm:"size:100;uniqueIndex:idx_business_barcode,priority:2"`
	UnitPrice             float64 `gorm:"type:decimal(10,2);not null"`
	CostPrice             float64 `gorm:"type:decimal(10,2);default:0.0"`
	Description           string
	ExpirationDate        *time.Time
	QuantityInStock       int     `gorm:"default:0"`
	MinimumStockThreshold int     `gorm:"default:0"`
	TaxRate               float64 `gorm:"type:decimal(5,2);default:0.0"`
	Status                string  `gorm:"type:varchar(20);default:'active'"`

	Movements []StockMovement `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	gorm.Model
}
