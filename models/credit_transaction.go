package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CreditTxCreditSale = "credit_sale"
	CreditTxPayment    = "payment"
	CreditTxAdjustment = "adjustment"
)

// CreditTransaction is the client-side append-only ledger, analogous to
// StockMovement: inserting a row and moving the client's CreditBalance
// happen in the same transaction.
type CreditTransaction struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null"`

	TransactionType string `gorm:"type:varchar(20);index;not null"`
	// Amount is positive for credit_sale (balance up), positive for payment
	// (balance down) and a signed delta for adjustment.
	Amount      float64    `gorm:"type:decimal(10,2);not null"`
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	Notes       string

	CreatedAt time.Time `gorm:"index"`
}
