package models

import (
	"time"
)

// PaymentEvent dispositions.
const (
	PaymentEventApplied        = "applied"
	PaymentEventDuplicate      = "duplicate"
	PaymentEventAmountMismatch = "amount_mismatch"
	PaymentEventRejectedState  = "rejected_state"
	PaymentEventUnknownOrder   = "unknown_order"
)

// PaymentEvent records every webhook delivery and what was done with it.
// Mismatched amounts are never silently corrected; they land here for manual
// review.
type PaymentEvent struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	OrderID       uint      `json:"order_id" gorm:"index"`
	TransactionID string    `json:"transaction_id"`
	AmountCents   int64     `json:"amount_cents"`
	Disposition   string    `json:"disposition"`
	Detail        string    `json:"detail,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
