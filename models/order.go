package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrTotalOutOfRange is returned by the order create hook when the total
// falls outside [MinOrderAmount, MaxOrderAmount].
var ErrTotalOutOfRange = errors.New("order total outside accepted range")

// Order status values. The storefront exposes them in Portuguese; the
// constants carry English names for readability in code.
const (
	OrderStatusPending         = "Pendente"
	OrderStatusPaid            = "Pago"
	OrderStatusShipped         = "Enviado"
	OrderStatusDelivered       = "Entregue"
	OrderStatusCancelled       = "Cancelado"
	OrderStatusRefundRequested = "ReembolsoSolicitado"
	OrderStatusAwaitingReturn  = "AguardandoDevolucao"
	OrderStatusRefunded        = "Reembolsado"
	OrderStatusPartialRefund   = "ReembolsadoParcialmente"
	OrderStatusRefundRejected  = "ReembolsoReprovado"
)

// Order total bounds, enforced at persistence time.
const (
	MinOrderAmount = 1.00
	MaxOrderAmount = 100000.00
)

// orderTransitions is the single authoritative transition table. Anything not
// listed here is illegal. ReembolsoReprovado is the only state that resumes a
// previous one (back to Pago).
var orderTransitions = map[string][]string{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusShipped, OrderStatusCancelled, OrderStatusRefundRequested},
	OrderStatusShipped: {OrderStatusDelivered},
	OrderStatusRefundRequested: {
		OrderStatusAwaitingReturn,
		OrderStatusRefunded,
		OrderStatusPartialRefund,
		OrderStatusRefundRejected,
	},
	OrderStatusAwaitingReturn: {OrderStatusRefunded},
	OrderStatusRefundRejected: {OrderStatusPaid},
}

// CanTransition reports whether moving an order from one status to another is
// legal.
func CanTransition(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether the status ends the order lifecycle.
func IsTerminalStatus(status string) bool {
	return len(orderTransitions[status]) == 0
}

// IsPaidOrLater reports whether the order has seen a successful payment. Used
// by the webhook idempotency check: a retried confirmation for an order in any
// of these states is a no-op, not an error.
func IsPaidOrLater(status string) bool {
	switch status {
	case OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusRefundRequested, OrderStatusAwaitingReturn,
		OrderStatusRefunded, OrderStatusPartialRefund, OrderStatusRefundRejected:
		return true
	}
	return false
}

// ValidStatus reports whether the value is a known order status.
func ValidStatus(status string) bool {
	if _, ok := orderTransitions[status]; ok {
		return true
	}
	switch status {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded, OrderStatusPartialRefund:
		return true
	}
	return false
}

type Order struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `json:"user_id"`
	User   User `json:"-" gorm:"foreignKey:UserID"`

	SubTotal     float64 `json:"sub_total"`
	Discount     float64 `json:"discount"`
	ShippingCost float64 `json:"shipping_cost"`
	TotalAmount  float64 `json:"total_amount"`

	CouponCode    string  `json:"coupon_code,omitempty"`
	CouponPercent float64 `json:"coupon_percent,omitempty"`

	ShippingMethod string `json:"shipping_method"`
	DeliveryDays   int    `json:"delivery_days"`

	Status        string `json:"status"`
	TransactionID string `json:"transaction_id,omitempty"`

	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"embedded;embeddedPrefix:ship_"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OrderItems []OrderItem    `json:"items" gorm:"foreignKey:OrderID"`
	History    []OrderHistory `json:"history,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem is a frozen copy of a product line at order time. Name and unit
// price are snapshots; later catalog changes never alter them.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `json:"order_id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// OrderHistory is the append-only status log. Rows are only ever inserted,
// in the same transaction as the status change they record.
type OrderHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `json:"order_id" gorm:"index"`
	Status    string    `json:"status"`
	Actor     string    `json:"actor"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate keeps every persisted order inside the configured total
// bounds. Orders are immutable after creation, so the create hook is the
// enforcement point.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.TotalAmount < MinOrderAmount || o.TotalAmount > MaxOrderAmount {
		return fmt.Errorf("%w: %.2f not in [%.2f, %.2f]",
			ErrTotalOutOfRange, o.TotalAmount, MinOrderAmount, MaxOrderAmount)
	}
	return nil
}
