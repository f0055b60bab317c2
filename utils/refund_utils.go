package utils

import (
	"encoding/json"

	"github.com/emporio-digital/storefront/models"
)

// Refund types accepted from clients.
const (
	RefundTypeTotal   = "Total"
	RefundTypePartial = "Parcial"
)

// RefundItemRequest names one order line and the quantity to refund.
type RefundItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// RefundScope is the requested refund recorded into the order history entry.
// The original OrderItems snapshot is never mutated.
type RefundScope struct {
	Type   string              `json:"type"`
	Reason string              `json:"reason,omitempty"`
	Items  []RefundItemRequest `json:"items,omitempty"`
}

// ValidateRefundItems checks a partial refund request against the order's
// item snapshot. Every requested line must exist on the order and must not
// exceed the ordered quantity.
func ValidateRefundItems(orderItems []models.OrderItem, requested []RefundItemRequest) error {
	if len(requested) == 0 {
		return ValidationAppError("Partial refund requires at least one item", nil)
	}

	ordered := make(map[uint]int, len(orderItems))
	for _, item := range orderItems {
		ordered[item.ProductID] = item.Quantity
	}

	for _, req := range requested {
		qty, ok := ordered[req.ProductID]
		if !ok {
			return ValidationAppError("Refund request references a product not in the order", nil)
		}
		if req.Quantity > qty {
			return ErrInvalidRefundQty
		}
	}
	return nil
}

// ResolveRefundStatus decides the target status for an approved refund. It
// runs before the provider refund executes: an approval that cannot legally
// transition must be rejected while no money has moved yet. A partial amount
// from AguardandoDevolucao falls out here, since that state only permits a
// full refund.
func ResolveRefundStatus(currentStatus string, approvedCents, totalCents int64) (string, error) {
	if approvedCents <= 0 || approvedCents > totalCents {
		return "", ValidationAppError("Approved amount must be positive and at most the order total", nil)
	}

	newStatus := models.OrderStatusRefunded
	if approvedCents < totalCents {
		newStatus = models.OrderStatusPartialRefund
	}

	if !models.CanTransition(currentStatus, newStatus) {
		return "", ErrIllegalTransition
	}
	return newStatus, nil
}

// EncodeRefundScope serializes the refund scope for the history entry note.
func EncodeRefundScope(scope RefundScope) string {
	data, err := json.Marshal(scope)
	if err != nil {
		return ""
	}
	return string(data)
}
