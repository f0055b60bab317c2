package utils

import (
	"encoding/json"
	"testing"

	"github.com/emporio-digital/storefront/models"
	"github.com/stretchr/testify/assert"
)

func orderItemsFixture() []models.OrderItem {
	return []models.OrderItem{
		{ProductID: 1, ProductName: "Caneca", Quantity: 2, UnitPrice: 10.00},
		{ProductID: 2, ProductName: "Camiseta", Quantity: 1, UnitPrice: 35.00},
	}
}

func TestValidateRefundItemsAccepted(t *testing.T) {
	err := ValidateRefundItems(orderItemsFixture(), []RefundItemRequest{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	})
	assert.NoError(t, err)
}

func TestValidateRefundItemsQuantityExceedsSnapshot(t *testing.T) {
	items := orderItemsFixture()
	err := ValidateRefundItems(items, []RefundItemRequest{
		{ProductID: 1, Quantity: 3},
	})
	assert.ErrorIs(t, err, ErrInvalidRefundQty)

	// Validation never mutates the snapshot.
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestValidateRefundItemsUnknownProduct(t *testing.T) {
	err := ValidateRefundItems(orderItemsFixture(), []RefundItemRequest{
		{ProductID: 99, Quantity: 1},
	})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidRefundQty)
}

func TestValidateRefundItemsEmptyRequest(t *testing.T) {
	err := ValidateRefundItems(orderItemsFixture(), nil)
	assert.Error(t, err)
}

func TestResolveRefundStatusFullAndPartial(t *testing.T) {
	status, err := ResolveRefundStatus(models.OrderStatusRefundRequested, 2300, 2300)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusRefunded, status)

	status, err = ResolveRefundStatus(models.OrderStatusRefundRequested, 1000, 2300)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPartialRefund, status)
}

func TestResolveRefundStatusAwaitingReturn(t *testing.T) {
	// Once the customer is returning the goods, only a full refund is legal.
	status, err := ResolveRefundStatus(models.OrderStatusAwaitingReturn, 2300, 2300)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusRefunded, status)

	// A partial amount must be refused here, before the provider refund runs.
	_, err = ResolveRefundStatus(models.OrderStatusAwaitingReturn, 100, 2300)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestResolveRefundStatusRejectsOtherStates(t *testing.T) {
	for _, status := range []string{
		models.OrderStatusPending,
		models.OrderStatusPaid,
		models.OrderStatusCancelled,
		models.OrderStatusRefunded,
	} {
		_, err := ResolveRefundStatus(status, 2300, 2300)
		assert.ErrorIs(t, err, ErrIllegalTransition, "approval from %s should be illegal", status)
	}
}

func TestResolveRefundStatusAmountBounds(t *testing.T) {
	_, err := ResolveRefundStatus(models.OrderStatusRefundRequested, 0, 2300)
	assert.Error(t, err)

	_, err = ResolveRefundStatus(models.OrderStatusRefundRequested, 2301, 2300)
	assert.Error(t, err)
}

func TestEncodeRefundScope(t *testing.T) {
	scope := RefundScope{
		Type:  RefundTypePartial,
		Items: []RefundItemRequest{{ProductID: 1, Quantity: 1}},
	}

	var decoded RefundScope
	assert.NoError(t, json.Unmarshal([]byte(EncodeRefundScope(scope)), &decoded))
	assert.Equal(t, scope, decoded)

	total := RefundScope{Type: RefundTypeTotal}
	assert.JSONEq(t, `{"type":"Total"}`, EncodeRefundScope(total))
}
