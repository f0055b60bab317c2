package utils

import (
	"testing"

	"github.com/emporio-digital/storefront/models"
	"github.com/stretchr/testify/assert"
)

func TestToCents(t *testing.T) {
	assert.Equal(t, int64(2300), ToCents(23.00))
	assert.Equal(t, int64(1), ToCents(0.01))
	assert.Equal(t, int64(1999), ToCents(19.99))
	// 0.1+0.2 style representation error must not shift the cent value
	assert.Equal(t, int64(30), ToCents(0.1+0.2))
}

func TestDecidePaymentConfirmationApplies(t *testing.T) {
	order := &models.Order{
		ID:          1,
		Status:      models.OrderStatusPending,
		TotalAmount: 23.00,
	}

	action, err := DecidePaymentConfirmation(order, "pay_abc", 2300)
	assert.NoError(t, err)
	assert.Equal(t, ConfirmApply, action)
}

func TestDecidePaymentConfirmationIsIdempotent(t *testing.T) {
	order := &models.Order{
		ID:            1,
		Status:        models.OrderStatusPaid,
		TotalAmount:   23.00,
		TransactionID: "pay_abc",
	}

	// Same transaction id retried: no-op success, regardless of amount.
	action, err := DecidePaymentConfirmation(order, "pay_abc", 2300)
	assert.NoError(t, err)
	assert.Equal(t, ConfirmDuplicate, action)

	// Still a duplicate after the order moved on in its lifecycle.
	order.Status = models.OrderStatusShipped
	action, err = DecidePaymentConfirmation(order, "pay_abc", 2300)
	assert.NoError(t, err)
	assert.Equal(t, ConfirmDuplicate, action)
}

func TestDecidePaymentConfirmationSecondTransactionRejected(t *testing.T) {
	order := &models.Order{
		ID:            1,
		Status:        models.OrderStatusPaid,
		TotalAmount:   23.00,
		TransactionID: "pay_abc",
	}

	// A different transaction against an already paid order is not a retry.
	_, err := DecidePaymentConfirmation(order, "pay_xyz", 2300)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestDecidePaymentConfirmationAmountMismatch(t *testing.T) {
	order := &models.Order{
		ID:          1,
		Status:      models.OrderStatusPending,
		TotalAmount: 23.00,
	}

	_, err := DecidePaymentConfirmation(order, "pay_abc", 2200)
	assert.ErrorIs(t, err, ErrAmountMismatch)
	// The guard never touches the order.
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Empty(t, order.TransactionID)
}

func TestDecidePaymentConfirmationCancelledOrder(t *testing.T) {
	order := &models.Order{
		ID:          1,
		Status:      models.OrderStatusCancelled,
		TotalAmount: 23.00,
	}

	// Late webhook after a manual cancellation is rejected, not applied.
	_, err := DecidePaymentConfirmation(order, "pay_abc", 2300)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
}
