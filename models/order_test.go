package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionHappyPath(t *testing.T) {
	// Pendente -> Pago -> Enviado -> Entregue
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusPaid))
	assert.True(t, CanTransition(OrderStatusPaid, OrderStatusShipped))
	assert.True(t, CanTransition(OrderStatusShipped, OrderStatusDelivered))
}

func TestCanTransitionRefundFlow(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusPaid, OrderStatusRefundRequested))
	assert.True(t, CanTransition(OrderStatusRefundRequested, OrderStatusAwaitingReturn))
	assert.True(t, CanTransition(OrderStatusRefundRequested, OrderStatusRefunded))
	assert.True(t, CanTransition(OrderStatusRefundRequested, OrderStatusPartialRefund))
	assert.True(t, CanTransition(OrderStatusRefundRequested, OrderStatusRefundRejected))
	assert.True(t, CanTransition(OrderStatusAwaitingReturn, OrderStatusRefunded))

	// Rejection resumes the paid lifecycle
	assert.True(t, CanTransition(OrderStatusRefundRejected, OrderStatusPaid))
}

func TestCanTransitionRejectsIllegalMoves(t *testing.T) {
	cases := []struct {
		from, to string
	}{
		{OrderStatusPending, OrderStatusShipped},
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusPending, OrderStatusRefundRequested},
		{OrderStatusCancelled, OrderStatusPaid},
		{OrderStatusDelivered, OrderStatusShipped},
		{OrderStatusShipped, OrderStatusPaid},
		{OrderStatusRefunded, OrderStatusPaid},
		{OrderStatusPartialRefund, OrderStatusPaid},
		{OrderStatusPaid, OrderStatusDelivered},
		{OrderStatusPaid, OrderStatusPending},
	}
	for _, tc := range cases {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be illegal", tc.from, tc.to)
	}
}

func TestTerminalStates(t *testing.T) {
	for _, status := range []string{
		OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusRefunded,
		OrderStatusPartialRefund,
	} {
		assert.True(t, IsTerminalStatus(status), "%s should be terminal", status)
	}

	for _, status := range []string{
		OrderStatusPending,
		OrderStatusPaid,
		OrderStatusShipped,
		OrderStatusRefundRequested,
		OrderStatusAwaitingReturn,
		OrderStatusRefundRejected,
	} {
		assert.False(t, IsTerminalStatus(status), "%s should not be terminal", status)
	}
}

func TestIsPaidOrLater(t *testing.T) {
	assert.False(t, IsPaidOrLater(OrderStatusPending))
	assert.False(t, IsPaidOrLater(OrderStatusCancelled))
	assert.True(t, IsPaidOrLater(OrderStatusPaid))
	assert.True(t, IsPaidOrLater(OrderStatusShipped))
	assert.True(t, IsPaidOrLater(OrderStatusRefunded))
	assert.True(t, IsPaidOrLater(OrderStatusRefundRequested))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(OrderStatusPending))
	assert.True(t, ValidStatus(OrderStatusDelivered))
	assert.False(t, ValidStatus("Shipped"))
	assert.False(t, ValidStatus(""))
}
