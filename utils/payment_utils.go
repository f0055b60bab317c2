package utils

import (
	"fmt"
	"strconv"

	"github.com/emporio-digital/storefront/config"
	"github.com/emporio-digital/storefront/models"

	razorpay "github.com/razorpay/razorpay-go"
)

// providerTimeoutSeconds bounds every outbound provider call. A timed-out
// call counts as failed, never as confirmed.
const providerTimeoutSeconds int16 = 15

// ConfirmAction is the outcome of evaluating a payment confirmation against
// the current order state.
type ConfirmAction int

const (
	// ConfirmApply transitions the order to paid.
	ConfirmApply ConfirmAction = iota
	// ConfirmDuplicate acknowledges a webhook retry without reprocessing.
	ConfirmDuplicate
)

// DecidePaymentConfirmation evaluates a webhook confirmation against an
// order. It is pure: the caller applies the returned action inside its
// transaction. Check order matters — a retried confirmation for an already
// paid order must succeed as a no-op before any other guard fires.
func DecidePaymentConfirmation(order *models.Order, transactionID string, amountCents int64) (ConfirmAction, error) {
	if models.IsPaidOrLater(order.Status) && order.TransactionID == transactionID {
		return ConfirmDuplicate, nil
	}

	if amountCents != ToCents(order.TotalAmount) {
		return 0, ErrAmountMismatch
	}

	if !models.CanTransition(order.Status, models.OrderStatusPaid) {
		return 0, ErrIllegalTransition
	}

	return ConfirmApply, nil
}

func providerClient() *razorpay.Client {
	client := razorpay.NewClient(config.AppConfig.RazorpayKey, config.AppConfig.RazorpaySecret)
	client.SetTimeout(providerTimeoutSeconds)
	return client
}

// CreateCheckoutSession creates a provider checkout session for the order and
// returns the provider-side session id. Declared as a variable so tests and
// local setups can stub the network call.
var CreateCheckoutSession = func(order *models.Order) (string, error) {
	client := providerClient()
	data := map[string]interface{}{
		"amount":          ToCents(order.TotalAmount),
		"currency":        "BRL",
		"receipt":         "order_rcptid_" + strconv.FormatUint(uint64(order.ID), 10),
		"payment_capture": 1,
	}
	session, err := client.Order.Create(data, nil)
	if err != nil {
		return "", ExternalServiceAppError("Payment provider is unavailable", err)
	}
	return fmt.Sprintf("%v", session["id"]), nil
}

// ExecuteProviderRefund asks the provider to refund the given amount against
// a captured transaction. On timeout the refund is treated as failed, never
// assumed successful; the admin retries resolution.
var ExecuteProviderRefund = func(transactionID string, amountCents int64) error {
	client := providerClient()
	data := map[string]interface{}{
		"amount": amountCents,
	}
	if _, err := client.Payment.Refund(transactionID, int(amountCents), data, nil); err != nil {
		return ExternalServiceAppError("Payment provider refund failed", err)
	}
	return nil
}
