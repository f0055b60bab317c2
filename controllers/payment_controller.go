package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/emporio-digital/storefront/config"
	"github.com/emporio-digital/storefront/models"
	"github.com/emporio-digital/storefront/utils"
	"github.com/gin-gonic/gin"
)

// InitiatePayment creates a provider checkout session for a pending order.
// The provider call happens outside any database lock.
func InitiatePayment(c *gin.Context) {
	utils.LogInfo("InitiatePayment called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		OrderID uint `json:"order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request. order_id is required", err.Error())
		return
	}

	var order models.Order
	if err := config.DB.Where("id = ? AND user_id = ?", req.OrderID, user.ID).First(&order).Error; err != nil {
		utils.LogError("Order not found, ID: %d, user ID: %d", req.OrderID, user.ID)
		utils.AppErrorResponse(c, utils.ErrOrderNotFound)
		return
	}

	if order.Status != models.OrderStatusPending {
		utils.LogError("Payment not allowed, order ID: %d, status: %s", order.ID, order.Status)
		utils.AppErrorResponse(c, utils.ErrInvalidOrderState)
		return
	}

	sessionID, err := utils.CreateCheckoutSession(&order)
	if err != nil {
		utils.LogError("Failed to create checkout session for order ID: %d: %v", order.ID, err)
		utils.AppErrorResponse(c, err)
		return
	}
	utils.LogInfo("Created checkout session %s for order ID: %d", sessionID, order.ID)

	utils.Success(c, "Payment initiated successfully", gin.H{
		"order_id":     order.ID,
		"session_id":   sessionID,
		"amount":       fmt.Sprintf("%.2f", order.TotalAmount),
		"amount_cents": utils.ToCents(order.TotalAmount),
		"key":          config.AppConfig.RazorpayKey,
	})
}

// paymentWebhookPayload is the provider confirmation event. Delivery is
// at-least-once and unordered; transaction_id plus order_id is the
// idempotency key.
type paymentWebhookPayload struct {
	Event         string `json:"event"`
	OrderID       uint   `json:"order_id"`
	TransactionID string `json:"transaction_id"`
	AmountCents   int64  `json:"amount_cents"`
}

// PaymentWebhook processes asynchronous payment confirmations. Duplicates are
// acknowledged without reprocessing, amount mismatches are recorded for
// manual review and rejected, and confirmations for orders that can no longer
// accept payment (e.g. cancelled) are refused.
func PaymentWebhook(c *gin.Context) {
	utils.LogInfo("PaymentWebhook called")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequest(c, "Failed to read request body", nil)
		return
	}

	if !verifyWebhookSignature(c, body) {
		utils.LogError("Webhook signature verification failed")
		utils.Unauthorized(c, "Invalid webhook signature")
		return
	}

	var payload paymentWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		utils.LogError("Invalid webhook payload: %v", err)
		utils.BadRequest(c, "Invalid webhook payload", nil)
		return
	}
	if payload.OrderID == 0 || payload.TransactionID == "" {
		utils.BadRequest(c, "Webhook payload missing order_id or transaction_id", nil)
		return
	}
	utils.LogInfo("Processing webhook for order ID: %d, transaction: %s, amount: %d cents",
		payload.OrderID, payload.TransactionID, payload.AmountCents)

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	order, err := utils.LockOrder(tx, payload.OrderID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, utils.ErrOrderNotFound) {
			recordPaymentEvent(payload, models.PaymentEventUnknownOrder, "order does not exist")
		}
		utils.AppErrorResponse(c, err)
		return
	}

	action, err := utils.DecidePaymentConfirmation(order, payload.TransactionID, payload.AmountCents)
	if err != nil {
		tx.Rollback()
		switch {
		case errors.Is(err, utils.ErrAmountMismatch):
			utils.LogError("Webhook amount mismatch for order ID: %d: got %d cents, expected %d cents",
				order.ID, payload.AmountCents, utils.ToCents(order.TotalAmount))
			recordPaymentEvent(payload, models.PaymentEventAmountMismatch,
				fmt.Sprintf("expected %d cents", utils.ToCents(order.TotalAmount)))
		case errors.Is(err, utils.ErrIllegalTransition):
			utils.LogError("Webhook rejected for order ID: %d in status %s", order.ID, order.Status)
			recordPaymentEvent(payload, models.PaymentEventRejectedState,
				fmt.Sprintf("order status %s", order.Status))
		}
		utils.AppErrorResponse(c, err)
		return
	}

	if action == utils.ConfirmDuplicate {
		tx.Rollback()
		utils.LogInfo("Duplicate webhook for order ID: %d, transaction: %s", order.ID, payload.TransactionID)
		recordPaymentEvent(payload, models.PaymentEventDuplicate, "")
		utils.Success(c, "Payment already confirmed", gin.H{
			"order_id": order.ID,
			"status":   order.Status,
		})
		return
	}

	if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("transaction_id", payload.TransactionID).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to set transaction id for order ID: %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to confirm payment", nil)
		return
	}

	actor := "webhook:" + payload.TransactionID
	if err := utils.TransitionOrder(tx, order, models.OrderStatusPaid, actor, "Payment confirmed"); err != nil {
		tx.Rollback()
		utils.AppErrorResponse(c, err)
		return
	}

	event := models.PaymentEvent{
		OrderID:       payload.OrderID,
		TransactionID: payload.TransactionID,
		AmountCents:   payload.AmountCents,
		Disposition:   models.PaymentEventApplied,
	}
	if err := tx.Create(&event).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to record payment event for order ID: %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to confirm payment", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit payment confirmation for order ID: %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to confirm payment", nil)
		return
	}

	utils.LogInfo("Payment confirmed for order ID: %d, transaction: %s", order.ID, payload.TransactionID)
	utils.Success(c, "Payment confirmed", gin.H{
		"order_id": order.ID,
		"status":   models.OrderStatusPaid,
	})
}

// verifyWebhookSignature checks the HMAC-SHA256 signature over the raw body.
// The key version header selects the secret so keys can rotate.
func verifyWebhookSignature(c *gin.Context, body []byte) bool {
	signature := c.GetHeader("X-Webhook-Signature")
	if signature == "" {
		return false
	}

	secret, err := config.AppConfig.WebhookKey(c.GetHeader("X-Webhook-Key-Version"))
	if err != nil {
		utils.LogError("Webhook key lookup failed: %v", err)
		return false
	}

	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// recordPaymentEvent persists the webhook disposition outside the main
// transaction so the audit row survives a rolled-back confirmation.
func recordPaymentEvent(payload paymentWebhookPayload, disposition, detail string) {
	event := models.PaymentEvent{
		OrderID:       payload.OrderID,
		TransactionID: payload.TransactionID,
		AmountCents:   payload.AmountCents,
		Disposition:   disposition,
		Detail:        detail,
	}
	if err := config.DB.Create(&event).Error; err != nil {
		utils.LogError("Failed to record payment event for order ID: %d: %v", payload.OrderID, err)
	}
}
