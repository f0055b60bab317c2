package controllers

import (
	"fmt"
	"strconv"

	"github.com/emporio-digital/storefront/config"
	"github.com/emporio-digital/storefront/models"
	"github.com/emporio-digital/storefront/utils"
	"github.com/gin-gonic/gin"
)

// AdminListRefundRequests returns orders waiting for refund resolution.
func AdminListRefundRequests(c *gin.Context) {
	utils.LogInfo("AdminListRefundRequests called")

	pagination := utils.NewPagination(c)
	statuses := []string{models.OrderStatusRefundRequested, models.OrderStatusAwaitingReturn}

	var total int64
	if err := config.DB.Model(&models.Order{}).Where("status IN ?", statuses).Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to load refund requests", nil)
		return
	}

	var orders []models.Order
	if err := config.DB.Preload("OrderItems").
		Where("status IN ?", statuses).
		Order("updated_at").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to load refund requests: %v", err)
		utils.InternalServerError(c, "Failed to load refund requests", nil)
		return
	}

	var summaries []gin.H
	for i := range orders {
		summary := orderSummary(&orders[i])
		summary["user_id"] = orders[i].UserID
		summary["transaction_id"] = orders[i].TransactionID
		summaries = append(summaries, summary)
	}

	utils.SuccessWithPagination(c, "Refund requests retrieved", summaries, total, pagination.Page, pagination.Limit)
}

// AdminResolveRefund decides a pending refund request.
//
// Approval executes the provider refund first, with no database lock held;
// only after the provider accepts does the order transition. A provider
// failure leaves the order in ReembolsoSolicitado and reports 502 so the
// admin retries. Rejection moves through ReembolsoReprovado and immediately
// resumes Pago, appending both history entries.
func AdminResolveRefund(c *gin.Context) {
	utils.LogInfo("AdminResolveRefund called")

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var req struct {
		Action              string `json:"action" binding:"required,oneof=approve reject await_return"`
		ApprovedAmountCents int64  `json:"approved_amount_cents"`
		Reason              string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var order models.Order
	if err := config.DB.Preload("User").First(&order, orderID).Error; err != nil {
		utils.AppErrorResponse(c, utils.ErrOrderNotFound)
		return
	}

	switch req.Action {
	case "approve":
		resolveRefundApproval(c, &order, req.ApprovedAmountCents)
	case "reject":
		resolveRefundRejection(c, &order, req.Reason)
	case "await_return":
		markAwaitingReturn(c, &order)
	}
}

func resolveRefundApproval(c *gin.Context, order *models.Order, approvedCents int64) {
	if order.Status != models.OrderStatusRefundRequested && order.Status != models.OrderStatusAwaitingReturn {
		utils.LogError("Refund approval rejected for order ID: %d in status %s", order.ID, order.Status)
		utils.AppErrorResponse(c, utils.ErrInvalidOrderState)
		return
	}
	if order.TransactionID == "" {
		utils.LogError("Order ID: %d has no captured transaction to refund", order.ID)
		utils.AppErrorResponse(c, utils.ErrInvalidOrderState)
		return
	}

	// Decide the target status before any money moves. An approval that the
	// state machine would refuse (a partial amount while awaiting the return,
	// for example) must be rejected here, not after the provider has paid out.
	newStatus, err := utils.ResolveRefundStatus(order.Status, approvedCents, utils.ToCents(order.TotalAmount))
	if err != nil {
		utils.LogError("Refund approval refused for order ID: %d in status %s: %v", order.ID, order.Status, err)
		utils.AppErrorResponse(c, err)
		return
	}

	// Provider call next, lock after. If this fails nothing has moved and the
	// admin can retry the resolution.
	if err := utils.ExecuteProviderRefund(order.TransactionID, approvedCents); err != nil {
		utils.LogError("Provider refund failed for order ID: %d: %v", order.ID, err)
		utils.AppErrorResponse(c, err)
		return
	}
	utils.LogInfo("Provider refund executed for order ID: %d, amount: %d cents", order.ID, approvedCents)

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	locked, err := utils.LockOrder(tx, order.ID)
	if err != nil {
		tx.Rollback()
		utils.AppErrorResponse(c, err)
		return
	}
	if locked.Status != order.Status {
		tx.Rollback()
		utils.LogError("Order ID: %d changed status during refund execution: %s", order.ID, locked.Status)
		utils.AppErrorResponse(c, utils.ErrInvalidOrderState)
		return
	}

	note := fmt.Sprintf("Refund approved: %d cents", approvedCents)
	if err := utils.TransitionOrder(tx, locked, newStatus, "admin", note); err != nil {
		tx.Rollback()
		utils.AppErrorResponse(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to resolve refund", nil)
		return
	}

	amount := float64(approvedCents) / 100
	go utils.NotifyRefundResolved(order.User, *order, true, amount)

	utils.LogInfo("Refund approved for order ID: %d, new status: %s", order.ID, newStatus)
	utils.Success(c, "Refund approved", gin.H{
		"id":              order.ID,
		"status":          newStatus,
		"refunded_amount": fmt.Sprintf("%.2f", amount),
	})
}

func resolveRefundRejection(c *gin.Context, order *models.Order, reason string) {
	if reason == "" {
		utils.BadRequest(c, "Reason is required when rejecting a refund", nil)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	locked, err := utils.LockOrder(tx, order.ID)
	if err != nil {
		tx.Rollback()
		utils.AppErrorResponse(c, err)
		return
	}
	if locked.Status != models.OrderStatusRefundRequested {
		tx.Rollback()
		utils.LogError("Refund rejection not allowed for order ID: %d in status %s", order.ID, locked.Status)
		utils.AppErrorResponse(c, utils.ErrInvalidOrderState)
		return
	}

	// Two transitions, two history rows: the rejection is recorded and the
	// order resumes its paid lifecycle.
	if err := utils.TransitionOrder(tx, locked, models.OrderStatusRefundRejected, "admin", reason); err != nil {
		tx.Rollback()
		utils.AppErrorResponse(c, err)
		return
	}
	if err := utils.TransitionOrder(tx, locked, models.OrderStatusPaid, "admin", "Resumed after refund rejection"); err != nil {
		tx.Rollback()
		utils.AppErrorResponse(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to resolve refund", nil)
		return
	}

	go utils.NotifyRefundResolved(order.User, *order, false, 0)

	utils.LogInfo("Refund rejected for order ID: %d", order.ID)
	utils.Success(c, "Refund rejected", gin.H{
		"id":     order.ID,
		"status": models.OrderStatusPaid,
	})
}

func markAwaitingReturn(c *gin.Context, order *models.Order) {
	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	locked, err := utils.LockOrder(tx, order.ID)
	if err != nil {
		tx.Rollback()
		utils.AppErrorResponse(c, err)
		return
	}

	if err := utils.TransitionOrder(tx, locked, models.OrderStatusAwaitingReturn, "admin", "Waiting for items to be returned"); err != nil {
		tx.Rollback()
		utils.AppErrorResponse(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to update refund request", nil)
		return
	}

	utils.LogInfo("Order ID: %d marked as awaiting return", order.ID)
	utils.Success(c, "Order marked as awaiting return", gin.H{
		"id":     order.ID,
		"status": models.OrderStatusAwaitingReturn,
	})
}
