package controllers

import (
	"fmt"
	"strconv"

	"github.com/emporio-digital/storefront/config"
	"github.com/emporio-digital/storefront/models"
	"github.com/emporio-digital/storefront/utils"
	"github.com/gin-gonic/gin"
)

// RequestRefund lets the order's owner ask for a total or partial refund of a
// paid order. The requested scope is recorded in the history entry; the
// original item snapshot is never touched.
func RequestRefund(c *gin.Context) {
	utils.LogInfo("RequestRefund called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var req struct {
		RefundType string                    `json:"refund_type" binding:"required,oneof=Total Parcial"`
		Reason     string                    `json:"reason"`
		Items      []utils.RefundItemRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid refund request for order ID: %d: %v", orderID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	order, err := utils.LockOrder(tx, uint(orderID))
	if err != nil {
		tx.Rollback()
		utils.AppErrorResponse(c, err)
		return
	}

	if order.UserID != user.ID {
		tx.Rollback()
		utils.LogError("User ID: %d attempted refund on foreign order ID: %d", user.ID, order.ID)
		utils.AppErrorResponse(c, utils.ErrForbidden)
		return
	}

	if order.Status != models.OrderStatusPaid {
		tx.Rollback()
		utils.LogError("Refund not allowed for order ID: %d in status %s", order.ID, order.Status)
		utils.AppErrorResponse(c, utils.ErrInvalidOrderState)
		return
	}

	scope := utils.RefundScope{Type: req.RefundType, Reason: req.Reason}
	if req.RefundType == utils.RefundTypePartial {
		if err := utils.ValidateRefundItems(order.OrderItems, req.Items); err != nil {
			tx.Rollback()
			utils.LogError("Invalid partial refund for order ID: %d: %v", order.ID, err)
			utils.AppErrorResponse(c, err)
			return
		}
		scope.Items = req.Items
	}

	actor := fmt.Sprintf("user:%d", user.ID)
	if err := utils.TransitionOrder(tx, order, models.OrderStatusRefundRequested, actor, utils.EncodeRefundScope(scope)); err != nil {
		tx.Rollback()
		utils.AppErrorResponse(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to submit refund request", nil)
		return
	}

	utils.LogInfo("Refund requested for order ID: %d by user ID: %d, type: %s", order.ID, user.ID, req.RefundType)
	utils.Success(c, "Refund request submitted", gin.H{
		"id":          order.ID,
		"status":      order.Status,
		"refund_type": req.RefundType,
	})
}
