package controllers

import (
	"strconv"

	"github.com/emporio-digital/storefront/config"
	"github.com/emporio-digital/storefront/models"
	"github.com/emporio-digital/storefront/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminListOrders returns all orders, optionally filtered by status or user.
func AdminListOrders(c *gin.Context) {
	utils.LogInfo("AdminListOrders called")

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		if !models.ValidStatus(status) {
			utils.BadRequest(c, "Unknown order status", nil)
			return
		}
		query = query.Where("status = ?", status)
	}
	if userIDStr := c.Query("user_id"); userIDStr != "" {
		userID, err := strconv.Atoi(userIDStr)
		if err != nil {
			utils.BadRequest(c, "Invalid user_id filter", nil)
			return
		}
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to load orders", nil)
		return
	}

	var orders []models.Order
	if err := query.Preload("OrderItems").
		Order("created_at desc").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to load orders: %v", err)
		utils.InternalServerError(c, "Failed to load orders", nil)
		return
	}

	var summaries []gin.H
	for i := range orders {
		summary := orderSummary(&orders[i])
		summary["user_id"] = orders[i].UserID
		summaries = append(summaries, summary)
	}

	utils.SuccessWithPagination(c, "Orders retrieved", summaries, total, pagination.Page, pagination.Limit)
}

// AdminGetOrder returns any order with items and history.
func AdminGetOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var order models.Order
	if err := config.DB.Preload("OrderItems").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		First(&order, orderID).Error; err != nil {
		utils.AppErrorResponse(c, utils.ErrOrderNotFound)
		return
	}

	detail := orderDetail(&order)
	detail["user_id"] = order.UserID
	utils.Success(c, "Order retrieved", detail)
}

// AdminUpdateOrderStatus applies a fulfillment transition (Enviado, Entregue,
// Cancelado) through the state machine. Refund states have their own
// endpoints and are not accepted here.
func AdminUpdateOrderStatus(c *gin.Context) {
	utils.LogInfo("AdminUpdateOrderStatus called")

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	switch req.Status {
	case models.OrderStatusShipped, models.OrderStatusDelivered, models.OrderStatusCancelled:
	default:
		utils.BadRequest(c, "Status must be one of: Enviado, Entregue, Cancelado", nil)
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

	if err := utils.TransitionOrder(tx, order, req.Status, "admin", req.Note); err != nil {
		tx.Rollback()
		utils.LogError("Illegal transition for order ID: %d to %s from %s", order.ID, req.Status, order.Status)
		utils.AppErrorResponse(c, err)
		return
	}

	if req.Status == models.OrderStatusCancelled {
		if err := utils.RestoreOrderStock(tx, order); err != nil {
			tx.Rollback()
			utils.LogError("Failed to restore stock for order ID: %d: %v", order.ID, err)
			utils.InternalServerError(c, "Failed to update order", nil)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to update order", nil)
		return
	}

	utils.LogInfo("Order ID: %d transitioned to %s", order.ID, req.Status)
	utils.Success(c, "Order status updated", gin.H{
		"id":     order.ID,
		"status": order.Status,
	})
}
