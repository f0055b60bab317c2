package controllers

import (
	"fmt"
	"strconv"

	"github.com/emporio-digital/storefront/config"
	"github.com/emporio-digital/storefront/models"
	"github.com/emporio-digital/storefront/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListOrders returns the authenticated user's orders, newest first, paged.
func ListOrders(c *gin.Context) {
	utils.LogInfo("ListOrders called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load orders", nil)
		return
	}

	var orders []models.Order
	if err := config.DB.Preload("OrderItems").
		Where("user_id = ?", user.ID).
		Order("created_at desc").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to load orders for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load orders", nil)
		return
	}

	var summaries []gin.H
	for i := range orders {
		summaries = append(summaries, orderSummary(&orders[i]))
	}

	utils.SuccessWithPagination(c, "Orders retrieved", summaries, total, pagination.Page, pagination.Limit)
}

// GetOrder returns one of the user's orders with items and history.
func GetOrder(c *gin.Context) {
	utils.LogInfo("GetOrder called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var order models.Order
	if err := config.DB.Preload("OrderItems").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		Where("id = ? AND user_id = ?", orderID, user.ID).
		First(&order).Error; err != nil {
		utils.LogError("Order not found, ID: %d, user ID: %d", orderID, user.ID)
		utils.AppErrorResponse(c, utils.ErrOrderNotFound)
		return
	}

	utils.Success(c, "Order retrieved", orderDetail(&order))
}

// CancelOrder lets the owner cancel an order that has not been paid yet.
// Stock returns to the catalog in the same transaction.
func CancelOrder(c *gin.Context) {
	utils.LogInfo("CancelOrder called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
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
		utils.AppErrorResponse(c, utils.ErrForbidden)
		return
	}
	if order.Status != models.OrderStatusPending {
		tx.Rollback()
		utils.LogError("Order cannot be cancelled, ID: %d, status: %s", order.ID, order.Status)
		utils.AppErrorResponse(c, utils.ErrInvalidOrderState)
		return
	}

	actor := fmt.Sprintf("user:%d", user.ID)
	if err := utils.TransitionOrder(tx, order, models.OrderStatusCancelled, actor, "Cancelled by customer"); err != nil {
		tx.Rollback()
		utils.AppErrorResponse(c, err)
		return
	}
	if err := utils.RestoreOrderStock(tx, order); err != nil {
		tx.Rollback()
		utils.LogError("Failed to restore stock for order ID: %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to cancel order", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to cancel order", nil)
		return
	}

	utils.LogInfo("Order ID: %d cancelled by user ID: %d", order.ID, user.ID)
	utils.Success(c, "Order cancelled", gin.H{
		"id":     order.ID,
		"status": order.Status,
	})
}
