package controllers

import (
	"fmt"

	"github.com/emporio-digital/storefront/models"
	"github.com/gin-gonic/gin"
)

// orderSummary shapes an order for list and creation responses.
func orderSummary(order *models.Order) gin.H {
	return gin.H{
		"id":              order.ID,
		"status":          order.Status,
		"sub_total":       fmt.Sprintf("%.2f", order.SubTotal),
		"discount":        fmt.Sprintf("%.2f", order.Discount),
		"shipping_cost":   fmt.Sprintf("%.2f", order.ShippingCost),
		"total_amount":    fmt.Sprintf("%.2f", order.TotalAmount),
		"shipping_method": order.ShippingMethod,
		"delivery_days":   order.DeliveryDays,
		"coupon_code":     order.CouponCode,
		"items_count":     len(order.OrderItems),
		"created_at":      order.CreatedAt,
	}
}

// orderDetail shapes an order with items, address snapshot and history.
func orderDetail(order *models.Order) gin.H {
	var items []gin.H
	for _, item := range order.OrderItems {
		items = append(items, gin.H{
			"product_id":   item.ProductID,
			"product_name": item.ProductName,
			"quantity":     item.Quantity,
			"unit_price":   fmt.Sprintf("%.2f", item.UnitPrice),
			"total":        fmt.Sprintf("%.2f", item.Total),
		})
	}

	var history []gin.H
	for _, entry := range order.History {
		history = append(history, gin.H{
			"status":     entry.Status,
			"actor":      entry.Actor,
			"note":       entry.Note,
			"created_at": entry.CreatedAt,
		})
	}

	detail := orderSummary(order)
	detail["items"] = items
	detail["history"] = history
	detail["shipping_address"] = order.ShippingAddress
	if order.TransactionID != "" {
		detail["transaction_id"] = order.TransactionID
	}
	return detail
}
