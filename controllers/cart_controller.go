package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/emporio-digital/storefront/config"
	"github.com/emporio-digital/storefront/models"
	"github.com/emporio-digital/storefront/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AddToCart adds a product to the user's cart or raises its quantity. One
// cart line per product.
func AddToCart(c *gin.Context) {
	utils.LogInfo("AddToCart called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required,gte=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var product models.Product
	if err := config.DB.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
		utils.LogError("Product not found, ID: %d: %v", req.ProductID, err)
		utils.NotFound(c, "Product not found")
		return
	}

	var item models.CartItem
	err := config.DB.Where("user_id = ? AND product_id = ?", user.ID, req.ProductID).First(&item).Error
	switch {
	case err == nil:
		item.Quantity += req.Quantity
		if item.Quantity > product.Stock {
			utils.LogError("Requested quantity %d exceeds stock %d for product ID: %d", item.Quantity, product.Stock, product.ID)
			utils.Conflict(c, fmt.Sprintf("Only %d units of '%s' available", product.Stock, product.Name), nil)
			return
		}
		if err := config.DB.Save(&item).Error; err != nil {
			utils.LogError("Failed to update cart item for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to update cart", nil)
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if req.Quantity > product.Stock {
			utils.LogError("Requested quantity %d exceeds stock %d for product ID: %d", req.Quantity, product.Stock, product.ID)
			utils.Conflict(c, fmt.Sprintf("Only %d units of '%s' available", product.Stock, product.Name), nil)
			return
		}
		item = models.CartItem{UserID: user.ID, ProductID: req.ProductID, Quantity: req.Quantity}
		if err := config.DB.Create(&item).Error; err != nil {
			utils.LogError("Failed to add cart item for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to update cart", nil)
			return
		}
	default:
		utils.LogError("Failed to load cart item for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}

	utils.LogInfo("Cart updated for user ID: %d, product ID: %d, quantity: %d", user.ID, req.ProductID, item.Quantity)
	utils.Success(c, "Cart updated", gin.H{
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})
}

// UpdateCartItem sets the quantity of a cart line.
func UpdateCartItem(c *gin.Context) {
	utils.LogInfo("UpdateCartItem called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		utils.BadRequest(c, "Invalid product ID", nil)
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required,gte=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var item models.CartItem
	if err := config.DB.Where("user_id = ? AND product_id = ?", user.ID, productID).First(&item).Error; err != nil {
		utils.LogError("Cart item not found for user ID: %d, product ID: %d", user.ID, productID)
		utils.NotFound(c, "Cart item not found")
		return
	}

	var product models.Product
	if err := config.DB.First(&product, productID).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}
	if req.Quantity > product.Stock {
		utils.Conflict(c, fmt.Sprintf("Only %d units of '%s' available", product.Stock, product.Name), nil)
		return
	}

	item.Quantity = req.Quantity
	if err := config.DB.Save(&item).Error; err != nil {
		utils.LogError("Failed to update cart item for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}

	utils.Success(c, "Cart updated", gin.H{
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})
}

// RemoveFromCart deletes a cart line.
func RemoveFromCart(c *gin.Context) {
	utils.LogInfo("RemoveFromCart called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		utils.BadRequest(c, "Invalid product ID", nil)
		return
	}

	res := config.DB.Where("user_id = ? AND product_id = ?", user.ID, productID).Delete(&models.CartItem{})
	if res.Error != nil {
		utils.LogError("Failed to remove cart item for user ID: %d: %v", user.ID, res.Error)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Cart item not found")
		return
	}

	utils.Success(c, "Item removed from cart", nil)
}

// GetCart lists the cart with live catalog prices.
func GetCart(c *gin.Context) {
	utils.LogInfo("GetCart called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var items []models.CartItem
	if err := config.DB.Preload("Product").Where("user_id = ?", user.ID).Order("created_at").Find(&items).Error; err != nil {
		utils.LogError("Failed to load cart for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load cart", nil)
		return
	}

	var lines []gin.H
	var subTotal float64
	for _, item := range items {
		lineTotal := utils.RoundMoney(item.Product.Price * float64(item.Quantity))
		subTotal += lineTotal
		lines = append(lines, gin.H{
			"product_id": item.ProductID,
			"name":       item.Product.Name,
			"unit_price": fmt.Sprintf("%.2f", item.Product.Price),
			"quantity":   item.Quantity,
			"in_stock":   item.Product.Stock >= item.Quantity,
			"total":      fmt.Sprintf("%.2f", lineTotal),
		})
	}

	utils.Success(c, "Cart retrieved", gin.H{
		"items":     lines,
		"sub_total": fmt.Sprintf("%.2f", utils.RoundMoney(subTotal)),
	})
}
