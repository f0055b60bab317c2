package controllers

import (
	"strconv"

	"github.com/emporio-digital/storefront/config"
	"github.com/emporio-digital/storefront/models"
	"github.com/emporio-digital/storefront/utils"
	"github.com/gin-gonic/gin"
)

// AdminCreateProduct adds a catalog entry. Browsing and search live in the
// catalog service; this exists so orders have something to sell.
func AdminCreateProduct(c *gin.Context) {
	utils.LogInfo("AdminCreateProduct called")

	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"required,gt=0"`
		Stock       int     `json:"stock" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    true,
	}
	if err := config.DB.Create(&product).Error; err != nil {
		utils.LogError("Failed to create product: %v", err)
		utils.InternalServerError(c, "Failed to create product", nil)
		return
	}

	utils.LogInfo("Created product ID: %d", product.ID)
	utils.Created(c, "Product created", product)
}

// AdminUpdateProduct updates price, stock or availability. Existing orders
// keep their snapshots.
func AdminUpdateProduct(c *gin.Context) {
	utils.LogInfo("AdminUpdateProduct called")

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid product ID", nil)
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Stock       *int     `json:"stock"`
		IsActive    *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var product models.Product
	if err := config.DB.First(&product, productID).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			utils.BadRequest(c, "Price must be positive", nil)
			return
		}
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			utils.BadRequest(c, "Stock cannot be negative", nil)
			return
		}
		updates["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		utils.BadRequest(c, "Nothing to update", nil)
		return
	}

	if err := config.DB.Model(&product).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update product ID: %d: %v", product.ID, err)
		utils.InternalServerError(c, "Failed to update product", nil)
		return
	}

	utils.Success(c, "Product updated", product)
}
