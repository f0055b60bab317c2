package controllers

import (
	"strconv"

	"github.com/emporio-digital/storefront/config"
	"github.com/emporio-digital/storefront/models"
	"github.com/emporio-digital/storefront/utils"
	"github.com/gin-gonic/gin"
)

// AddressRequest is the payload for creating or updating an address.
type AddressRequest struct {
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	Country    string `json:"country" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	IsDefault  bool   `json:"is_default"`
}

// CreateAddress adds an address to the user's address book.
func CreateAddress(c *gin.Context) {
	utils.LogInfo("CreateAddress called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	address := models.Address{
		UserID:     user.ID,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,
		IsDefault:  req.IsDefault,
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	if req.IsDefault {
		if err := tx.Model(&models.Address{}).Where("user_id = ?", user.ID).
			Update("is_default", false).Error; err != nil {
			tx.Rollback()
			utils.InternalServerError(c, "Failed to update default address", nil)
			return
		}
	}

	if err := tx.Create(&address).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create address for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create address", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	utils.LogInfo("Created address ID: %d for user ID: %d", address.ID, user.ID)
	utils.Created(c, "Address created", address)
}

// ListAddresses returns the user's address book.
func ListAddresses(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var addresses []models.Address
	if err := config.DB.Where("user_id = ?", user.ID).Order("is_default desc, created_at").Find(&addresses).Error; err != nil {
		utils.LogError("Failed to load addresses for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load addresses", nil)
		return
	}

	utils.Success(c, "Addresses retrieved", addresses)
}

// UpdateAddress edits an address the user owns. Historical orders keep their
// own snapshot and are unaffected.
func UpdateAddress(c *gin.Context) {
	utils.LogInfo("UpdateAddress called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	addressID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid address ID", nil)
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var address models.Address
	if err := config.DB.Where("id = ? AND user_id = ?", addressID, user.ID).First(&address).Error; err != nil {
		utils.NotFound(c, "Address not found")
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	if req.IsDefault && !address.IsDefault {
		if err := tx.Model(&models.Address{}).Where("user_id = ?", user.ID).
			Update("is_default", false).Error; err != nil {
			tx.Rollback()
			utils.InternalServerError(c, "Failed to update default address", nil)
			return
		}
	}

	address.Line1 = req.Line1
	address.Line2 = req.Line2
	address.City = req.City
	address.State = req.State
	address.Country = req.Country
	address.PostalCode = req.PostalCode
	address.IsDefault = req.IsDefault

	if err := tx.Save(&address).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to update address ID: %d: %v", address.ID, err)
		utils.InternalServerError(c, "Failed to update address", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	utils.Success(c, "Address updated", address)
}

// DeleteAddress removes an address from the book.
func DeleteAddress(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	addressID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid address ID", nil)
		return
	}

	res := config.DB.Where("id = ? AND user_id = ?", addressID, user.ID).Delete(&models.Address{})
	if res.Error != nil {
		utils.LogError("Failed to delete address ID: %d: %v", addressID, res.Error)
		utils.InternalServerError(c, "Failed to delete address", nil)
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Address not found")
		return
	}

	utils.Success(c, "Address deleted", nil)
}
