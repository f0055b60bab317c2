package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/emporio-digital/storefront/config"
	"github.com/emporio-digital/storefront/models"
	"github.com/emporio-digital/storefront/utils"
	"github.com/gin-gonic/gin"
)

// CreateCouponRequest represents the request body for creating a new coupon
type CreateCouponRequest struct {
	Code               string    `json:"code" binding:"required"`
	DiscountPercentage float64   `json:"discount_percentage" binding:"required,gt=0,lte=100"`
	Expiry             time.Time `json:"expiry" binding:"required"`
	UsageLimit         int       `json:"usage_limit" binding:"gte=0"`
}

// CreateCoupon creates a new percentage coupon. Codes are stored uppercase
// and matched case-insensitively.
func CreateCoupon(c *gin.Context) {
	utils.LogInfo("CreateCoupon called")

	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.Code == "" {
		utils.BadRequest(c, "Coupon code is required", nil)
		return
	}

	if req.Expiry.Before(time.Now()) {
		utils.LogError("Invalid expiry date for coupon code %s: date is in the past", req.Code)
		utils.BadRequest(c, "Expiry date must be in the future", nil)
		return
	}

	var existing models.Coupon
	if err := config.DB.Where("LOWER(code) = LOWER(?)", req.Code).First(&existing).Error; err == nil {
		utils.LogError("Coupon code already exists: %s", req.Code)
		utils.Conflict(c, "Coupon code already exists", nil)
		return
	}

	coupon := models.Coupon{
		Code:               req.Code,
		DiscountPercentage: req.DiscountPercentage,
		Expiry:             req.Expiry,
		UsageLimit:         req.UsageLimit,
		Active:             true,
	}

	if err := config.DB.Create(&coupon).Error; err != nil {
		utils.LogError("Failed to create coupon: %v", err)
		utils.InternalServerError(c, "Failed to create coupon", nil)
		return
	}

	utils.LogInfo("Created coupon code: %s, ID: %d", coupon.Code, coupon.ID)
	utils.Created(c, "Coupon created", coupon)
}

// ListCoupons returns all coupons, including inactive ones.
func ListCoupons(c *gin.Context) {
	var coupons []models.Coupon
	if err := config.DB.Order("created_at desc").Find(&coupons).Error; err != nil {
		utils.LogError("Failed to load coupons: %v", err)
		utils.InternalServerError(c, "Failed to load coupons", nil)
		return
	}
	utils.Success(c, "Coupons retrieved", coupons)
}

// DeleteCoupon soft-deletes a coupon. Orders that already redeemed it keep
// their snapshotted percentage.
func DeleteCoupon(c *gin.Context) {
	utils.LogInfo("DeleteCoupon called")

	couponID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid coupon ID", nil)
		return
	}

	res := config.DB.Delete(&models.Coupon{}, couponID)
	if res.Error != nil {
		utils.LogError("Failed to delete coupon ID: %d: %v", couponID, res.Error)
		utils.InternalServerError(c, "Failed to delete coupon", nil)
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Coupon not found")
		return
	}

	utils.LogInfo("Deleted coupon ID: %d", couponID)
	utils.Success(c, "Coupon deleted", nil)
}

// ValidateCouponCode lets the checkout page pre-check a code before placing
// the order. The authoritative validation still happens inside the order
// transaction.
func ValidateCouponCode(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	code := c.Query("code")
	snapshot, err := utils.ValidateCoupon(config.DB, code, time.Now())
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.Success(c, "Coupon is valid", gin.H{
		"code":                snapshot.Code,
		"discount_percentage": snapshot.Percent,
	})
}
