package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/emporio-digital/storefront/config"
	"github.com/emporio-digital/storefront/models"
	"github.com/emporio-digital/storefront/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaceOrderRequest is the payload for converting a cart into an order.
// Either address_id (a saved address) or address (a one-off payload) must be
// present.
type PlaceOrderRequest struct {
	AddressID      uint            `json:"address_id"`
	Address        *AddressRequest `json:"address"`
	CouponCode     string          `json:"coupon_code"`
	ShippingMethod string          `json:"shipping_method" binding:"required"`
}

// QuoteShippingOptions exposes the shipping oracle to the checkout page.
func QuoteShippingOptions(c *gin.Context) {
	utils.LogInfo("QuoteShippingOptions called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		CEP string `json:"cep" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var items []models.CartItem
	if err := config.DB.Where("user_id = ?", user.ID).Find(&items).Error; err != nil {
		utils.InternalServerError(c, "Failed to load cart", nil)
		return
	}
	if len(items) == 0 {
		utils.AppErrorResponse(c, utils.ErrEmptyCart)
		return
	}

	options, err := utils.QuoteShipping(c.Request.Context(), req.CEP, items)
	if err != nil {
		utils.LogError("Shipping quote failed for user ID: %d: %v", user.ID, err)
		utils.AppErrorResponse(c, err)
		return
	}

	utils.Success(c, "Shipping options retrieved", gin.H{"options": options})
}

// PlaceOrder converts the user's cart into an immutable order. Price and
// stock come from a fresh catalog read; items, coupon percentage and shipping
// address are frozen into the order inside a single transaction. The cart is
// cleared only after the transaction commits.
func PlaceOrder(c *gin.Context) {
	utils.LogInfo("PlaceOrder called")
	user, ok := currentUser(c)
	if !ok {
		return
	}
	userID := user.ID

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request for user ID: %d: %v", userID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	// Resolve the shipping address before any writes. A one-off payload is
	// saved to the address book inside the order transaction, so a failed
	// order leaves no stray entry; the order keeps a value copy either way.
	var address models.Address
	switch {
	case req.Address != nil:
		address = models.Address{
			UserID:     userID,
			Line1:      req.Address.Line1,
			Line2:      req.Address.Line2,
			City:       req.Address.City,
			State:      req.Address.State,
			Country:    req.Address.Country,
			PostalCode: req.Address.PostalCode,
		}
	case req.AddressID != 0:
		if err := config.DB.Where("id = ? AND user_id = ?", req.AddressID, userID).First(&address).Error; err != nil {
			utils.LogError("Address not found, ID: %d, user ID: %d", req.AddressID, userID)
			utils.AppErrorResponse(c, utils.ErrAddressNotFound)
			return
		}
	default:
		utils.BadRequest(c, "Provide either address_id or address object", nil)
		return
	}

	var cartItems []models.CartItem
	if err := config.DB.Where("user_id = ?", userID).Order("created_at").Find(&cartItems).Error; err != nil {
		utils.LogError("Failed to load cart for user ID: %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to load cart", nil)
		return
	}
	if len(cartItems) == 0 {
		utils.LogError("Empty cart for user ID: %d", userID)
		utils.AppErrorResponse(c, utils.ErrEmptyCart)
		return
	}

	// Quote shipping before opening the transaction: no lock is held across
	// the oracle call.
	options, err := utils.QuoteShipping(c.Request.Context(), address.PostalCode, cartItems)
	if err != nil {
		utils.LogError("Shipping quote failed for user ID: %d: %v", userID, err)
		utils.AppErrorResponse(c, err)
		return
	}
	shipping, err := utils.PickShippingOption(options, req.ShippingMethod)
	if err != nil {
		utils.LogError("Invalid shipping method '%s' for user ID: %d", req.ShippingMethod, userID)
		utils.AppErrorResponse(c, err)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction for user ID: %d: %v", userID, tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	order, err := buildOrder(tx, user, cartItems, req.CouponCode, shipping, address)
	if err != nil {
		tx.Rollback()
		utils.LogError("Order creation failed for user ID: %d: %v", userID, err)
		utils.AppErrorResponse(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit order transaction for user ID: %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to place order", nil)
		return
	}
	utils.LogInfo("Created order ID: %d for user ID: %d, total: %.2f", order.ID, userID, order.TotalAmount)

	// The cart survives any failure above; it is cleared only once the order
	// is durable.
	if err := config.DB.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		utils.LogError("Failed to clear cart for user ID: %d: %v", userID, err)
	}

	go utils.NotifyOrderCreated(user, *order)

	utils.Created(c, "Order placed successfully", orderSummary(order))
}

// buildOrder runs the whole order-creation pipeline inside tx: a one-off
// address is saved, product rows are locked and re-read, the coupon is
// validated and redeemed, pricing runs over the fresh reads, stock is
// decremented with a guarded update, and the order plus its initial history
// entry are persisted. Any error aborts the transaction with no writes
// visible.
func buildOrder(tx *gorm.DB, user models.User, cartItems []models.CartItem, couponCode string, shipping utils.ShippingOption, address models.Address) (*models.Order, error) {
	if address.ID == 0 {
		if err := tx.Create(&address).Error; err != nil {
			return nil, utils.WrapError(err, "failed to save address")
		}
	}

	var resolved []utils.ResolvedItem
	for _, item := range cartItems {
		var product models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_active = ?", item.ProductID, true).
			First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NotFoundAppError(fmt.Sprintf("Product %d is no longer available", item.ProductID), nil)
			}
			return nil, utils.WrapError(err, "failed to load product")
		}
		resolved = append(resolved, utils.ResolvedItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
			Stock:       product.Stock,
		})
	}

	var coupon *utils.CouponSnapshot
	if couponCode != "" {
		snapshot, err := utils.ValidateCoupon(tx, couponCode, time.Now())
		if err != nil {
			return nil, err
		}
		if err := utils.RedeemCoupon(tx, snapshot.Code); err != nil {
			return nil, err
		}
		coupon = snapshot
	}

	quote, err := utils.PriceOrder(resolved, coupon, shipping)
	if err != nil {
		return nil, err
	}

	for _, item := range resolved {
		if err := utils.DecrementStock(tx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	order := models.Order{
		UserID:          user.ID,
		SubTotal:        quote.SubTotal,
		Discount:        quote.Discount,
		ShippingCost:    quote.ShippingCost,
		TotalAmount:     quote.Total,
		ShippingMethod:  shipping.Name,
		DeliveryDays:    shipping.DeliveryDays,
		Status:          models.OrderStatusPending,
		ShippingAddress: models.SnapshotAddress(address),
	}
	if coupon != nil {
		order.CouponCode = coupon.Code
		order.CouponPercent = coupon.Percent
	}
	for _, item := range resolved {
		order.OrderItems = append(order.OrderItems, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       utils.RoundMoney(item.UnitPrice * float64(item.Quantity)),
		})
	}

	if err := tx.Create(&order).Error; err != nil {
		if errors.Is(err, models.ErrTotalOutOfRange) {
			return nil, utils.ErrTotalOutOfRange
		}
		return nil, utils.WrapError(err, "failed to create order")
	}

	history := models.OrderHistory{
		OrderID: order.ID,
		Status:  models.OrderStatusPending,
		Actor:   fmt.Sprintf("user:%d", user.ID),
		Note:    "Order placed",
	}
	if err := tx.Create(&history).Error; err != nil {
		return nil, utils.WrapError(err, "failed to append order history")
	}

	return &order, nil
}
