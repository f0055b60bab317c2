package utils

import (
	"errors"

	"github.com/emporio-digital/storefront/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockOrder loads an order with its items under a row-level lock. Within one
// transaction this serializes competing status changes (webhook vs admin) for
// the same order.
func LockOrder(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, WrapError(err, "failed to load order")
	}
	if err := tx.Where("order_id = ?", orderID).Find(&order.OrderItems).Error; err != nil {
		return nil, WrapError(err, "failed to load order items")
	}
	return &order, nil
}

// TransitionOrder moves an order to a new status and appends exactly one
// history record, both inside the caller's transaction. An illegal transition
// leaves order and history untouched. The caller must hold the order row lock
// (see LockOrder).
func TransitionOrder(tx *gorm.DB, order *models.Order, newStatus, actor, note string) error {
	if !models.CanTransition(order.Status, newStatus) {
		return ErrIllegalTransition
	}

	if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", newStatus).Error; err != nil {
		return WrapError(err, "failed to update order status")
	}

	entry := models.OrderHistory{
		OrderID: order.ID,
		Status:  newStatus,
		Actor:   actor,
		Note:    note,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return WrapError(err, "failed to append order history")
	}

	order.Status = newStatus
	return nil
}

// DecrementStock takes quantity units of a product off the shelf. Check and
// decrement happen in one guarded statement: under a race for the last units
// the losing transaction affects zero rows and gets ErrOutOfStock, never a
// negative stock.
func DecrementStock(tx *gorm.DB, productID uint, quantity int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return WrapError(res.Error, "failed to decrement stock")
	}
	if res.RowsAffected == 0 {
		return ErrOutOfStock
	}
	return nil
}

// RestoreOrderStock returns the ordered quantities to the catalog. Used when
// an order is cancelled before fulfillment.
func RestoreOrderStock(tx *gorm.DB, order *models.Order) error {
	for _, item := range order.OrderItems {
		if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
			UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
			return WrapError(err, "failed to restore product stock")
		}
	}
	return nil
}
