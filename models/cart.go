package models

import (
	"gorm.io/gorm"
)

// CartItem is one line of a user's cart. Prices are not stored here; they are
// resolved against the live catalog when the cart is converted to an order.
type CartItem struct {
	gorm.Model
	UserID    uint    `json:"user_id" gorm:"uniqueIndex:idx_cart_user_product"`
	ProductID uint    `json:"product_id" gorm:"uniqueIndex:idx_cart_user_product"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int     `json:"quantity"`
}
