package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a customer or administrator. Credential handling lives in
// the identity service; this table only backs token validation and ownership
// checks.
type User struct {
	gorm.Model
	Username    string    `gorm:"uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	IsBlocked   bool      `json:"is_blocked"`
	IsAdmin     bool      `json:"is_admin" gorm:"default:false"`
	LastLoginAt time.Time `json:"last_login_at"`

	Addresses []Address `json:"addresses" gorm:"foreignKey:UserID"`
}

// Product represents a catalog entry. Only the fields the order core needs
// are modeled here; browsing and search belong to the catalog service.
type Product struct {
	gorm.Model
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	IsActive    bool    `json:"is_active" gorm:"default:true"`
}
