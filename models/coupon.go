package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon is a percentage discount code. UsageLimit of 0 means unlimited.
// Deletion is soft so that historical orders referencing the code stay intact;
// the applied percentage is snapshotted into the order anyway.
type Coupon struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Code               string         `gorm:"uniqueIndex:idx_coupons_code_lower" json:"code"`
	DiscountPercentage float64        `json:"discount_percentage"`
	Expiry             time.Time      `json:"expiry"`
	UsageLimit         int            `json:"usage_limit"`
	UsedCount          int            `json:"used_count"`
	Active             bool           `json:"active"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}
