package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/emporio-digital/storefront/models"

	"gorm.io/gorm"
)

// CheckRedeemable verifies a coupon's validity window and usage cap at the
// given time. A usage limit of 0 means unlimited.
func CheckRedeemable(coupon *models.Coupon, at time.Time) error {
	if !coupon.Active {
		return ErrCouponNotFound
	}
	if at.After(coupon.Expiry) {
		return ErrCouponExpired
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return ErrCouponExhausted
	}
	return nil
}

// ValidateCoupon looks up a coupon case-insensitively (trimmed) and returns an
// immutable snapshot for pricing. The live row is never handed out.
func ValidateCoupon(db *gorm.DB, code string, at time.Time) (*CouponSnapshot, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCouponNotFound
	}

	var coupon models.Coupon
	if err := db.Where("LOWER(code) = LOWER(?)", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, WrapError(err, "failed to look up coupon")
	}

	if err := CheckRedeemable(&coupon, at); err != nil {
		return nil, err
	}

	return &CouponSnapshot{
		Code:    coupon.Code,
		Percent: coupon.DiscountPercentage,
	}, nil
}

// RedeemCoupon increments the coupon's usage counter inside the caller's
// transaction. The guarded update makes the cap safe under concurrent
// redemptions: the loser of the race gets zero affected rows.
func RedeemCoupon(tx *gorm.DB, code string) error {
	res := tx.Model(&models.Coupon{}).
		Where("LOWER(code) = LOWER(?) AND active = ? AND (usage_limit = 0 OR used_count < usage_limit)",
			strings.TrimSpace(code), true).
		UpdateColumn("used_count", gorm.Expr("used_count + ?", 1))
	if res.Error != nil {
		return WrapError(res.Error, "failed to redeem coupon")
	}
	if res.RowsAffected == 0 {
		return ErrCouponExhausted
	}
	return nil
}
