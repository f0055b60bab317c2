package utils

import (
	"testing"
	"time"

	"github.com/emporio-digital/storefront/models"
	"github.com/stretchr/testify/assert"
)

func couponFixture() models.Coupon {
	return models.Coupon{
		Code:               "DEZ10",
		DiscountPercentage: 10,
		Expiry:             time.Now().Add(24 * time.Hour),
		UsageLimit:         5,
		UsedCount:          0,
		Active:             true,
	}
}

func TestCheckRedeemableValidCoupon(t *testing.T) {
	coupon := couponFixture()
	assert.NoError(t, CheckRedeemable(&coupon, time.Now()))
}

func TestCheckRedeemableExpired(t *testing.T) {
	coupon := couponFixture()
	coupon.Expiry = time.Now().Add(-time.Hour)
	assert.ErrorIs(t, CheckRedeemable(&coupon, time.Now()), ErrCouponExpired)
}

func TestCheckRedeemableExpiryBoundary(t *testing.T) {
	coupon := couponFixture()
	at := coupon.Expiry
	// Exactly at expiry is still redeemable; one instant later is not.
	assert.NoError(t, CheckRedeemable(&coupon, at))
	assert.ErrorIs(t, CheckRedeemable(&coupon, at.Add(time.Nanosecond)), ErrCouponExpired)
}

func TestCheckRedeemableExhausted(t *testing.T) {
	coupon := couponFixture()
	coupon.UsageLimit = 1
	coupon.UsedCount = 1
	assert.ErrorIs(t, CheckRedeemable(&coupon, time.Now()), ErrCouponExhausted)
}

func TestCheckRedeemableUnlimitedUsage(t *testing.T) {
	coupon := couponFixture()
	coupon.UsageLimit = 0
	coupon.UsedCount = 10000
	assert.NoError(t, CheckRedeemable(&coupon, time.Now()))
}

func TestCheckRedeemableInactive(t *testing.T) {
	coupon := couponFixture()
	coupon.Active = false
	assert.ErrorIs(t, CheckRedeemable(&coupon, time.Now()), ErrCouponNotFound)
}
