package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceOrderWithCouponAndShipping(t *testing.T) {
	// cart=[{qty:2, price:10.00}], coupon 10%, shipping 5.00
	items := []ResolvedItem{
		{ProductID: 1, ProductName: "Caneca", UnitPrice: 10.00, Quantity: 2, Stock: 5},
	}
	coupon := &CouponSnapshot{Code: "DEZ10", Percent: 10}
	shipping := ShippingOption{Name: "SEDEX", Price: 5.00, DeliveryDays: 3}

	quote, err := PriceOrder(items, coupon, shipping)
	assert.NoError(t, err)
	assert.Equal(t, 20.00, quote.SubTotal)
	assert.Equal(t, 2.00, quote.Discount)
	assert.Equal(t, 5.00, quote.ShippingCost)
	assert.Equal(t, 23.00, quote.Total)
}

func TestPriceOrderWithoutCoupon(t *testing.T) {
	items := []ResolvedItem{
		{ProductID: 1, UnitPrice: 19.90, Quantity: 1, Stock: 1},
		{ProductID: 2, UnitPrice: 5.50, Quantity: 3, Stock: 10},
	}
	shipping := ShippingOption{Name: "PAC", Price: 12.30, DeliveryDays: 8}

	quote, err := PriceOrder(items, nil, shipping)
	assert.NoError(t, err)
	assert.Equal(t, 36.40, quote.SubTotal)
	assert.Equal(t, 0.00, quote.Discount)
	assert.Equal(t, 48.70, quote.Total)
}

func TestPriceOrderSubtotalIsExactSum(t *testing.T) {
	// Prices chosen to expose binary float drift if amounts were not rounded
	// to currency precision.
	items := []ResolvedItem{
		{ProductID: 1, UnitPrice: 0.10, Quantity: 3, Stock: 10},
		{ProductID: 2, UnitPrice: 0.20, Quantity: 1, Stock: 10},
	}
	quote, err := PriceOrder(items, nil, ShippingOption{Name: "PAC", Price: 0.70})
	assert.NoError(t, err)
	assert.Equal(t, 0.50, quote.SubTotal)
	assert.Equal(t, 1.20, quote.Total)
}

func TestPriceOrderTotalBounds(t *testing.T) {
	// A 100% coupon on a cheap item can push the total under the minimum.
	items := []ResolvedItem{
		{ProductID: 1, UnitPrice: 2.00, Quantity: 1, Stock: 1},
	}
	coupon := &CouponSnapshot{Code: "TUDO", Percent: 100}
	_, err := PriceOrder(items, coupon, ShippingOption{Name: "PAC", Price: 0.40})
	assert.ErrorIs(t, err, ErrTotalOutOfRange)

	// And a bulk cart can exceed the maximum.
	items = []ResolvedItem{
		{ProductID: 1, UnitPrice: 90000.00, Quantity: 2, Stock: 2},
	}
	_, err = PriceOrder(items, nil, ShippingOption{Name: "PAC", Price: 10.00})
	assert.ErrorIs(t, err, ErrTotalOutOfRange)
}

func TestPriceOrderEmptyCart(t *testing.T) {
	_, err := PriceOrder(nil, nil, ShippingOption{Name: "PAC"})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPriceOrderOutOfStock(t *testing.T) {
	items := []ResolvedItem{
		{ProductID: 1, UnitPrice: 10, Quantity: 2, Stock: 1},
	}
	_, err := PriceOrder(items, nil, ShippingOption{Name: "PAC"})
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestPickShippingOption(t *testing.T) {
	options := []ShippingOption{
		{Name: "PAC", Price: 10.00, DeliveryDays: 8},
		{Name: "SEDEX", Price: 25.00, DeliveryDays: 2},
	}

	opt, err := PickShippingOption(options, "SEDEX")
	assert.NoError(t, err)
	assert.Equal(t, 25.00, opt.Price)

	_, err = PickShippingOption(options, "JADLOG")
	assert.ErrorIs(t, err, ErrInvalidShippingOption)
}

func TestFullCouponDiscountLeavesShippingPayable(t *testing.T) {
	items := []ResolvedItem{
		{ProductID: 1, UnitPrice: 50, Quantity: 1, Stock: 1},
	}
	coupon := &CouponSnapshot{Code: "TUDO", Percent: 100}
	quote, err := PriceOrder(items, coupon, ShippingOption{Name: "PAC", Price: 9.90})
	assert.NoError(t, err)
	assert.Equal(t, 50.00, quote.Discount)
	assert.Equal(t, 9.90, quote.Total)
}
