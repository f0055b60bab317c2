package utils

import (
	"github.com/emporio-digital/storefront/models"
)

// ResolvedItem is a cart line resolved against the live catalog at pricing
// time. Price and stock come from a fresh server-side read, never from the
// client.
type ResolvedItem struct {
	ProductID   uint
	ProductName string
	UnitPrice   float64
	Quantity    int
	Stock       int
}

// ShippingOption is one entry from the shipping oracle's quote.
type ShippingOption struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DeliveryDays int     `json:"delivery_days"`
}

// CouponSnapshot is the frozen result of coupon validation. Pricing and the
// order record work off this copy, so a coupon edited between validation and
// commit cannot change the outcome.
type CouponSnapshot struct {
	Code    string
	Percent float64
}

// OrderQuote is the priced breakdown of a cart.
type OrderQuote struct {
	SubTotal     float64
	Discount     float64
	ShippingCost float64
	Total        float64
}

// PickShippingOption selects the quoted option matching the requested method.
func PickShippingOption(options []ShippingOption, method string) (ShippingOption, error) {
	for _, opt := range options {
		if opt.Name == method {
			return opt, nil
		}
	}
	return ShippingOption{}, ErrInvalidShippingOption
}

// PriceOrder computes subtotal, discount, shipping and total for a resolved
// cart. It is a pure function: persistence and stock decrements happen in the
// order transaction, not here.
func PriceOrder(items []ResolvedItem, coupon *CouponSnapshot, shipping ShippingOption) (OrderQuote, error) {
	if len(items) == 0 {
		return OrderQuote{}, ErrEmptyCart
	}

	var subTotal float64
	for _, item := range items {
		if item.Quantity > item.Stock {
			return OrderQuote{}, ErrOutOfStock
		}
		subTotal += item.UnitPrice * float64(item.Quantity)
	}
	subTotal = RoundMoney(subTotal)

	var discount float64
	if coupon != nil {
		discount = RoundMoney(subTotal * coupon.Percent / 100)
	}

	shippingCost := RoundMoney(shipping.Price)
	total := RoundMoney(subTotal - discount + shippingCost)

	// A cheap item plus a large coupon can legitimately land under the
	// minimum; that is a client error, not a server fault.
	if total < models.MinOrderAmount || total > models.MaxOrderAmount {
		return OrderQuote{}, ErrTotalOutOfRange
	}

	return OrderQuote{
		SubTotal:     subTotal,
		Discount:     discount,
		ShippingCost: shippingCost,
		Total:        total,
	}, nil
}
