package utils

import (
	"math"
)

// RoundMoney rounds a currency amount to two decimal places, half away from
// zero.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// ToCents converts a currency amount to integer cents. All webhook amount
// comparisons happen in cents so float representation error cannot produce a
// false mismatch.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
