package pricing

import "github.com/shopspring/decimal"

// Money represents a monetary amount in the shop currency.
type Money = decimal.Decimal

// Summary aggregates computed order pricing components.
type Summary struct {
	Subtotal Money `json:"subtotal"`
	Delivery Money `json:"deliveryFee"`
	Total    Money `json:"total"`
}

// Compute calculates order totals from the cart subtotal and the delivery fee.
func Compute(subtotal, delivery Money) Summary {
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}
	if delivery.IsNegative() {
		delivery = decimal.Zero
	}
	return Summary{
		Subtotal: subtotal,
		Delivery: delivery,
		Total:    subtotal.Add(delivery),
	}
}
