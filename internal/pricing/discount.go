package pricing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/frozen-toko/internal/catalog"
)

// DiscountMode selects how operator input is turned into a discounted price.
type DiscountMode string

const (
	// DiscountFixed takes the input as the final price.
	DiscountFixed DiscountMode = "fixed"
	// DiscountAmount subtracts the input from the base price.
	DiscountAmount DiscountMode = "amount"
	// DiscountPercentage subtracts the input percentage of the base price.
	DiscountPercentage DiscountMode = "percentage"
)

var hundred = decimal.NewFromInt(100)

// ParseDiscountMode normalises a mode name. Unknown names report false.
func ParseDiscountMode(raw string) (DiscountMode, bool) {
	switch m := DiscountMode(strings.ToLower(strings.TrimSpace(raw))); m {
	case DiscountFixed, DiscountAmount, DiscountPercentage:
		return m, true
	default:
		return "", false
	}
}

// DiscountActiveAt reports whether the item's discount is in force at now. Both window
// bounds are inclusive and a missing bound leaves that side open.
func DiscountActiveAt(item catalog.Item, now time.Time) bool {
	if !item.DiscountActive || item.DiscountPrice == nil {
		return false
	}
	if item.DiscountStart != nil && now.Before(*item.DiscountStart) {
		return false
	}
	if item.DiscountEnd != nil && now.After(*item.DiscountEnd) {
		return false
	}
	return true
}

// EffectivePrice returns the unit price in force for item at now.
func EffectivePrice(item catalog.Item, now time.Time) Money {
	if DiscountActiveAt(item, now) {
		return *item.DiscountPrice
	}
	return item.BasePrice
}

// DeriveDiscountPrice computes the discounted price for base from raw operator input.
// The result is rounded to two decimals. Invalid input, an unknown mode or a price
// that clamps to zero reports false, meaning no discount is set.
func DeriveDiscountPrice(mode DiscountMode, base Money, raw string) (Money, bool) {
	value, ok := ParseAmount(raw)
	if !ok {
		return decimal.Zero, false
	}
	var price Money
	switch mode {
	case DiscountFixed:
		price = value
	case DiscountAmount:
		price = base.Sub(value)
	case DiscountPercentage:
		price = base.Sub(base.Mul(value).Div(hundred))
	default:
		return decimal.Zero, false
	}
	price = price.Round(2)
	if !price.IsPositive() {
		return decimal.Zero, false
	}
	return price, true
}
