package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/frozen-toko/internal/catalog"
)

// SelectedAddOn is an add-on chosen Quantity times for one unit of a line.
type SelectedAddOn struct {
	AddOn    catalog.AddOn
	Quantity int
}

// UnitPrice composes the price of one unit of a line. A selected variation replaces the
// effective item price; every add-on adds price × quantity.
func UnitPrice(item catalog.Item, variation *catalog.Variation, addOns []SelectedAddOn, now time.Time) Money {
	price := EffectivePrice(item, now)
	if variation != nil {
		price = variation.Price
	}
	for _, a := range addOns {
		if a.Quantity <= 0 {
			continue
		}
		price = price.Add(a.AddOn.Price.Mul(decimal.NewFromInt(int64(a.Quantity))))
	}
	return price
}

// LineTotal multiplies a unit price by the line quantity.
func LineTotal(unitPrice Money, quantity decimal.Decimal) Money {
	return unitPrice.Mul(quantity)
}
