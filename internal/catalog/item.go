package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates the requested catalog item does not exist.
var ErrNotFound = errors.New("catalog item not found")

// ErrInvalidCategory is returned when an add-on category is outside the known set.
var ErrInvalidCategory = errors.New("invalid add-on category")

// AddOnCategory groups add-ons on the item card.
type AddOnCategory string

const (
	AddOnSize   AddOnCategory = "size"
	AddOnFlavor AddOnCategory = "flavor"
	AddOnSauce  AddOnCategory = "sauce"
	AddOnExtras AddOnCategory = "extras"
)

// ParseAddOnCategory normalises raw into one of the known categories.
func ParseAddOnCategory(raw string) (AddOnCategory, error) {
	switch c := AddOnCategory(strings.ToLower(strings.TrimSpace(raw))); c {
	case AddOnSize, AddOnFlavor, AddOnSauce, AddOnExtras:
		return c, nil
	default:
		return "", fmt.Errorf("%q: %w", raw, ErrInvalidCategory)
	}
}

// Variation is an alternative form of an item whose price replaces the base price.
type Variation struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// AddOn is an optional extra whose price is added once per selected unit.
type AddOn struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category AddOnCategory   `json:"category"`
}

// Item is a catalog record as published by the operator tool.
type Item struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Category         string           `json:"category"`
	ImageURL         string           `json:"imageUrl,omitempty"`
	BasePrice        decimal.Decimal  `json:"basePrice"`
	DiscountPrice    *decimal.Decimal `json:"discountPrice,omitempty"`
	DiscountActive   bool             `json:"discountActive"`
	DiscountStart    *time.Time       `json:"discountStartDate,omitempty"`
	DiscountEnd      *time.Time       `json:"discountEndDate,omitempty"`
	Available        bool             `json:"available"`
	Popular          bool             `json:"popular"`
	Variations       []Variation      `json:"variations"`
	AddOns           []AddOn          `json:"addOns"`
	MeasurementUnit  string           `json:"measurementUnit,omitempty"`
	MeasurementValue *decimal.Decimal `json:"measurementValue,omitempty"`
}

// Measured reports whether the item is sold by weight or another measurement unit.
func (it Item) Measured() bool {
	return strings.TrimSpace(it.MeasurementUnit) != ""
}

// Variation looks up a variation offered by the item.
func (it Item) Variation(id string) (Variation, bool) {
	for _, v := range it.Variations {
		if v.ID == id {
			return v, true
		}
	}
	return Variation{}, false
}

// AddOn looks up an add-on offered by the item.
func (it Item) AddOn(id string) (AddOn, bool) {
	for _, a := range it.AddOns {
		if a.ID == id {
			return a, true
		}
	}
	return AddOn{}, false
}

// AddOnsByCategory groups the item's add-ons preserving their order within each group.
func (it Item) AddOnsByCategory() map[AddOnCategory][]AddOn {
	groups := make(map[AddOnCategory][]AddOn)
	for _, a := range it.AddOns {
		groups[a.Category] = append(groups[a.Category], a)
	}
	return groups
}
