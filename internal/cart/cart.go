package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/frozen-toko/internal/catalog"
	"github.com/noah-isme/frozen-toko/internal/pricing"
)

var (
	// ErrInvalidQuantity is returned for non-positive quantities or fractional quantities
	// of items that are not sold by measurement.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrItemUnavailable is returned when adding an item the shop has marked unavailable.
	ErrItemUnavailable = errors.New("item unavailable")
	// ErrInvalidSelection is returned when a variation or add-on is not offered by the item.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrInvalidState is returned when a client supplied snapshot breaks the line invariants.
	ErrInvalidState = errors.New("invalid cart state")
)

// Line is one price-resolved combination of item, variation and add-ons.
type Line struct {
	ID              string             `json:"id"`
	ItemID          string             `json:"itemId"`
	Name            string             `json:"name"`
	MeasurementUnit string             `json:"measurementUnit,omitempty"`
	Variation       *catalog.Variation `json:"selectedVariation,omitempty"`
	AddOns          []AddOnSelection   `json:"selectedAddOns"`
	Quantity        decimal.Decimal    `json:"quantity"`
	UnitPrice       decimal.Decimal    `json:"unitPrice"`
}

// Total returns UnitPrice × Quantity.
func (l Line) Total() pricing.Money {
	return pricing.LineTotal(l.UnitPrice, l.Quantity)
}

// Key recomputes the identity key from the line's selections.
func (l Line) Key() Key {
	return NewKey(l.ItemID, l.Variation, l.AddOns)
}

// State is an ordered, duplicate-free list of lines. Operations return a new State and
// never modify their input.
type State struct {
	Lines []Line `json:"lines"`
}

// AddOptions describes an add-to-cart request. A zero Quantity means one. AddOns may
// repeat the same add-on to pick it several times.
type AddOptions struct {
	Quantity  decimal.Decimal
	Variation *catalog.Variation
	AddOns    []catalog.AddOn
}

// Add merges the request into an existing line with the same identity key, or appends a
// new line priced at now. A merged line keeps its original unit price.
func Add(state State, item catalog.Item, opts AddOptions, now time.Time) (State, error) {
	if !item.Available {
		return state, fmt.Errorf("%s: %w", item.ID, ErrItemUnavailable)
	}
	qty := opts.Quantity
	if qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}
	if err := checkQuantity(qty, item.Measured()); err != nil {
		return state, err
	}

	var variation *catalog.Variation
	if opts.Variation != nil {
		v, ok := item.Variation(opts.Variation.ID)
		if !ok {
			return state, fmt.Errorf("variation %s not offered by %s: %w", opts.Variation.ID, item.ID, ErrInvalidSelection)
		}
		variation = &v
	}
	picks := make([]catalog.AddOn, 0, len(opts.AddOns))
	for _, a := range opts.AddOns {
		offered, ok := item.AddOn(a.ID)
		if !ok {
			return state, fmt.Errorf("add-on %s not offered by %s: %w", a.ID, item.ID, ErrInvalidSelection)
		}
		picks = append(picks, offered)
	}
	selections := CanonicalAddOns(picks)
	id := NewKey(item.ID, variation, selections).String()

	next := state.clone()
	for i := range next.Lines {
		if next.Lines[i].ID == id {
			next.Lines[i].Quantity = next.Lines[i].Quantity.Add(qty)
			return next, nil
		}
	}
	next.Lines = append(next.Lines, Line{
		ID:              id,
		ItemID:          item.ID,
		Name:            item.Name,
		MeasurementUnit: item.MeasurementUnit,
		Variation:       variation,
		AddOns:          selections,
		Quantity:        qty,
		UnitPrice:       pricing.UnitPrice(item, variation, toPricing(selections), now),
	})
	return next, nil
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less removes the
// line; an unknown id leaves the state unchanged.
func UpdateQuantity(state State, lineID string, qty decimal.Decimal) (State, error) {
	if !qty.IsPositive() {
		return Remove(state, lineID), nil
	}
	next := state.clone()
	for i := range next.Lines {
		if next.Lines[i].ID != lineID {
			continue
		}
		if err := checkQuantity(qty, next.Lines[i].MeasurementUnit != ""); err != nil {
			return state, err
		}
		next.Lines[i].Quantity = qty
		return next, nil
	}
	return next, nil
}

// Remove deletes a line. Removing an unknown id is a no-op.
func Remove(state State, lineID string) State {
	next := State{Lines: make([]Line, 0, len(state.Lines))}
	for _, l := range state.Lines {
		if l.ID != lineID {
			next.Lines = append(next.Lines, l)
		}
	}
	return next
}

// Clear returns an empty cart.
func Clear(State) State {
	return State{Lines: []Line{}}
}

// Total sums line totals in insertion order.
func Total(state State) pricing.Money {
	total := decimal.Zero
	for _, l := range state.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// ItemCount sums line quantities.
func ItemCount(state State) decimal.Decimal {
	count := decimal.Zero
	for _, l := range state.Lines {
		count = count.Add(l.Quantity)
	}
	return count
}

// Totals is the badge and subtotal view of a cart.
type Totals struct {
	Subtotal  pricing.Money   `json:"subtotal"`
	ItemCount decimal.Decimal `json:"itemCount"`
	Lines     int             `json:"lines"`
}

// Summarize computes the cart totals.
func Summarize(state State) Totals {
	return Totals{Subtotal: Total(state), ItemCount: ItemCount(state), Lines: len(state.Lines)}
}

// Validate checks a snapshot received from a client: every line id must match its
// selections, add-on picks must be distinct with positive counts, line ids must be
// unique and quantities valid.
func Validate(state State) error {
	seen := make(map[string]struct{}, len(state.Lines))
	for _, l := range state.Lines {
		if err := checkSelections(l.AddOns); err != nil {
			return fmt.Errorf("line %q: %w", l.ID, err)
		}
		if l.ID != l.Key().String() {
			return fmt.Errorf("line %q does not match its selections: %w", l.ID, ErrInvalidState)
		}
		if _, dup := seen[l.ID]; dup {
			return fmt.Errorf("duplicate line %q: %w", l.ID, ErrInvalidState)
		}
		seen[l.ID] = struct{}{}
		if err := checkQuantity(l.Quantity, l.MeasurementUnit != ""); err != nil {
			return fmt.Errorf("line %q: %w", l.ID, ErrInvalidState)
		}
		if l.UnitPrice.IsNegative() {
			return fmt.Errorf("line %q has a negative price: %w", l.ID, ErrInvalidState)
		}
	}
	return nil
}

func checkSelections(selections []AddOnSelection) error {
	ids := make(map[string]struct{}, len(selections))
	for _, sel := range selections {
		if sel.Quantity < 1 {
			return fmt.Errorf("add-on %q picked %d times: %w", sel.ID, sel.Quantity, ErrInvalidState)
		}
		if _, dup := ids[sel.ID]; dup {
			return fmt.Errorf("add-on %q listed twice: %w", sel.ID, ErrInvalidState)
		}
		ids[sel.ID] = struct{}{}
	}
	return nil
}

func (s State) clone() State {
	lines := make([]Line, len(s.Lines))
	copy(lines, s.Lines)
	return State{Lines: lines}
}

func checkQuantity(qty decimal.Decimal, measured bool) error {
	if !qty.IsPositive() {
		return fmt.Errorf("quantity %s must be positive: %w", qty, ErrInvalidQuantity)
	}
	if !measured && !qty.IsInteger() {
		return fmt.Errorf("quantity %s must be whole: %w", qty, ErrInvalidQuantity)
	}
	return nil
}

func toPricing(selections []AddOnSelection) []pricing.SelectedAddOn {
	out := make([]pricing.SelectedAddOn, 0, len(selections))
	for _, s := range selections {
		out = append(out, pricing.SelectedAddOn{AddOn: s.AddOn, Quantity: s.Quantity})
	}
	return out
}
