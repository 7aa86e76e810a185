package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/frozen-toko/internal/catalog"
	"github.com/noah-isme/frozen-toko/internal/pricing"
)

// Store owns the cart of a single browsing session. Each operation replaces the held
// State wholesale. A Store has one owner and is not safe for concurrent use.
type Store struct {
	state State
	now   func() time.Time
}

// NewStore returns an empty store. A nil clock uses time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{state: Clear(State{}), now: now}
}

// Restore replaces the held state with a validated snapshot.
func (s *Store) Restore(state State) error {
	if err := Validate(state); err != nil {
		return err
	}
	s.state = state.clone()
	return nil
}

// State returns a copy of the current snapshot.
func (s *Store) State() State {
	return s.state.clone()
}

// Add adds or merges an item into the cart.
func (s *Store) Add(item catalog.Item, opts AddOptions) error {
	next, err := Add(s.state, item, opts, s.now())
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// UpdateQuantity sets a line quantity, removing the line when qty is not positive.
func (s *Store) UpdateQuantity(lineID string, qty decimal.Decimal) error {
	next, err := UpdateQuantity(s.state, lineID, qty)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Remove deletes a line.
func (s *Store) Remove(lineID string) {
	s.state = Remove(s.state, lineID)
}

// Clear empties the cart, e.g. after the order was handed off.
func (s *Store) Clear() {
	s.state = Clear(s.state)
}

// Total is the cart subtotal.
func (s *Store) Total() pricing.Money {
	return Total(s.state)
}

// ItemCount is the badge count.
func (s *Store) ItemCount() decimal.Decimal {
	return ItemCount(s.state)
}
