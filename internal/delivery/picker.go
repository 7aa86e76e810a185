package delivery

import (
	"context"
	"errors"
	"fmt"
)

// ErrLocationUnavailable is returned when the device location could not be obtained.
// The picker keeps its previous pin and the customer may retry.
var ErrLocationUnavailable = errors.New("location unavailable")

// Locator resolves the customer's current position. Implementations should honour ctx.
type Locator interface {
	Locate(ctx context.Context) (Point, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (Point, error)

// Locate implements Locator.
func (f LocatorFunc) Locate(ctx context.Context) (Point, error) { return f(ctx) }

// Picker owns the checkout location: the pin and its quote are always replaced together.
// A Picker has one owner and is not safe for concurrent use.
type Picker struct {
	settings Settings
	pin      *Point
	quote    Quote
}

// NewPicker returns a picker without a pin.
func NewPicker(settings Settings) *Picker {
	return &Picker{settings: settings}
}

// Place moves the pin and recomputes the quote.
func (p *Picker) Place(pt Point) Quote {
	pin := pt
	p.pin = &pin
	p.quote = Calculate(p.settings, pt)
	return p.quote
}

// UseCurrentLocation asks loc for the device position once and places the pin there.
// On failure, denial or cancellation the previous pin is kept.
func (p *Picker) UseCurrentLocation(ctx context.Context, loc Locator) (Quote, error) {
	if loc == nil {
		return p.quote, fmt.Errorf("no locator: %w", ErrLocationUnavailable)
	}
	type result struct {
		pt  Point
		err error
	}
	done := make(chan result, 1)
	go func() {
		pt, err := loc.Locate(ctx)
		done <- result{pt: pt, err: err}
	}()

	select {
	case <-ctx.Done():
		return p.quote, fmt.Errorf("%v: %w", ctx.Err(), ErrLocationUnavailable)
	case res := <-done:
		if res.err != nil {
			return p.quote, fmt.Errorf("%v: %w", res.err, ErrLocationUnavailable)
		}
		if !res.pt.InRange() {
			return p.quote, fmt.Errorf("invalid coordinates %v,%v: %w", res.pt.Lat, res.pt.Lng, ErrLocationUnavailable)
		}
		return p.Place(res.pt), nil
	}
}

// Pin returns the placed location, if any.
func (p *Picker) Pin() (Point, bool) {
	if p.pin == nil {
		return Point{}, false
	}
	return *p.pin, true
}

// Quote returns the quote for the current pin. It is the zero Quote before any pin.
func (p *Picker) Quote() Quote {
	return p.quote
}
