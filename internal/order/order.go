package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/frozen-toko/internal/cart"
	"github.com/noah-isme/frozen-toko/internal/delivery"
)

// ErrInvalidOrder is returned when checkout details are incomplete.
var ErrInvalidOrder = errors.New("invalid order")

// ServiceType is how the customer receives the order.
type ServiceType string

const (
	ServicePickup   ServiceType = "pickup"
	ServiceDelivery ServiceType = "delivery"
)

// Label capitalises the service type for display.
func (s ServiceType) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Pickup presets offered at checkout, in minutes.
const (
	PickupSoon   = "5-10"
	PickupLater  = "15-20"
	PickupLatest = "25-30"
	PickupCustom = "custom"
)

// PickupTime is a preset window or a customer supplied time.
type PickupTime struct {
	Preset string `json:"preset"`
	Custom string `json:"custom,omitempty"`
}

// Label renders the pickup time as shown in the order message.
func (p PickupTime) Label() string {
	if p.Preset == PickupCustom {
		return strings.TrimSpace(p.Custom)
	}
	preset := p.Preset
	if preset == "" {
		preset = PickupSoon
	}
	return preset + " minutes"
}

func (p PickupTime) validate() error {
	switch p.Preset {
	case "", PickupSoon, PickupLater, PickupLatest:
		return nil
	case PickupCustom:
		if strings.TrimSpace(p.Custom) == "" {
			return fmt.Errorf("custom pickup time is required: %w", ErrInvalidOrder)
		}
		return nil
	default:
		return fmt.Errorf("unknown pickup time %q: %w", p.Preset, ErrInvalidOrder)
	}
}

// Customer identifies who placed the order.
type Customer struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// DeliveryInfo is the pinned drop-off and its quote.
type DeliveryInfo struct {
	Location delivery.Point `json:"location"`
	Quote    delivery.Quote `json:"quote"`
	Landmark string         `json:"landmark,omitempty"`
}

// PaymentMethod is an operator configured way to pay.
type PaymentMethod struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AccountNumber string `json:"accountNumber,omitempty"`
	AccountName   string `json:"accountName,omitempty"`
	QRCodeURL     string `json:"qrCodeUrl,omitempty"`
	Active        bool   `json:"active"`
	SortOrder     int    `json:"sortOrder"`
}

// NeedsProof reports whether the customer must attach a payment screenshot.
func (m PaymentMethod) NeedsProof() bool {
	return strings.TrimSpace(m.AccountNumber) != "" || strings.TrimSpace(m.QRCodeURL) != ""
}

// Label is the method name, falling back to its id.
func (m PaymentMethod) Label() string {
	if name := strings.TrimSpace(m.Name); name != "" {
		return name
	}
	return m.ID
}

// SiteSettings brand the order message.
type SiteSettings struct {
	SiteName string `json:"siteName"`
	Currency string `json:"currency"`
}

// DefaultSite returns the storefront branding used until the operator sets one.
func DefaultSite() SiteSettings {
	return SiteSettings{SiteName: "5J's Frozen", Currency: "₱"}
}

// Request collects everything checkout knows when the customer places the order.
type Request struct {
	Cart     cart.State
	Customer Customer
	Service  ServiceType
	Pickup   PickupTime
	Delivery *DeliveryInfo
	Payment  PaymentMethod
	Notes    string
	Site     SiteSettings
}

// Validate checks the checkout form rules.
func (r Request) Validate() error {
	if len(r.Cart.Lines) == 0 {
		return fmt.Errorf("cart is empty: %w", ErrInvalidOrder)
	}
	if strings.TrimSpace(r.Customer.Name) == "" {
		return fmt.Errorf("customer name is required: %w", ErrInvalidOrder)
	}
	if strings.TrimSpace(r.Customer.Contact) == "" {
		return fmt.Errorf("contact number is required: %w", ErrInvalidOrder)
	}
	switch r.Service {
	case ServicePickup:
		if err := r.Pickup.validate(); err != nil {
			return err
		}
	case ServiceDelivery:
		if r.Delivery == nil {
			return fmt.Errorf("delivery location is required: %w", ErrInvalidOrder)
		}
		if !r.Delivery.Location.InRange() {
			return fmt.Errorf("delivery location is invalid: %w", ErrInvalidOrder)
		}
		if !r.Delivery.Quote.Available {
			return fmt.Errorf("delivery cannot be priced without a store location: %w", ErrInvalidOrder)
		}
	default:
		return fmt.Errorf("unknown service type %q: %w", r.Service, ErrInvalidOrder)
	}
	if r.Payment.Label() == "" {
		return fmt.Errorf("payment method is required: %w", ErrInvalidOrder)
	}
	if err := cart.Validate(r.Cart); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidOrder)
	}
	return nil
}
