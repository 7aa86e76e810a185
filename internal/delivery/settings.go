package delivery

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/frozen-toko/internal/pricing"
)

// Setting keys in the operator's key/value settings table.
const (
	KeyStoreLat  = "store_lat"
	KeyStoreLng  = "store_lng"
	KeyBaseRate  = "delivery_base_rate"
	KeyPerKmRate = "delivery_per_km_rate"
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// InRange reports whether both coordinates are finite and within bounds.
func (p Point) InRange() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Settings holds the store location and the delivery rate card.
type Settings struct {
	Store     Point         `json:"store"`
	BaseRate  pricing.Money `json:"baseRate"`
	PerKmRate pricing.Money `json:"perKmRate"`
}

// DefaultSettings returns the rate card used until the operator configures one.
func DefaultSettings() Settings {
	return Settings{
		Store:     Point{Lat: 14.5995, Lng: 120.9842},
		BaseRate:  decimal.NewFromInt(50),
		PerKmRate: decimal.NewFromInt(15),
	}
}

// HasStoreLocation reports whether the store pin is usable. The operator tool stores an
// unset coordinate as zero.
func (s Settings) HasStoreLocation() bool {
	return s.Store.InRange() && s.Store.Lat != 0 && s.Store.Lng != 0
}

// ParseSettings overlays raw key/value settings on the defaults. Values that fail to
// parse keep their default.
func ParseSettings(raw map[string]string) Settings {
	s := DefaultSettings()
	if v, ok := parseFloat(raw[KeyStoreLat]); ok {
		s.Store.Lat = v
	}
	if v, ok := parseFloat(raw[KeyStoreLng]); ok {
		s.Store.Lng = v
	}
	if v, ok := pricing.ParseAmount(raw[KeyBaseRate]); ok && !v.IsNegative() {
		s.BaseRate = v
	}
	if v, ok := pricing.ParseAmount(raw[KeyPerKmRate]); ok && !v.IsNegative() {
		s.PerKmRate = v
	}
	return s
}

func parseFloat(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SettingsSource supplies the current delivery settings.
type SettingsSource interface {
	DeliverySettings(ctx context.Context) (Settings, error)
}

// KeyValueStore exposes the operator's raw settings.
type KeyValueStore interface {
	Settings(ctx context.Context) (map[string]string, error)
}

// StaticSettings serves a fixed rate card.
type StaticSettings Settings

// DeliverySettings implements SettingsSource.
func (s StaticSettings) DeliverySettings(context.Context) (Settings, error) {
	return Settings(s), nil
}

// StoredSettings parses delivery settings from a key/value store on every call.
type StoredSettings struct {
	KV KeyValueStore
}

// DeliverySettings implements SettingsSource.
func (s StoredSettings) DeliverySettings(ctx context.Context) (Settings, error) {
	if s.KV == nil {
		return DefaultSettings(), nil
	}
	raw, err := s.KV.Settings(ctx)
	if err != nil {
		return Settings{}, err
	}
	return ParseSettings(raw), nil
}
