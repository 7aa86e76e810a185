package delivery

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/frozen-toko/internal/pricing"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance between a and b in kilometres.
func Distance(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// Rounding can push h just past 1 for near-antipodal points.
	h = math.Min(1, math.Max(0, h))
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// FeeForDistance charges the base rate for the first kilometre and the per-km rate for
// the rest, rounded up to a whole unit.
func FeeForDistance(km float64, base, perKm pricing.Money) pricing.Money {
	if km <= 1 || math.IsNaN(km) {
		return base.Ceil()
	}
	extra := decimal.NewFromFloat(km - 1).Mul(perKm)
	return base.Add(extra).Ceil()
}

// Quote is the delivery fee for one customer pin.
type Quote struct {
	DistanceKm pricing.Money `json:"distanceKm"`
	Fee        pricing.Money `json:"fee"`
	Available  bool          `json:"available"`
}

// Calculate quotes delivery from the store to customer. The fee uses the unrounded
// distance; DistanceKm is rounded to two decimals for display. Without a usable store
// location the quote is unavailable with a zero fee.
func Calculate(s Settings, customer Point) Quote {
	if !s.HasStoreLocation() || !customer.InRange() {
		return Quote{DistanceKm: decimal.Zero, Fee: decimal.Zero}
	}
	km := Distance(s.Store, customer)
	if math.IsNaN(km) || math.IsInf(km, 0) {
		return Quote{DistanceKm: decimal.Zero, Fee: decimal.Zero}
	}
	return Quote{
		DistanceKm: decimal.NewFromFloat(km).Round(2),
		Fee:        FeeForDistance(km, s.BaseRate, s.PerKmRate),
		Available:  true,
	}
}
