package delivery_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/frozen-toko/internal/delivery"
)

func TestFeeForDistanceTiers(t *testing.T) {
	base := decimal.NewFromInt(50)
	perKm := decimal.NewFromInt(15)

	cases := []struct {
		km   float64
		want string
	}{
		{0, "50"},
		{0.5, "50"},
		{1.0, "50"},
		{1.01, "51"},
		{3.4, "86"},
		{10, "185"},
	}
	for _, tc := range cases {
		got := delivery.FeeForDistance(tc.km, base, perKm)
		require.Equal(t, tc.want, got.String(), "km=%v", tc.km)
	}
}

func TestFeeRoundsUpFractionalBase(t *testing.T) {
	got := delivery.FeeForDistance(0.2, decimal.RequireFromString("49.10"), decimal.NewFromInt(15))
	require.Equal(t, "50", got.String())
}

func TestDistanceHaversine(t *testing.T) {
	manila := delivery.Point{Lat: 14.5995, Lng: 120.9842}
	require.Zero(t, delivery.Distance(manila, manila))

	// one degree of latitude along a meridian
	d := delivery.Distance(delivery.Point{Lat: 0, Lng: 0}, delivery.Point{Lat: 1, Lng: 0})
	require.InDelta(t, 111.195, d, 0.01)

	// symmetric
	other := delivery.Point{Lat: 14.6760, Lng: 121.0437}
	require.InDelta(t, delivery.Distance(manila, other), delivery.Distance(other, manila), 1e-9)
}

func TestCalculate(t *testing.T) {
	settings := delivery.DefaultSettings()

	same := delivery.Calculate(settings, settings.Store)
	require.True(t, same.Available)
	require.Equal(t, "50", same.Fee.String())
	require.True(t, same.DistanceKm.IsZero())

	// ~3.34 km north of the store
	north := delivery.Point{Lat: settings.Store.Lat + 0.03, Lng: settings.Store.Lng}
	q := delivery.Calculate(settings, north)
	require.True(t, q.Available)
	require.Equal(t, "3.34", q.DistanceKm.String())
	require.Equal(t, "86", q.Fee.String())
}

func TestCalculateWithoutStoreLocation(t *testing.T) {
	for _, store := range []delivery.Point{
		{Lat: 0, Lng: 120.9842},
		{Lat: 14.5995, Lng: 0},
		{Lat: math.NaN(), Lng: 120.9842},
		{Lat: 95, Lng: 120.9842},
	} {
		settings := delivery.DefaultSettings()
		settings.Store = store
		q := delivery.Calculate(settings, delivery.Point{Lat: 14.6, Lng: 121})
		require.False(t, q.Available)
		require.True(t, q.Fee.IsZero())
	}
}

func TestParseSettingsFallsBackToDefaults(t *testing.T) {
	s := delivery.ParseSettings(map[string]string{
		delivery.KeyStoreLat:  "14.55",
		delivery.KeyStoreLng:  "not-a-number",
		delivery.KeyBaseRate:  "60",
		delivery.KeyPerKmRate: "",
	})
	require.Equal(t, 14.55, s.Store.Lat)
	require.Equal(t, 120.9842, s.Store.Lng)
	require.Equal(t, "60", s.BaseRate.String())
	require.Equal(t, "15", s.PerKmRate.String())

	zeroed := delivery.ParseSettings(map[string]string{delivery.KeyStoreLat: "0"})
	require.False(t, zeroed.HasStoreLocation())
	require.True(t, delivery.ParseSettings(nil).HasStoreLocation())
}

func TestDistanceNearAntipodeStaysFinite(t *testing.T) {
	halfCircumference := math.Pi * delivery.EarthRadiusKm

	settings := delivery.Settings{
		Store:     delivery.Point{Lat: 61.47, Lng: -59.0158},
		BaseRate:  decimal.NewFromInt(50),
		PerKmRate: decimal.NewFromInt(15),
	}
	pin := delivery.Point{Lat: -61.47, Lng: 120.98419999999999}
	require.NotPanics(t, func() {
		q := delivery.Calculate(settings, pin)
		require.True(t, q.Available)
		require.InDelta(t, halfCircumference, q.DistanceKm.InexactFloat64(), 1)
	})

	manila := delivery.DefaultSettings()
	require.NotPanics(t, func() {
		delivery.Calculate(manila, delivery.Point{Lat: -14.5995005, Lng: -59.0158012})
	})
	for i := -100; i <= 100; i++ {
		for j := -100; j <= 100; j++ {
			p := delivery.Point{Lat: -14.5995 + float64(i)*5e-7, Lng: -59.0158 + float64(j)*5e-7}
			d := delivery.Distance(manila.Store, p)
			require.False(t, math.IsNaN(d), "pin %+v", p)
			require.LessOrEqual(t, d, halfCircumference+1e-6)
		}
	}
}
