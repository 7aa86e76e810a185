package delivery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/frozen-toko/internal/delivery"
)

func TestPickerPlaceRecomputes(t *testing.T) {
	settings := delivery.DefaultSettings()
	p := delivery.NewPicker(settings)
	_, ok := p.Pin()
	require.False(t, ok)
	require.False(t, p.Quote().Available)

	q := p.Place(settings.Store)
	require.Equal(t, "50", q.Fee.String())

	far := delivery.Point{Lat: settings.Store.Lat + 0.03, Lng: settings.Store.Lng}
	q = p.Place(far)
	require.Equal(t, "86", q.Fee.String())
	pin, ok := p.Pin()
	require.True(t, ok)
	require.Equal(t, far, pin)
	require.Equal(t, q, p.Quote())
}

func TestPickerUseCurrentLocation(t *testing.T) {
	settings := delivery.DefaultSettings()
	p := delivery.NewPicker(settings)

	q, err := p.UseCurrentLocation(context.Background(), delivery.LocatorFunc(func(context.Context) (delivery.Point, error) {
		return settings.Store, nil
	}))
	require.NoError(t, err)
	require.True(t, q.Available)
}

func TestPickerLocationFailureKeepsPin(t *testing.T) {
	settings := delivery.DefaultSettings()
	p := delivery.NewPicker(settings)
	before := p.Place(settings.Store)

	denied := delivery.LocatorFunc(func(context.Context) (delivery.Point, error) {
		return delivery.Point{}, errors.New("permission denied")
	})
	q, err := p.UseCurrentLocation(context.Background(), denied)
	require.True(t, errors.Is(err, delivery.ErrLocationUnavailable))
	require.Equal(t, before, q)
	pin, _ := p.Pin()
	require.Equal(t, settings.Store, pin)

	_, err = p.UseCurrentLocation(context.Background(), nil)
	require.True(t, errors.Is(err, delivery.ErrLocationUnavailable))
}

func TestPickerLocationTimeout(t *testing.T) {
	p := delivery.NewPicker(delivery.DefaultSettings())
	release := make(chan struct{})
	defer close(release)
	slow := delivery.LocatorFunc(func(ctx context.Context) (delivery.Point, error) {
		<-release
		return delivery.Point{Lat: 14.6, Lng: 121}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.UseCurrentLocation(ctx, slow)
	require.True(t, errors.Is(err, delivery.ErrLocationUnavailable))
	_, ok := p.Pin()
	require.False(t, ok)
}
