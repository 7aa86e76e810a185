package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/frozen-toko/internal/catalog"
	"github.com/noah-isme/frozen-toko/internal/common"
	"github.com/noah-isme/frozen-toko/internal/resilience"
)

type flakySource struct {
	catalog.Source
	err   error
	calls int
}

func (f *flakySource) ListItems(ctx context.Context) ([]catalog.Item, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.Source.ListItems(ctx)
}

func TestGuardedSourceOpensOnFailures(t *testing.T) {
	seed, err := catalog.NewSeedSource()
	require.NoError(t, err)
	flaky := &flakySource{Source: seed, err: errors.New("connection refused")}
	guarded := catalog.NewGuardedSource(flaky, resilience.NewBreaker("catalog-test", 2, 0.5, time.Minute))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := guarded.ListItems(ctx)
		require.EqualError(t, err, "connection refused")
	}

	_, err = guarded.ListItems(ctx)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusServiceUnavailable, appErr.HTTPStatus)
	require.Equal(t, 2, flaky.calls)
}

func TestGuardedSourceIgnoresMissingItems(t *testing.T) {
	seed, err := catalog.NewSeedSource()
	require.NoError(t, err)
	breaker := resilience.NewBreaker("catalog-missing", 1, 0.5, time.Minute)
	guarded := catalog.NewGuardedSource(seed, breaker)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := guarded.GetItem(ctx, "no-such-item")
		require.ErrorIs(t, err, catalog.ErrNotFound)
	}
	require.Equal(t, resilience.Closed, breaker.State())

	item, err := guarded.GetItem(ctx, "beef-tapa")
	require.NoError(t, err)
	require.Equal(t, "beef-tapa", item.ID)
}
