package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/frozen-toko/internal/resilience"
)

func TestBreakerTransitions(t *testing.T) {
	resilience.MustRegisterMetrics("test", prometheus.NewRegistry())
	breaker := resilience.NewBreaker("catalog", 2, 0.5, 50*time.Millisecond)
	ctx := context.Background()

	require.True(t, breaker.Allow(ctx))
	breaker.Report(ctx, false)
	require.True(t, breaker.Allow(ctx))
	breaker.Report(ctx, false)

	require.False(t, breaker.Allow(ctx), "breaker should open after threshold exceeded")
	require.Equal(t, 1.0, testutil.ToFloat64(resilience.BreakerState.WithLabelValues("catalog")))

	require.Eventually(t, func() bool { return breaker.Allow(ctx) }, time.Second, 5*time.Millisecond)
	require.Equal(t, resilience.HalfOpen, breaker.State())
	require.False(t, breaker.Allow(ctx), "only one probe while half-open")
	breaker.Report(ctx, true)
	require.Equal(t, resilience.Closed, breaker.State())
	require.True(t, breaker.Allow(ctx))

	require.Equal(t, 1.0, testutil.ToFloat64(resilience.BreakerTransitions.WithLabelValues("catalog", "closed", "open")))
	require.Equal(t, 1.0, testutil.ToFloat64(resilience.BreakerTransitions.WithLabelValues("catalog", "half_open", "closed")))
}

func TestBreakerDoTreatsHealthyErrorsAsSuccess(t *testing.T) {
	notFound := errors.New("not found")
	breaker := resilience.NewBreaker("items", 1, 0.5, time.Minute)
	ctx := context.Background()

	err := breaker.Do(ctx, func() error { return notFound }, func(err error) bool { return errors.Is(err, notFound) })
	require.ErrorIs(t, err, notFound)
	require.Equal(t, resilience.Closed, breaker.State())

	err = breaker.Do(ctx, func() error { return errors.New("connection refused") }, nil)
	require.Error(t, err)
	require.Equal(t, resilience.Open, breaker.State())

	called := false
	err = breaker.Do(ctx, func() error { called = true; return nil }, nil)
	require.ErrorIs(t, err, resilience.ErrOpenCircuit)
	require.False(t, called)
}

func TestBackoffWithJitter(t *testing.T) {
	base := 100 * time.Millisecond
	require.Equal(t, base, resilience.Backoff(base, 1, 0))
	require.Equal(t, base*4, resilience.Backoff(base, 3, 0))

	d := resilience.Backoff(base, 2, 0.2)
	require.GreaterOrEqual(t, d, base*2-(base*2/5))
	require.LessOrEqual(t, d, base*2+(base*2/5))
}

func TestRetry(t *testing.T) {
	calls := 0
	err := resilience.Retry(context.Background(), 3, time.Millisecond, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)

	calls = 0
	err = resilience.Retry(context.Background(), 2, time.Millisecond, func(context.Context) error {
		calls++
		return errors.New("down")
	})
	require.EqualError(t, err, "down")
	require.Equal(t, 2, calls)
}
