package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	limiter "github.com/ulule/limiter/v3"
)

func TestHandlerMiddlewareEnforcesLimit(t *testing.T) {
	l, err := New("1-M", nil)
	require.NoError(t, err)

	counted := Handler{Limiter: l}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	req.RemoteAddr = "203.0.113.7:5000"

	rr1 := httptest.NewRecorder()
	counted.ServeHTTP(rr1, req.Clone(req.Context()))
	require.Equal(t, http.StatusOK, rr1.Code)
	require.Equal(t, "1", rr1.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "0", rr1.Header().Get("X-RateLimit-Remaining"))

	rr2 := httptest.NewRecorder()
	counted.ServeHTTP(rr2, req.Clone(req.Context()))
	require.Equal(t, http.StatusTooManyRequests, rr2.Code)
	require.NotEmpty(t, rr2.Header().Get("Retry-After"))
	require.Contains(t, rr2.Body.String(), "RATE_LIMITED")

	other := req.Clone(req.Context())
	other.RemoteAddr = "198.51.100.2:5000"
	rr3 := httptest.NewRecorder()
	counted.ServeHTTP(rr3, other)
	require.Equal(t, http.StatusOK, rr3.Code)
}

func TestHandlerMiddlewareCustomKey(t *testing.T) {
	l, err := New("2-H", nil)
	require.NoError(t, err)
	h := Handler{Limiter: l, Key: func(*http.Request) string { return "static" }}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	codes := make([]int, 0, 3)
	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1", "10.0.0.3:1"} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	require.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

type failingStore struct{ limiter.Store }

func (failingStore) Get(context.Context, string, limiter.Rate) (limiter.Context, error) {
	return limiter.Context{}, errors.New("store down")
}

func TestHandlerMiddlewareFailsOpen(t *testing.T) {
	rate, err := limiter.NewRateFromFormatted("1-M")
	require.NoError(t, err)
	var reported error
	h := Handler{
		Limiter: limiter.New(failingStore{}, rate),
		OnError: func(_ *http.Request, err error) { reported = err },
	}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.EqualError(t, reported, "store down")
}

func TestHandlerMiddlewareNilLimiterPassesThrough(t *testing.T) {
	rr := httptest.NewRecorder()
	Handler{}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
}

func TestNewRejectsInvalidRate(t *testing.T) {
	_, err := New("lots", nil)
	require.Error(t, err)
}
