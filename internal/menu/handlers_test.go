package menu_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/frozen-toko/internal/catalog"
	"github.com/noah-isme/frozen-toko/internal/menu"
)

type listingsResponse struct {
	Data []menu.Listing `json:"data"`
}

type listingResponse struct {
	Data menu.Listing `json:"data"`
}

type categoriesResponse struct {
	Data []struct {
		ID    string `json:"id"`
		Items int    `json:"items"`
	} `json:"data"`
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	source, err := catalog.NewSeedSource()
	require.NoError(t, err)
	h := menu.NewHandler(menu.HandlerConfig{
		Source: source,
		Now:    func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) },
	})
	r := chi.NewRouter()
	r.Get("/catalog/items", h.Items)
	r.Get("/catalog/items/{id}", h.Item)
	r.Get("/catalog/categories", h.Categories)
	return r
}

func get(t *testing.T, h http.Handler, path string, dst any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if dst != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
	}
	return rec.Code
}

func TestMenuHandlers(t *testing.T) {
	router := newRouter(t)

	t.Run("list all", func(t *testing.T) {
		var resp listingsResponse
		require.Equal(t, http.StatusOK, get(t, router, "/catalog/items", &resp))
		require.Len(t, resp.Data, 5)
		first := resp.Data[0]
		require.Equal(t, "siomai-pork", first.ID)
		require.True(t, first.OnDiscount)
		require.Equal(t, "99", first.EffectivePrice.String())
		require.Len(t, first.AddOnGroups[catalog.AddOnSauce], 2)
	})

	t.Run("filter by category", func(t *testing.T) {
		var resp listingsResponse
		require.Equal(t, http.StatusOK, get(t, router, "/catalog/items?category=meats", &resp))
		require.Len(t, resp.Data, 2)
		for _, l := range resp.Data {
			require.Equal(t, "meats", l.Category)
		}
	})

	t.Run("popular only", func(t *testing.T) {
		var resp listingsResponse
		require.Equal(t, http.StatusOK, get(t, router, "/catalog/items?popular=true", &resp))
		require.Len(t, resp.Data, 3)
	})

	t.Run("detail", func(t *testing.T) {
		var resp listingResponse
		require.Equal(t, http.StatusOK, get(t, router, "/catalog/items/beef-tapa", &resp))
		require.False(t, resp.Data.OnDiscount)
		require.Equal(t, "kg", resp.Data.MeasurementUnit)
		require.Equal(t, "320", resp.Data.EffectivePrice.String())
	})

	t.Run("detail not found", func(t *testing.T) {
		require.Equal(t, http.StatusNotFound, get(t, router, "/catalog/items/nope", nil))
	})

	t.Run("categories", func(t *testing.T) {
		var resp categoriesResponse
		require.Equal(t, http.StatusOK, get(t, router, "/catalog/categories", &resp))
		require.Len(t, resp.Data, 3)
		require.Equal(t, "chicken", resp.Data[0].ID)
		require.Equal(t, 2, resp.Data[1].Items)
	})
}
