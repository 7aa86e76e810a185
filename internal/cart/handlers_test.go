package cart_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/frozen-toko/internal/cart"
	"github.com/noah-isme/frozen-toko/internal/catalog"
)

type cartEnvelope struct {
	Data  cart.Response `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newCartRouter(t *testing.T) http.Handler {
	t.Helper()
	unavailable := tapa()
	unavailable.ID = "longganisa"
	unavailable.Available = false
	source := catalog.NewMemorySource([]catalog.Item{siomai(), tapa(), unavailable})
	h := cart.NewHandler(cart.HandlerConfig{Catalog: source, Now: func() time.Time { return now }})

	r := chi.NewRouter()
	r.Post("/cart/add", h.Add)
	r.Post("/cart/update", h.Update)
	r.Post("/cart/remove", h.Remove)
	r.Post("/cart/clear", h.Clear)
	r.Post("/cart/totals", h.Totals)
	return r
}

func postCart(t *testing.T, h http.Handler, path string, body any) (int, cartEnvelope) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload)))
	var env cartEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestCartHandlersFlow(t *testing.T) {
	router := newCartRouter(t)

	status, env := postCart(t, router, "/cart/add", map[string]any{
		"cart":        cart.State{},
		"itemId":      "siomai-pork",
		"variationId": "pack-24",
		"addOns":      []map[string]any{{"id": "chili-garlic", "quantity": 2}},
	})
	require.Equal(t, http.StatusOK, status)
	require.Len(t, env.Data.Cart.Lines, 1)
	require.Equal(t, "siomai-pork|pack-24|chili-garlic:2", env.Data.Cart.Lines[0].ID)
	require.Equal(t, "260", env.Data.Totals.Subtotal.String())

	status, env = postCart(t, router, "/cart/add", map[string]any{
		"cart":     env.Data.Cart,
		"itemId":   "beef-tapa",
		"quantity": "0.75",
	})
	require.Equal(t, http.StatusOK, status)
	require.Len(t, env.Data.Cart.Lines, 2)
	require.Equal(t, "500", env.Data.Totals.Subtotal.String())

	status, env = postCart(t, router, "/cart/update", map[string]any{
		"cart":     env.Data.Cart,
		"lineId":   "siomai-pork|pack-24|chili-garlic:2",
		"quantity": 2,
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "760", env.Data.Totals.Subtotal.String())

	status, env = postCart(t, router, "/cart/remove", map[string]any{
		"cart":   env.Data.Cart,
		"lineId": "beef-tapa|default|none",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, env.Data.Totals.Lines)

	status, env = postCart(t, router, "/cart/totals", map[string]any{"cart": env.Data.Cart})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "520", env.Data.Totals.Subtotal.String())

	status, env = postCart(t, router, "/cart/clear", map[string]any{"cart": env.Data.Cart})
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Data.Cart.Lines)
	require.Empty(t, env.Data.Cart.Lines)
	require.True(t, env.Data.Totals.Subtotal.IsZero())
}

func TestCartHandlerErrors(t *testing.T) {
	router := newCartRouter(t)

	cases := []struct {
		name   string
		path   string
		body   any
		status int
		code   string
	}{
		{"missing item id", "/cart/add", map[string]any{"cart": cart.State{}}, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown item", "/cart/add", map[string]any{"itemId": "nope"}, http.StatusNotFound, "NOT_FOUND"},
		{"unavailable item", "/cart/add", map[string]any{"itemId": "longganisa"}, http.StatusConflict, "UNAVAILABLE"},
		{"bad add-on", "/cart/add", map[string]any{"itemId": "siomai-pork", "addOns": []map[string]any{{"id": "mayo"}}}, http.StatusUnprocessableEntity, "UNPROCESSABLE"},
		{"explicit zero quantity", "/cart/add", map[string]any{"itemId": "siomai-pork", "quantity": 0}, http.StatusUnprocessableEntity, "UNPROCESSABLE"},
		{"unknown field", "/cart/add", map[string]any{"itemId": "siomai-pork", "price": 1}, http.StatusBadRequest, "BAD_REQUEST"},
		{"update without quantity", "/cart/update", map[string]any{"lineId": "siomai-pork|default|none"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"split add-on picks", "/cart/add", map[string]any{"itemId": "siomai-pork", "cart": map[string]any{"lines": []map[string]any{{
			"id": "siomai-pork|default|chili-garlic:1,chili-garlic:1", "itemId": "siomai-pork", "quantity": 1, "unitPrice": 129,
			"selectedAddOns": []map[string]any{{"id": "chili-garlic", "quantity": 1}, {"id": "chili-garlic", "quantity": 1}},
		}}}}, http.StatusUnprocessableEntity, "UNPROCESSABLE"},
		{"non-positive add-on pick", "/cart/totals", map[string]any{"cart": map[string]any{"lines": []map[string]any{{
			"id": "siomai-pork|default|none", "itemId": "siomai-pork", "quantity": 1, "unitPrice": 99,
			"selectedAddOns": []map[string]any{{"id": "chili-garlic", "quantity": -3}},
		}}}}, http.StatusUnprocessableEntity, "UNPROCESSABLE"},
		{"forged snapshot", "/cart/totals", map[string]any{"cart": map[string]any{"lines": []map[string]any{{"id": "x", "itemId": "siomai-pork", "quantity": 1, "unitPrice": 1}}}}, http.StatusUnprocessableEntity, "UNPROCESSABLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := postCart(t, router, tc.path, tc.body)
			require.Equal(t, tc.status, status)
			require.NotNil(t, env.Error)
			require.Equal(t, tc.code, env.Error.Code)
		})
	}
}
