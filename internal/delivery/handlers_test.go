package delivery_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/frozen-toko/internal/delivery"
)

type quoteResponse struct {
	Data delivery.Quote `json:"data"`
}

type kvStub map[string]string

func (k kvStub) Settings(context.Context) (map[string]string, error) { return k, nil }

type failingKV struct{}

func (failingKV) Settings(context.Context) (map[string]string, error) {
	return nil, errors.New("db down")
}

func postQuote(h *delivery.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Quote(rec, httptest.NewRequest(http.MethodPost, "/api/v1/delivery/quote", strings.NewReader(body)))
	return rec
}

func TestQuoteHandler(t *testing.T) {
	h := delivery.NewHandler(nil, nil)
	rec := postQuote(h, `{"lat":14.6295,"lng":120.9842}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp quoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Data.Available)
	require.Equal(t, "86", resp.Data.Fee.String())
}

func TestQuoteHandlerUnsetStore(t *testing.T) {
	h := delivery.NewHandler(delivery.StoredSettings{KV: kvStub{delivery.KeyStoreLat: "0", delivery.KeyStoreLng: "0"}}, nil)
	rec := postQuote(h, `{"lat":14.6,"lng":121}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp quoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Data.Available)
	require.True(t, resp.Data.Fee.IsZero())
}

func TestQuoteHandlerValidation(t *testing.T) {
	h := delivery.NewHandler(nil, nil)
	require.Equal(t, http.StatusBadRequest, postQuote(h, `{"lat":14.6}`).Code)
	require.Equal(t, http.StatusBadRequest, postQuote(h, `{"lat":91,"lng":0}`).Code)
	require.Equal(t, http.StatusBadRequest, postQuote(h, `not json`).Code)
}

func TestQuoteHandlerSettingsFailure(t *testing.T) {
	h := delivery.NewHandler(delivery.StoredSettings{KV: failingKV{}}, nil)
	require.Equal(t, http.StatusServiceUnavailable, postQuote(h, `{"lat":14.6,"lng":121}`).Code)
}

func TestSettingsHandler(t *testing.T) {
	h := delivery.NewHandler(delivery.StoredSettings{KV: kvStub{delivery.KeyBaseRate: "75"}}, nil)
	rec := httptest.NewRecorder()
	h.Settings(rec, httptest.NewRequest(http.MethodGet, "/api/v1/settings/delivery", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Store            delivery.Point `json:"store"`
			BaseRate         string         `json:"baseRate"`
			StoreLocationSet bool           `json:"storeLocationSet"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "75", resp.Data.BaseRate)
	require.True(t, resp.Data.StoreLocationSet)
	require.Equal(t, 14.5995, resp.Data.Store.Lat)
}
