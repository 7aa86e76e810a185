package delivery

import (
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/frozen-toko/internal/common"
	"github.com/noah-isme/frozen-toko/internal/obs"
)

// Handler exposes delivery settings and fee quotes.
type Handler struct {
	settings SettingsSource
	validate *validator.Validate
}

// NewHandler constructs a Handler. A nil source serves the default rate card.
func NewHandler(settings SettingsSource, v *validator.Validate) *Handler {
	if settings == nil {
		settings = StaticSettings(DefaultSettings())
	}
	if v == nil {
		v = common.NewValidator()
	}
	return &Handler{settings: settings, validate: v}
}

// QuoteRequest is the payload of POST /api/v1/delivery/quote.
type QuoteRequest struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

type settingsView struct {
	Settings
	StoreLocationSet bool `json:"storeLocationSet"`
}

// Settings handles GET /api/v1/settings/delivery.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.DeliverySettings(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("load delivery settings")
		common.JSONError(w, http.StatusServiceUnavailable, common.CodeUnavailable, "delivery settings unavailable", nil)
		return
	}
	common.Data(w, http.StatusOK, settingsView{Settings: s, StoreLocationSet: s.HasStoreLocation()})
}

// Quote handles POST /api/v1/delivery/quote. A missing store location is not an error:
// the quote comes back with available=false and a zero fee.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		obs.IncDeliveryQuote("invalid")
		common.WriteError(w, err)
		return
	}
	if err := common.ValidateStruct(h.validate, req); err != nil {
		obs.IncDeliveryQuote("invalid")
		common.WriteError(w, err)
		return
	}
	s, err := h.settings.DeliverySettings(r.Context())
	if err != nil {
		obs.IncDeliveryQuote("error")
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("load delivery settings")
		common.JSONError(w, http.StatusServiceUnavailable, common.CodeUnavailable, "delivery settings unavailable", nil)
		return
	}
	quote := Calculate(s, Point{Lat: *req.Lat, Lng: *req.Lng})
	if quote.Available {
		obs.IncDeliveryQuote("ok")
	} else {
		obs.IncDeliveryQuote("unavailable")
	}
	common.Data(w, http.StatusOK, quote)
}
