package order

import (
	"errors"
	"net/http"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/frozen-toko/internal/cart"
	"github.com/noah-isme/frozen-toko/internal/common"
	"github.com/noah-isme/frozen-toko/internal/delivery"
	"github.com/noah-isme/frozen-toko/internal/obs"
	"github.com/noah-isme/frozen-toko/internal/pricing"
)

// Handler exposes checkout endpoints.
type Handler struct {
	payments PaymentSource
	site     SiteSource
	settings delivery.SettingsSource
	handoff  Handoff
	validate *validator.Validate
}

// HandlerConfig configures the Handler dependencies. Nil sources fall back to defaults.
type HandlerConfig struct {
	Payments  PaymentSource
	Site      SiteSource
	Delivery  delivery.SettingsSource
	Handoff   Handoff
	Validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	h := &Handler{
		payments: cfg.Payments,
		site:     cfg.Site,
		settings: cfg.Delivery,
		handoff:  cfg.Handoff,
		validate: cfg.Validator,
	}
	if h.payments == nil {
		h.payments = DefaultPaymentMethods()
	}
	if h.site == nil {
		h.site = StaticSite(DefaultSite())
	}
	if h.settings == nil {
		h.settings = delivery.StaticSettings(delivery.DefaultSettings())
	}
	if h.handoff == nil {
		h.handoff = LinkHandoff{}
	}
	if h.validate == nil {
		h.validate = common.NewValidator()
	}
	return h
}

// PlaceRequest is the payload of POST /api/v1/orders.
type PlaceRequest struct {
	Cart            cart.State      `json:"cart"`
	Customer        Customer        `json:"customer"`
	Service         ServiceType     `json:"service" validate:"required,oneof=pickup delivery"`
	PickupTime      PickupTime      `json:"pickupTime"`
	Location        *delivery.Point `json:"location,omitempty"`
	Landmark        string          `json:"landmark,omitempty" validate:"max=500"`
	PaymentMethodID string          `json:"paymentMethodId" validate:"required"`
	Notes           string          `json:"notes,omitempty" validate:"max=1000"`
}

// PlaceResponse carries the message and the link that opens the shop chat.
type PlaceResponse struct {
	Message    string          `json:"message"`
	HandoffURL string          `json:"handoffUrl"`
	Totals     pricing.Summary `json:"totals"`
}

// PaymentMethods handles GET /api/v1/payment-methods.
func (h *Handler) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.payments.PaymentMethods(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("load payment methods")
		common.JSONError(w, http.StatusServiceUnavailable, common.CodeUnavailable, "payment methods unavailable", nil)
		return
	}
	common.Data(w, http.StatusOK, methods)
}

// Place handles POST /api/v1/orders. The delivery fee is always recomputed from the
// store settings; the client's quote is never trusted.
func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	var req PlaceRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := common.ValidateStruct(h.validate, req); err != nil {
		common.WriteError(w, err)
		return
	}

	ctx := r.Context()
	methods, err := h.payments.PaymentMethods(ctx)
	if err != nil {
		h.unavailable(w, r, err, "payment methods unavailable")
		return
	}
	method, ok := FindMethod(methods, strings.TrimSpace(req.PaymentMethodID))
	if !ok {
		common.JSONError(w, http.StatusUnprocessableEntity, common.CodeUnprocessable, "unknown payment method", map[string]string{"paymentMethodId": req.PaymentMethodID})
		return
	}
	site, err := h.site.SiteSettings(ctx)
	if err != nil {
		h.unavailable(w, r, err, "site settings unavailable")
		return
	}

	build := Request{
		Cart:     req.Cart,
		Customer: req.Customer,
		Service:  req.Service,
		Pickup:   req.PickupTime,
		Payment:  method,
		Notes:    req.Notes,
		Site:     site,
	}
	if req.Service == ServiceDelivery && req.Location != nil {
		settings, err := h.settings.DeliverySettings(ctx)
		if err != nil {
			h.unavailable(w, r, err, "delivery settings unavailable")
			return
		}
		build.Delivery = &DeliveryInfo{
			Location: *req.Location,
			Quote:    delivery.Calculate(settings, *req.Location),
			Landmark: req.Landmark,
		}
	}

	summary, err := BuildSummary(build)
	if err != nil {
		if errors.Is(err, ErrInvalidOrder) {
			common.WriteError(w, common.Unprocessable(err))
			return
		}
		common.WriteError(w, err)
		return
	}
	link, err := h.handoff.Deliver(ctx, summary)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("order handoff")
		common.JSONError(w, http.StatusBadGateway, common.CodeUnavailable, "order hand-off failed", nil)
		return
	}
	obs.IncOrderSummary(string(req.Service))
	zerolog.Ctx(ctx).Info().
		Str("service", string(req.Service)).
		Int("lines", len(req.Cart.Lines)).
		Str("total", summary.Totals.Total.String()).
		Msg("order summary built")
	common.Data(w, http.StatusCreated, PlaceResponse{Message: summary.Text, HandoffURL: link, Totals: summary.Totals})
}

func (h *Handler) unavailable(w http.ResponseWriter, r *http.Request, err error, msg string) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg(msg)
	common.JSONError(w, http.StatusServiceUnavailable, common.CodeUnavailable, msg, nil)
}
