package cart

import (
	"errors"
	"net/http"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/frozen-toko/internal/catalog"
	"github.com/noah-isme/frozen-toko/internal/common"
	"github.com/noah-isme/frozen-toko/internal/obs"
)

// Handler exposes the stateless cart endpoints. Clients post their snapshot with every
// request and receive the next snapshot with its totals.
type Handler struct {
	catalog  catalog.Source
	validate *validator.Validate
	now      func() time.Time
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Catalog   catalog.Source
	Validator *validator.Validate
	Now       func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	v := cfg.Validator
	if v == nil {
		v = common.NewValidator()
	}
	return &Handler{catalog: cfg.Catalog, validate: v, now: now}
}

// AddOnRef picks an add-on Quantity times. A zero quantity counts once.
type AddOnRef struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0,lte=99"`
}

// AddRequest is the payload of POST /api/v1/cart/add.
type AddRequest struct {
	Cart        State            `json:"cart"`
	ItemID      string           `json:"itemId" validate:"required"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	VariationID string           `json:"variationId,omitempty"`
	AddOns      []AddOnRef       `json:"addOns,omitempty" validate:"dive"`
}

// UpdateRequest is the payload of POST /api/v1/cart/update.
type UpdateRequest struct {
	Cart     State           `json:"cart"`
	LineID   string           `json:"lineId" validate:"required"`
	Quantity *decimal.Decimal `json:"quantity" validate:"required"`
}

// RemoveRequest is the payload of POST /api/v1/cart/remove.
type RemoveRequest struct {
	Cart   State  `json:"cart"`
	LineID string `json:"lineId" validate:"required"`
}

// SnapshotRequest carries only a cart, for clear and totals.
type SnapshotRequest struct {
	Cart State `json:"cart"`
}

// Response is returned by every cart endpoint.
type Response struct {
	Cart   State  `json:"cart"`
	Totals Totals `json:"totals"`
}

// Add handles POST /api/v1/cart/add.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if !h.decode(w, r, "add", &req, &req.Cart) {
		return
	}
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "catalog not configured", nil)
		return
	}
	item, err := h.catalog.GetItem(r.Context(), req.ItemID)
	if err != nil {
		h.fail(w, "add", err)
		return
	}
	opts := AddOptions{}
	if req.Quantity != nil {
		opts.Quantity = *req.Quantity
		if opts.Quantity.IsZero() {
			h.fail(w, "add", ErrInvalidQuantity)
			return
		}
	}
	if req.VariationID != "" {
		opts.Variation = &catalog.Variation{ID: req.VariationID}
	}
	for _, ref := range req.AddOns {
		n := ref.Quantity
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			opts.AddOns = append(opts.AddOns, catalog.AddOn{ID: ref.ID})
		}
	}
	next, err := Add(req.Cart, item, opts, h.now())
	if err != nil {
		h.fail(w, "add", err)
		return
	}
	h.respond(w, "add", next)
}

// Update handles POST /api/v1/cart/update.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if !h.decode(w, r, "update", &req, &req.Cart) {
		return
	}
	next, err := UpdateQuantity(req.Cart, req.LineID, *req.Quantity)
	if err != nil {
		h.fail(w, "update", err)
		return
	}
	h.respond(w, "update", next)
}

// Remove handles POST /api/v1/cart/remove.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	var req RemoveRequest
	if !h.decode(w, r, "remove", &req, &req.Cart) {
		return
	}
	h.respond(w, "remove", Remove(req.Cart, req.LineID))
}

// Clear handles POST /api/v1/cart/clear.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	var req SnapshotRequest
	if !h.decode(w, r, "clear", &req, &req.Cart) {
		return
	}
	h.respond(w, "clear", Clear(req.Cart))
}

// Totals handles POST /api/v1/cart/totals.
func (h *Handler) Totals(w http.ResponseWriter, r *http.Request) {
	var req SnapshotRequest
	if !h.decode(w, r, "totals", &req, &req.Cart) {
		return
	}
	h.respond(w, "totals", req.Cart)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, op string, dst any, snapshot *State) bool {
	if err := common.DecodeJSON(w, r, dst); err != nil {
		h.fail(w, op, err)
		return false
	}
	if err := common.ValidateStruct(h.validate, dst); err != nil {
		h.fail(w, op, err)
		return false
	}
	if err := Validate(*snapshot); err != nil {
		h.fail(w, op, err)
		return false
	}
	return true
}

func (h *Handler) respond(w http.ResponseWriter, op string, state State) {
	if state.Lines == nil {
		state.Lines = []Line{}
	}
	obs.IncCartOperation(op, "ok")
	common.Data(w, http.StatusOK, Response{Cart: state, Totals: Summarize(state)})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	obs.IncCartOperation(op, "error")
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		common.WriteError(w, common.NewAppError(common.CodeNotFound, err.Error(), http.StatusNotFound, err))
	case errors.Is(err, ErrItemUnavailable):
		common.WriteError(w, common.NewAppError(common.CodeUnavailable, err.Error(), http.StatusConflict, err))
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidSelection), errors.Is(err, ErrInvalidState):
		common.WriteError(w, common.Unprocessable(err))
	default:
		common.WriteError(w, err)
	}
}
