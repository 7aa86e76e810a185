package menu

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/frozen-toko/internal/catalog"
	"github.com/noah-isme/frozen-toko/internal/common"
	"github.com/noah-isme/frozen-toko/internal/pricing"
)

// Listing is a catalog item as shown on the storefront, with its current price.
type Listing struct {
	catalog.Item
	EffectivePrice pricing.Money                             `json:"effectivePrice"`
	OnDiscount     bool                                      `json:"onDiscount"`
	AddOnGroups    map[catalog.AddOnCategory][]catalog.AddOn `json:"addOnGroups,omitempty"`
}

// NewListing prices item at now.
func NewListing(item catalog.Item, now time.Time) Listing {
	l := Listing{
		Item:           item,
		EffectivePrice: pricing.EffectivePrice(item, now),
		OnDiscount:     pricing.DiscountActiveAt(item, now),
	}
	if len(item.AddOns) > 0 {
		l.AddOnGroups = item.AddOnsByCategory()
	}
	return l
}

// Handler exposes public catalog browse endpoints.
type Handler struct {
	source catalog.Source
	now    func() time.Time
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Source catalog.Source
	Now    func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{source: cfg.Source, now: now}
}

// Items handles GET /api/v1/catalog/items with optional category and popular filters.
func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	if h.source == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "catalog source not configured", nil)
		return
	}
	items, err := h.source.ListItems(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	q := r.URL.Query()
	items = catalog.FilterByCategory(items, q.Get("category"))
	popularOnly := strings.EqualFold(strings.TrimSpace(q.Get("popular")), "true")

	now := h.now()
	out := make([]Listing, 0, len(items))
	for _, it := range items {
		if popularOnly && !it.Popular {
			continue
		}
		out = append(out, NewListing(it, now))
	}
	common.Data(w, http.StatusOK, out)
}

// Item handles GET /api/v1/catalog/items/{id}.
func (h *Handler) Item(w http.ResponseWriter, r *http.Request) {
	if h.source == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "catalog source not configured", nil)
		return
	}
	item, err := h.source.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "item not found", nil)
			return
		}
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, NewListing(item, h.now()))
}

// Categories handles GET /api/v1/catalog/categories, listing menu sections in
// alphabetical order with their item counts.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	if h.source == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "catalog source not configured", nil)
		return
	}
	items, err := h.source.ListItems(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	counts := make(map[string]int)
	for _, it := range items {
		if it.Category != "" {
			counts[it.Category]++
		}
	}
	type category struct {
		ID    string `json:"id"`
		Items int    `json:"items"`
	}
	out := make([]category, 0, len(counts))
	for id, n := range counts {
		out = append(out, category{ID: id, Items: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	common.Data(w, http.StatusOK, out)
}
