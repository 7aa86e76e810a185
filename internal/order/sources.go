package order

import (
	"context"
	"sort"
	"strings"

	"github.com/noah-isme/frozen-toko/internal/delivery"
)

// Setting keys for storefront branding.
const (
	KeySiteName = "site_name"
	KeyCurrency = "currency_symbol"
)

// PaymentSource lists payment methods offered at checkout.
type PaymentSource interface {
	PaymentMethods(ctx context.Context) ([]PaymentMethod, error)
}

// SiteSource supplies the storefront branding.
type SiteSource interface {
	SiteSettings(ctx context.Context) (SiteSettings, error)
}

// StaticPayments serves a fixed list of methods.
type StaticPayments []PaymentMethod

// PaymentMethods implements PaymentSource, returning active methods in display order.
func (s StaticPayments) PaymentMethods(context.Context) ([]PaymentMethod, error) {
	return ActiveMethods(s), nil
}

// DefaultPaymentMethods are offered when no operator list is configured.
func DefaultPaymentMethods() StaticPayments {
	return StaticPayments{
		{ID: "gcash", Name: "GCash", AccountNumber: "0917 000 0000", AccountName: "5J's Frozen", Active: true, SortOrder: 1},
		{ID: "cash", Name: "Cash on Pickup/Delivery", Active: true, SortOrder: 2},
	}
}

// ActiveMethods filters out inactive methods and orders the rest by SortOrder, then id.
func ActiveMethods(methods []PaymentMethod) []PaymentMethod {
	out := make([]PaymentMethod, 0, len(methods))
	for _, m := range methods {
		if m.Active {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// FindMethod looks up an active method by id.
func FindMethod(methods []PaymentMethod, id string) (PaymentMethod, bool) {
	for _, m := range methods {
		if m.ID == id && m.Active {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

// StaticSite serves fixed branding.
type StaticSite SiteSettings

// SiteSettings implements SiteSource.
func (s StaticSite) SiteSettings(context.Context) (SiteSettings, error) {
	return SiteSettings(s), nil
}

// StoredSite reads branding from the operator's key/value settings.
type StoredSite struct {
	KV delivery.KeyValueStore
}

// SiteSettings implements SiteSource. Blank values keep their default.
func (s StoredSite) SiteSettings(ctx context.Context) (SiteSettings, error) {
	site := DefaultSite()
	if s.KV == nil {
		return site, nil
	}
	raw, err := s.KV.Settings(ctx)
	if err != nil {
		return SiteSettings{}, err
	}
	if v := strings.TrimSpace(raw[KeySiteName]); v != "" {
		site.SiteName = v
	}
	if v := strings.TrimSpace(raw[KeyCurrency]); v != "" {
		site.Currency = v
	}
	return site, nil
}
