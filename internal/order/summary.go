package order

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/frozen-toko/internal/cart"
	"github.com/noah-isme/frozen-toko/internal/delivery"
	"github.com/noah-isme/frozen-toko/internal/pricing"
)

// Summary is the rendered hand-off message with the totals it states.
type Summary struct {
	Text   string          `json:"message"`
	Totals pricing.Summary `json:"totals"`
}

// BuildSummary validates req and renders the order message. The output depends only on
// req, so the same request always yields the same text.
func BuildSummary(req Request) (Summary, error) {
	if err := req.Validate(); err != nil {
		return Summary{}, err
	}
	site := req.Site
	defaults := DefaultSite()
	if strings.TrimSpace(site.SiteName) == "" {
		site.SiteName = defaults.SiteName
	}
	if strings.TrimSpace(site.Currency) == "" {
		site.Currency = defaults.Currency
	}

	fee := decimal.Zero
	if req.Service == ServiceDelivery {
		fee = req.Delivery.Quote.Fee
	}
	totals := pricing.Compute(cart.Total(req.Cart), fee)
	money := func(m pricing.Money) string { return site.Currency + pricing.Format(m) }

	var b strings.Builder
	section := func(lines ...string) {
		kept := lines[:0]
		for _, l := range lines {
			if l != "" {
				kept = append(kept, l)
			}
		}
		if len(kept) == 0 {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(strings.Join(kept, "\n"))
	}

	section("🛒 " + site.SiteName + " ORDER")
	section(
		"👤 Customer: "+strings.TrimSpace(req.Customer.Name),
		"📞 Contact: "+strings.TrimSpace(req.Customer.Contact),
		"📍 Service: "+req.Service.Label(),
	)
	if req.Service == ServiceDelivery {
		d := req.Delivery
		landmark := ""
		if l := strings.TrimSpace(d.Landmark); l != "" {
			landmark = "   • Landmark: " + l
		}
		section(
			"🛵 Delivery Info:",
			"   • Map Location: "+MapLink(d.Location),
			"   • Distance: "+pricing.Format(d.Quote.DistanceKm)+" km",
			"   • Fee: "+money(d.Quote.Fee),
			landmark,
		)
	} else {
		section("⏰ Pickup Time: " + req.Pickup.Label())
	}

	lines := make([]string, 0, len(req.Cart.Lines)+1)
	lines = append(lines, "📋 ORDER DETAILS:")
	for _, l := range req.Cart.Lines {
		lines = append(lines, describeLine(l, money))
	}
	section(lines...)

	deliveryLine := ""
	if req.Service == ServiceDelivery {
		deliveryLine = "🛵 Delivery Fee: " + money(totals.Delivery)
	}
	section(
		"💵 Items Total: "+money(totals.Subtotal),
		deliveryLine,
		"💰 TOTAL AMOUNT: "+money(totals.Total),
	)

	proof := ""
	if req.Payment.NeedsProof() {
		proof = "📸 Payment Screenshot: Please attach your payment receipt screenshot"
	}
	section("💳 Payment: "+req.Payment.Label(), proof)

	if notes := strings.TrimSpace(req.Notes); notes != "" {
		section("📝 Notes: " + notes)
	}
	section("Please confirm this order to proceed. Thank you for choosing " + site.SiteName + "! 🥟")

	return Summary{Text: b.String(), Totals: totals}, nil
}

// MapLink points a maps search at p.
func MapLink(p delivery.Point) string {
	return "https://www.google.com/maps?q=" + formatCoord(p.Lat) + "," + formatCoord(p.Lng)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func describeLine(l cart.Line, money func(pricing.Money) string) string {
	var b strings.Builder
	b.WriteString("• ")
	b.WriteString(l.Name)
	if l.Variation != nil {
		b.WriteString(" (" + l.Variation.Name + ")")
	}
	if len(l.AddOns) > 0 {
		names := make([]string, 0, len(l.AddOns))
		for _, a := range l.AddOns {
			if a.Quantity > 1 {
				names = append(names, a.Name+" x"+strconv.Itoa(a.Quantity))
				continue
			}
			names = append(names, a.Name)
		}
		b.WriteString(" + " + strings.Join(names, ", "))
	}
	b.WriteString(" x" + l.Quantity.String())
	if l.MeasurementUnit != "" {
		b.WriteString(" " + l.MeasurementUnit)
	}
	b.WriteString(" - " + money(l.Total()))
	return b.String()
}
