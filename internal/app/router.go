package app

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/frozen-toko/internal/cart"
	"github.com/noah-isme/frozen-toko/internal/common"
	"github.com/noah-isme/frozen-toko/internal/delivery"
	"github.com/noah-isme/frozen-toko/internal/health"
	"github.com/noah-isme/frozen-toko/internal/menu"
	"github.com/noah-isme/frozen-toko/internal/obs"
	"github.com/noah-isme/frozen-toko/internal/order"
	"github.com/noah-isme/frozen-toko/internal/ratelimit"
	"github.com/noah-isme/frozen-toko/internal/security"
)

// NewRouter mounts every endpoint on a chi router wrapped with otelhttp.
func NewRouter(d *Dependencies) http.Handler {
	menuHandler := menu.NewHandler(menu.HandlerConfig{Source: d.Catalog})
	cartHandler := cart.NewHandler(cart.HandlerConfig{Catalog: d.Catalog, Validator: d.Validator})
	deliveryHandler := delivery.NewHandler(d.Delivery, d.Validator)
	orderHandler := order.NewHandler(order.HandlerConfig{
		Payments:  d.Payments,
		Site:      d.Site,
		Delivery:  d.Delivery,
		Handoff:   d.Handoff,
		Validator: d.Validator,
	})

	var idem common.Idem
	var origins []string
	var healthHandler health.Handler
	var headers security.Headers
	if d.Config != nil {
		headers.HSTSMaxAge = d.Config.HSTSMaxAge
		idem.TTL = d.Config.IdempotencyTTL
		origins = d.Config.AllowedOrigins()
		healthHandler.DBTimeout = d.Config.Obs.HealthDBTimeout
		healthHandler.RedisTimeout = d.Config.Obs.HealthRedisTimeout
	} else {
		origins = []string{"*"}
	}
	if d.Redis != nil {
		idem.R = d.Redis
		healthHandler.Redis = health.CheckerFunc(func(ctx context.Context) error { return d.Redis.Ping(ctx).Err() })
	}
	if d.DB != nil {
		healthHandler.DB = health.CheckerFunc(d.DB.Ping)
	}
	limit := ratelimit.Handler{
		Limiter: d.OrderLimiter,
		OnError: func(r *http.Request, err error) {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("rate limiter unavailable")
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(headers.Middleware)
	r.Use(obs.HTTPObs{Metrics: d.HTTPMetrics}.Middleware)
	r.Use(obs.RequestLogger{Logger: d.Logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", common.IdempotencyHeader},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:         300,
	}))

	if d.HTTPMetrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Route("/catalog", func(c chi.Router) {
			c.Get("/items", menuHandler.Items)
			c.Get("/items/{id}", menuHandler.Item)
			c.Get("/categories", menuHandler.Categories)
		})

		v.Route("/cart", func(c chi.Router) {
			c.Post("/add", cartHandler.Add)
			c.Post("/update", cartHandler.Update)
			c.Post("/remove", cartHandler.Remove)
			c.Post("/clear", cartHandler.Clear)
			c.Post("/totals", cartHandler.Totals)
		})

		v.Get("/settings/delivery", deliveryHandler.Settings)
		v.Post("/delivery/quote", deliveryHandler.Quote)

		v.Get("/payment-methods", orderHandler.PaymentMethods)
		v.With(limit.Middleware, idem.Middleware).Post("/orders", orderHandler.Place)
	})

	return otelhttp.NewHandler(r, "http.server", otelhttp.WithSpanNameFormatter(obs.RouteName))
}
