package app

import (
	"context"
	"fmt"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	limiter "github.com/ulule/limiter/v3"

	"github.com/noah-isme/frozen-toko/internal/catalog"
	"github.com/noah-isme/frozen-toko/internal/common"
	"github.com/noah-isme/frozen-toko/internal/config"
	"github.com/noah-isme/frozen-toko/internal/db"
	"github.com/noah-isme/frozen-toko/internal/delivery"
	"github.com/noah-isme/frozen-toko/internal/obs"
	"github.com/noah-isme/frozen-toko/internal/order"
	"github.com/noah-isme/frozen-toko/internal/ratelimit"
	"github.com/noah-isme/frozen-toko/internal/repo"
	"github.com/noah-isme/frozen-toko/internal/resilience"
)

// Dependencies enumerates the collaborators shared by the HTTP handlers.
type Dependencies struct {
	Config       *config.Config
	Logger       zerolog.Logger
	DB           *pgxpool.Pool
	Redis        *redis.Client
	Catalog      catalog.Source
	Delivery     delivery.SettingsSource
	Payments     order.PaymentSource
	Site         order.SiteSource
	Handoff      order.Handoff
	Validator    *validator.Validate
	OrderLimiter *limiter.Limiter
	HTTPMetrics  *obs.HTTPMetrics
}

// Open connects the configured backing services. Without DATABASE_URL the embedded seed
// catalog and default settings are served; without REDIS_URL caching and idempotency are
// off and rate limits are kept in memory.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:    cfg,
		Logger:    logger,
		Handoff:   order.LinkHandoff{Base: cfg.HandoffURLBase},
		Validator: common.NewValidator(),
	}

	if cfg.Obs.EnablePrometheus {
		obs.MustRegisterDomainMetrics(cfg.Obs.MetricsNamespace, nil)
		resilience.MustRegisterMetrics(cfg.Obs.MetricsNamespace, nil)
		deps.HTTPMetrics = obs.NewHTTPMetrics(cfg.Obs.MetricsNamespace, obs.ParseBucketsCSV(cfg.Obs.HTTPBucketsMS), nil)
	}

	if cfg.DatabaseURL != "" {
		if cfg.MigrateOnStart {
			if err := db.Migrate(cfg.DatabaseURL); err != nil {
				return nil, err
			}
			logger.Info().Msg("migrations applied")
		}
		var pool *pgxpool.Pool
		err := resilience.Retry(ctx, 5, 500*time.Millisecond, func(ctx context.Context) error {
			var err error
			pool, err = repo.NewPool(ctx, cfg.DatabaseURL)
			if err != nil {
				logger.Warn().Err(err).Msg("database not ready")
			}
			return err
		})
		if err != nil {
			return nil, err
		}
		deps.DB = pool
		settings := repo.SettingsRepo{DB: pool}
		deps.Catalog = catalog.NewGuardedSource(repo.CatalogRepo{DB: pool}, resilience.NewBreaker("postgres_catalog", 5, 0.5, 30*time.Second))
		deps.Delivery = delivery.StoredSettings{KV: settings}
		deps.Site = order.StoredSite{KV: settings}
		deps.Payments = repo.PaymentMethodsRepo{DB: pool}
	} else {
		seed, err := catalog.NewSeedSource()
		if err != nil {
			return nil, err
		}
		logger.Warn().Msg("DATABASE_URL not set, serving the embedded catalog")
		deps.Catalog = seed
		deps.Delivery = delivery.StaticSettings(delivery.DefaultSettings())
		deps.Site = order.StaticSite(order.DefaultSite())
		deps.Payments = order.DefaultPaymentMethods()
	}

	if cfg.RedisURL != "" {
		rdb, err := NewRedis(ctx, cfg.RedisURL, cfg.Obs.EnablePrometheus, logger)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.Redis = rdb
		deps.Catalog = catalog.NewCachedSource(deps.Catalog, catalog.NewCache(rdb, cfg.CatalogCacheTTL))
	}

	lim, err := ratelimit.New(cfg.OrderRateLimit, deps.Redis)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.OrderLimiter = lim
	return deps, nil
}

// NewRedis opens an instrumented client and verifies the connection.
func NewRedis(ctx context.Context, url string, metrics bool, logger zerolog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(rdb); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metrics {
		if err := redisotel.InstrumentMetrics(rdb); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// Close releases the connections opened by Open.
func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error().Err(err).Msg("close redis")
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
