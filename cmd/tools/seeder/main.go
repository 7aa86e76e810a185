package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/frozen-toko/internal/app"
	"github.com/noah-isme/frozen-toko/internal/catalog"
	"github.com/noah-isme/frozen-toko/internal/config"
	"github.com/noah-isme/frozen-toko/internal/db"
	"github.com/noah-isme/frozen-toko/internal/delivery"
	"github.com/noah-isme/frozen-toko/internal/lock"
	"github.com/noah-isme/frozen-toko/internal/obs"
	"github.com/noah-isme/frozen-toko/internal/order"
	"github.com/noah-isme/frozen-toko/internal/pricing"
	"github.com/noah-isme/frozen-toko/internal/repo"
)

func main() {
	var (
		file     = flag.String("file", "", "catalog export to load; defaults to the embedded demo catalog")
		settings = flag.Bool("settings", true, "write default site settings and payment methods")
		dryRun   = flag.Bool("dry-run", false, "validate the catalog without touching the database")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := obs.NewLogger(cfg.Obs.LogFormat, cfg.Obs.LogLevel).With().Str("tool", "seeder").Logger()

	items, err := loadItems(*file)
	if err != nil {
		logger.Fatal().Err(err).Msg("load catalog")
	}
	assignIDs(items)
	logger.Info().Int("items", len(items)).Msg("catalog loaded")
	if *dryRun {
		return
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		logger.Fatal().Msg("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = app.NewRedis(ctx, cfg.RedisURL, false, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, seeding without lock")
		} else {
			defer rdb.Close()
		}
	}

	run := func(ctx context.Context) error {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			return err
		}
		pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if err := seedCatalog(ctx, tx, items); err != nil {
				return err
			}
			if *settings {
				return seedSettings(ctx, tx)
			}
			return nil
		})
	}
	if rdb != nil {
		err = lock.Locker{R: rdb}.Do(ctx, "seeder", time.Minute, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("seed")
	}

	if rdb != nil {
		cached := catalog.NewCachedSource(nil, catalog.NewCache(rdb, cfg.CatalogCacheTTL))
		if err := cached.Invalidate(ctx); err != nil {
			logger.Warn().Err(err).Msg("invalidate catalog cache")
		}
	}
	logger.Info().Msg("seeding completed")
}

func loadItems(path string) ([]catalog.Item, error) {
	if path == "" {
		return catalog.SeedItems()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	items, err := decodeExport(data)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("catalog export is empty")
	}
	return items, nil
}

// exportRecord is a catalog item as written by the admin form, which may carry the
// discount as a mode and raw value instead of a final price.
type exportRecord struct {
	catalog.Item
	DiscountMode  string          `json:"discountMode,omitempty"`
	DiscountValue json.RawMessage `json:"discountValue,omitempty"`
}

func decodeExport(data []byte) ([]catalog.Item, error) {
	var records []exportRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	items := make([]catalog.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, rec.resolve())
	}
	return items, nil
}

// resolve derives DiscountPrice from the mode and value when a mode is present. Input
// that does not yield a positive price clears the discount.
func (r exportRecord) resolve() catalog.Item {
	item := r.Item
	if strings.TrimSpace(r.DiscountMode) == "" {
		return item
	}
	item.DiscountPrice = nil
	mode, ok := pricing.ParseDiscountMode(r.DiscountMode)
	if !ok {
		return item
	}
	raw := strings.Trim(strings.TrimSpace(string(r.DiscountValue)), `"`)
	if price, ok := pricing.DeriveDiscountPrice(mode, item.BasePrice, raw); ok {
		item.DiscountPrice = &price
	}
	return item
}

// assignIDs gives records exported without ids a stable identity for this run.
func assignIDs(items []catalog.Item) {
	for i := range items {
		if strings.TrimSpace(items[i].ID) == "" {
			items[i].ID = uuid.NewString()
		}
		for j := range items[i].Variations {
			if items[i].Variations[j].ID == "" {
				items[i].Variations[j].ID = uuid.NewString()
			}
		}
		for j := range items[i].AddOns {
			if items[i].AddOns[j].ID == "" {
				items[i].AddOns[j].ID = uuid.NewString()
			}
		}
	}
}

func seedCatalog(ctx context.Context, tx pgx.Tx, items []catalog.Item) error {
	r := repo.CatalogRepo{DB: tx}
	for i, item := range items {
		if err := r.UpsertItem(ctx, item, i); err != nil {
			return err
		}
	}
	return nil
}

func seedSettings(ctx context.Context, tx pgx.Tx) error {
	site := order.DefaultSite()
	rates := delivery.DefaultSettings()
	settings := repo.SettingsRepo{DB: tx}
	for key, value := range map[string]string{
		order.KeySiteName:     site.SiteName,
		order.KeyCurrency:     site.Currency,
		delivery.KeyStoreLat:  fmt.Sprint(rates.Store.Lat),
		delivery.KeyStoreLng:  fmt.Sprint(rates.Store.Lng),
		delivery.KeyBaseRate:  rates.BaseRate.String(),
		delivery.KeyPerKmRate: rates.PerKmRate.String(),
	} {
		if err := settings.Put(ctx, key, value); err != nil {
			return err
		}
	}
	methods, err := order.DefaultPaymentMethods().PaymentMethods(ctx)
	if err != nil {
		return err
	}
	payments := repo.PaymentMethodsRepo{DB: tx}
	for _, m := range methods {
		if err := payments.Upsert(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
